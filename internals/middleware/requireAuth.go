package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/chandanojha35419/currency-exchange-api/internals/apperrors"
	"github.com/chandanojha35419/currency-exchange-api/internals/auth"
	"github.com/chandanojha35419/currency-exchange-api/internals/models"
)

// Context keys under which the authenticated identity is stored.
const (
	ContextUserKey  = "user"
	ContextTokenKey = "token"
)

// TokenHeaderPrefix is the scheme in "Authorization: Token <key>".
const TokenHeaderPrefix = "Token "

type RequireAuthMiddleware struct {
	DB *gorm.DB
}

func NewRequireAuthMiddleware(db *gorm.DB) *RequireAuthMiddleware {
	return &RequireAuthMiddleware{DB: db}
}

// RequireAuth authenticates the request by its token header and stores the
// user and token in the gin context for downstream handlers.
func (m *RequireAuthMiddleware) RequireAuth(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, TokenHeaderPrefix) {
		apperrors.Respond(c, apperrors.Authentication("Invalid session token, please login again to continue.").
			WithReason(apperrors.ReasonNotFound))
		return
	}
	key := strings.TrimSpace(strings.TrimPrefix(header, TokenHeaderPrefix))

	user, token, err := auth.AuthenticateToken(m.DB, key)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.Set(ContextUserKey, user)
	c.Set(ContextTokenKey, token)
	c.Next()
}

// RequireStaff gates a route to active staff users. Must run after RequireAuth.
func (m *RequireAuthMiddleware) RequireStaff(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil || !user.IsStaff {
		apperrors.Respond(c, apperrors.Forbidden("You do not have permission to perform this action.").
			WithReason(apperrors.ReasonStaffOnly))
		return
	}
	c.Next()
}

// RequireAdmin gates a route to superusers. Must run after RequireAuth.
func (m *RequireAuthMiddleware) RequireAdmin(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil || !user.IsSuperuser {
		apperrors.Respond(c, apperrors.Forbidden("You do not have permission to perform this action.").
			WithReason(apperrors.ReasonStaffAdminOnly))
		return
	}
	c.Next()
}

// CurrentUser returns the authenticated user set by RequireAuth, or nil.
func CurrentUser(c *gin.Context) *models.User {
	value, ok := c.Get(ContextUserKey)
	if !ok {
		return nil
	}
	user, _ := value.(*models.User)
	return user
}

// CurrentToken returns the credential token set by RequireAuth, or nil.
func CurrentToken(c *gin.Context) *models.Token {
	value, ok := c.Get(ContextTokenKey)
	if !ok {
		return nil
	}
	token, _ := value.(*models.Token)
	return token
}

// CurrentStaff resolves the authenticated user's staff profile. It delegates
// to models.ResolveStaff so request- and user-based callers share one lookup.
func CurrentStaff(c *gin.Context, db *gorm.DB) (*models.Staff, error) {
	return models.ResolveStaff(db, CurrentUser(c))
}
