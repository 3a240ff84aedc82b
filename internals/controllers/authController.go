package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/chandanojha35419/currency-exchange-api/internals/apperrors"
	"github.com/chandanojha35419/currency-exchange-api/internals/auth"
	"github.com/chandanojha35419/currency-exchange-api/internals/config"
	"github.com/chandanojha35419/currency-exchange-api/internals/middleware"
	"github.com/chandanojha35419/currency-exchange-api/internals/models"
	"github.com/chandanojha35419/currency-exchange-api/internals/utils"
)

type AuthController struct {
	DB         *gorm.DB
	Dispatcher *utils.OTPDispatcher
	Settings   *config.Settings
}

func NewAuthController(db *gorm.DB, dispatcher *utils.OTPDispatcher, settings *config.Settings) *AuthController {
	return &AuthController{
		DB:         db,
		Dispatcher: dispatcher,
		Settings:   settings,
	}
}

// clientToken is the caller-supplied device identifier; one token exists per
// (user, device) pair.
func clientToken(c *gin.Context) string {
	return c.GetHeader("Client-Token")
}

// tokenResponse is the success shape shared by login, OTP login and signup.
func tokenResponse(token *models.Token) gin.H {
	return gin.H{"token": token.Key, "expiry": token.Expiry.Format(time.RFC3339)}
}

// Login handles user login, returns the access token on success and updates
// the user's last login time.
func (a *AuthController) Login(c *gin.Context) {
	a.login(c, func(user *models.User) bool { return true })
}

// StaffLogin is the staff-only login endpoint; non-staff credentials are
// rejected even when valid.
func (a *AuthController) StaffLogin(c *gin.Context) {
	a.login(c, func(user *models.User) bool { return user.IsStaff })
}

func (a *AuthController) login(c *gin.Context, isLoginAllowed func(*models.User) bool) {
	var body struct {
		Username string `json:"username" binding:"required,max=254"`
		Password string `json:"password" binding:"required,max=40"`
	}

	// Malformed input gets the same generic message as bad credentials; the
	// login endpoint never explains which part failed.
	if err := c.ShouldBindJSON(&body); err != nil {
		apperrors.Respond(c, apperrors.Authentication("Unable to log in with provided credentials."))
		return
	}

	user, err := auth.Authenticate(a.DB, body.Username, body.Password)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	if user == nil {
		apperrors.Respond(c, apperrors.Authentication("Unable to log in with provided credentials."))
		return
	}

	if !isLoginAllowed(user) {
		apperrors.Respond(c, apperrors.Forbidden("You are not allowed to login.").
			WithReason(apperrors.ReasonAccessDenied))
		return
	}
	if !user.IsActive {
		apperrors.Respond(c, apperrors.Forbidden("Your account is disabled or deleted, please contact customer care.").
			WithReason(apperrors.ReasonDisabled))
		return
	}

	token, err := models.CreateToken(a.DB, user, clientToken(c))
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, tokenResponse(token))
}

// Logout deletes the presented token, or every token of the user when the
// logout_all query flag is set.
func (a *AuthController) Logout(c *gin.Context) {
	user := middleware.CurrentUser(c)
	token := middleware.CurrentToken(c)

	if isTruthy(c.Query("logout_all")) {
		if err := user.DeleteExistingTokens(a.DB); err != nil {
			apperrors.Respond(c, apperrors.Server("Something went wrong. Please try after sometime.", err))
			return
		}
		apperrors.Success(c, http.StatusOK, "Logged out of all devices successfully.")
		return
	}

	if err := a.DB.Delete(token).Error; err != nil {
		apperrors.Respond(c, apperrors.Server("Something went wrong. Please try after sometime.", err))
		return
	}
	apperrors.Success(c, http.StatusOK, "Logged out successfully.")
}

// Signup registers a new user with a unique email and logs them straight in,
// returning the fresh token.
func (a *AuthController) Signup(c *gin.Context) {
	var body struct {
		Email    string `json:"email" binding:"required,email,min=8,max=254"`
		Name     string `json:"name" binding:"max=100"`
		Password string `json:"password" binding:"required,min=8,max=40"`
	}

	if err := c.ShouldBindJSON(&body); err != nil {
		apperrors.Respond(c, apperrors.Validation("Need a valid email id and a password of at least 8 characters."))
		return
	}

	var count int64
	if err := a.DB.Model(&models.User{}).Where("email = ?", body.Email).Count(&count).Error; err != nil {
		apperrors.Respond(c, apperrors.Server("Error in registration, please try again.", err))
		return
	}
	if count > 0 {
		apperrors.Respond(c, apperrors.Validation("User with given email already exists: "+body.Email).
			WithReason(apperrors.ReasonAlreadyExists))
		return
	}

	user, err := models.CreateUser(a.DB, body.Email, body.Password, body.Name, "", a.Settings.UsernameLength, nil)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	token, err := models.CreateToken(a.DB, user, clientToken(c))
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, tokenResponse(token))
}

func isTruthy(value string) bool {
	switch value {
	case "true", "True", "1", "yes":
		return true
	}
	return false
}
