package auth

import (
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/chandanojha35419/currency-exchange-api/internals/apperrors"
	"github.com/chandanojha35419/currency-exchange-api/internals/models"
)

// dummyHash is a throwaway bcrypt hash compared against when the user lookup
// misses, so a caller cannot tell "no such user" from "wrong password" by
// response latency.
var dummyHash = func() []byte {
	hash, err := bcrypt.GenerateFromPassword([]byte("timing-equalizer"), 10)
	if err != nil {
		panic(err)
	}
	return hash
}()

// Authenticate resolves identifier (email or username) and verifies password.
// It returns nil for both unknown users and bad passwords; this layer never
// distinguishes the two.
func Authenticate(db *gorm.DB, identifier, password string) (*models.User, error) {
	user, err := FindUser(db, identifier)
	if err != nil {
		return nil, apperrors.Server("Something went wrong. Please try after sometime.", err)
	}
	if user == nil {
		bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return nil, nil
	}
	if !user.CheckPassword(password) {
		return nil, nil
	}
	return user, nil
}

// AuthenticateToken resolves a presented token key to its user, enforcing
// expiry and the account's active flag. The token is returned alongside the
// user as the credential for downstream permission checks.
func AuthenticateToken(db *gorm.DB, key string) (*models.User, *models.Token, error) {
	token, err := models.GetToken(db, key)
	if err != nil {
		return nil, nil, err
	}

	if token.IsExpired() {
		return nil, nil, apperrors.Authentication("Your session token has expired, please login again to continue.").
			WithReason(apperrors.ReasonExpired)
	}

	if !token.User.IsActive {
		return nil, nil, apperrors.Authentication("Your account is disabled or deleted, please contact customer care.").
			WithReason(apperrors.ReasonDisabled)
	}

	return &token.User, token, nil
}
