package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/chandanojha35419/currency-exchange-api/internals/apperrors"
	"github.com/chandanojha35419/currency-exchange-api/internals/auth"
	"github.com/chandanojha35419/currency-exchange-api/internals/models"
	"github.com/chandanojha35419/currency-exchange-api/internals/utils"
)

// classifyUsername splits a presented username into (mobile, email); exactly
// one of the two is non-empty on success.
func classifyUsername(username string) (mobile string, email string, err error) {
	if auth.IsEmail(username) {
		return "", username, nil
	}
	if normalized, ok := auth.NormalizeMobile(username); ok {
		return normalized, "", nil
	}
	return "", "", apperrors.Validation("Need a valid email id or mobile number as username.")
}

// findUserByIdentifier resolves a classified (mobile, email) pair to a user.
func findUserByIdentifier(db *gorm.DB, mobile, email string) (*models.User, error) {
	identifier := email
	resolvers := []auth.CredentialResolver{auth.EmailResolver{}}
	if mobile != "" {
		identifier = mobile
		resolvers = []auth.CredentialResolver{auth.MobileResolver{}}
	}

	for _, resolver := range resolvers {
		user, err := resolver.Resolve(db, identifier)
		if err == nil {
			return user, nil
		}
		if errors.Is(err, auth.ErrNotApplicable) || errors.Is(err, gorm.ErrRecordNotFound) {
			continue
		}
		return nil, apperrors.Server("Something went wrong. Please try after sometime.", err)
	}
	return nil, nil
}

// RequestLoginOTP starts the passwordless login path: it issues a shared code
// for the identifier and hands it to the delivery channels. No password is
// involved; possession of the channel is the credential.
func (a *AuthController) RequestLoginOTP(c *gin.Context) {
	var body struct {
		Username string `json:"username" binding:"required,max=254"`
	}

	if err := c.ShouldBindJSON(&body); err != nil {
		apperrors.Respond(c, apperrors.Validation("Need a valid email id or mobile number as username."))
		return
	}

	mobile, email, err := classifyUsername(body.Username)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	lifetime := time.Duration(a.Settings.OTPLifetimeMinutes) * time.Minute
	code, err := models.GetSharedOTPCode(a.DB, mobile, email, models.OtpContextLogin, lifetime, a.Settings.OTPLength)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	// Deliver in the background so the response isn't held up by SMTP
	go a.Dispatcher.Dispatch(mobile, email, utils.EventLoginOTP, code)

	apperrors.Success(c, http.StatusCreated, "OTP sent successfully")
}

// ConfirmLoginOTP finishes the passwordless login: it validates the code,
// applies the same active-account gate as password login, issues a token and
// consumes the code.
func (a *AuthController) ConfirmLoginOTP(c *gin.Context) {
	var body struct {
		Username string `json:"username" binding:"required,max=254"`
		OTP      string `json:"otp" binding:"required,min=4,max=12"`
	}

	if err := c.ShouldBindJSON(&body); err != nil {
		apperrors.Respond(c, apperrors.Validation("Need a valid username and OTP."))
		return
	}

	mobile, email, err := classifyUsername(body.Username)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	identifier := email
	if mobile != "" {
		identifier = mobile
	}

	user, err := findUserByIdentifier(a.DB, mobile, email)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	if user == nil {
		apperrors.Respond(c, apperrors.Validation("No such user exists."))
		return
	}

	otp, err := models.CheckOTP(a.DB, body.OTP, identifier, models.OtpContextLogin)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	if !user.IsActive {
		apperrors.Respond(c, apperrors.Forbidden("Your account is disabled or deleted, please contact customer care.").
			WithReason(apperrors.ReasonDisabled))
		return
	}

	// Token issuance and OTP consumption commit together: a crash between the
	// two must not leave a spent code that never produced a session.
	var token *models.Token
	err = a.DB.Transaction(func(tx *gorm.DB) error {
		var txErr error
		token, txErr = models.CreateToken(tx, user, clientToken(c))
		if txErr != nil {
			return txErr
		}
		return tx.Delete(otp).Error
	})
	if err != nil {
		if appErr, ok := err.(*apperrors.Error); ok {
			apperrors.Respond(c, appErr)
			return
		}
		apperrors.Respond(c, apperrors.Server("Unable to log in with provided credentials.", err))
		return
	}

	c.JSON(http.StatusCreated, tokenResponse(token))
}
