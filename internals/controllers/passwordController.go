package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/chandanojha35419/currency-exchange-api/internals/apperrors"
	"github.com/chandanojha35419/currency-exchange-api/internals/middleware"
	"github.com/chandanojha35419/currency-exchange-api/internals/models"
	"github.com/chandanojha35419/currency-exchange-api/internals/utils"
)

// RequestPasswordReset resolves the username to an account and sends a shared
// password-reset code to its channels. Unlike login, a miss is reported: the
// caller is recovering a known account, not probing.
func (a *AuthController) RequestPasswordReset(c *gin.Context) {
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

	user, err := findUserByIdentifier(a.DB, mobile, email)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	if user == nil {
		apperrors.Respond(c, apperrors.Validation("No such user exists."))
		return
	}

	lifetime := time.Duration(a.Settings.OTPLifetimeMinutes) * time.Minute
	code, err := models.GetSharedOTPCode(a.DB, mobile, email, models.OtpContextPasswordReset, lifetime, a.Settings.OTPLength)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	go a.Dispatcher.Dispatch(mobile, email, utils.EventPasswordResetOTP, code)

	c.JSON(http.StatusCreated, gin.H{
		"message":          "Password reset OTP sent to your email.",
		"first_time_login": user.LastLogin == nil,
	})
}

// ConfirmPasswordReset validates the reset code and applies the new password.
// Password update, all-device token deletion and OTP consumption commit as one
// transaction so a crash can neither leave stale sessions alive with the new
// password nor burn the code without changing anything.
func (a *AuthController) ConfirmPasswordReset(c *gin.Context) {
	var body struct {
		Username string `json:"username" binding:"required,max=254"`
		OTP      string `json:"otp" binding:"required,min=4,max=12"`
		Password string `json:"password" binding:"required,min=8,max=40"`
	}

	if err := c.ShouldBindJSON(&body); err != nil {
		apperrors.Respond(c, apperrors.Validation("Need a valid username, OTP and a password of at least 8 characters."))
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

	otp, err := models.CheckOTP(a.DB, body.OTP, identifier, models.OtpContextPasswordReset)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	if err := user.SetPassword(body.Password); err != nil {
		apperrors.Respond(c, apperrors.Server("Something went wrong. Please try after sometime.", err))
		return
	}

	err = a.DB.Transaction(func(tx *gorm.DB) error {
		if txErr := tx.Model(user).Update("password", user.Password).Error; txErr != nil {
			return txErr
		}
		if txErr := models.DeleteUserTokens(tx, user.ID); txErr != nil {
			return txErr
		}
		return tx.Delete(otp).Error
	})
	if err != nil {
		apperrors.Respond(c, apperrors.Server("Something went wrong. Please try after sometime.", err))
		return
	}

	apperrors.Success(c, http.StatusAccepted, "Password changed successfully.")
}

// ChangePassword updates the password of the authenticated user after
// verifying the current one, then logs the user out of every device including
// the one making this request.
func (a *AuthController) ChangePassword(c *gin.Context) {
	var body struct {
		OldPassword string `json:"old_password" binding:"required,max=40"`
		Password    string `json:"password" binding:"required,min=8,max=40"`
	}

	if err := c.ShouldBindJSON(&body); err != nil {
		apperrors.Respond(c, apperrors.Validation("Need the current password and a new password of at least 8 characters."))
		return
	}

	user := middleware.CurrentUser(c)
	if !user.CheckPassword(body.OldPassword) {
		apperrors.Respond(c, apperrors.Authentication("Incorrect current password."))
		return
	}

	if err := user.SetPassword(body.Password); err != nil {
		apperrors.Respond(c, apperrors.Server("Something went wrong. Please try after sometime.", err))
		return
	}

	err := a.DB.Transaction(func(tx *gorm.DB) error {
		if txErr := tx.Model(user).Update("password", user.Password).Error; txErr != nil {
			return txErr
		}
		return models.DeleteUserTokens(tx, user.ID)
	})
	if err != nil {
		apperrors.Respond(c, apperrors.Server("Something went wrong. Please try after sometime.", err))
		return
	}

	apperrors.Success(c, http.StatusAccepted, "Password changed successfully.")
}
