package models

import (
	"crypto/rand"
	"errors"
	"math/big"
	"time"

	"gorm.io/gorm"

	"github.com/chandanojha35419/currency-exchange-api/internals/apperrors"
)

// OTP contexts distinguish what a code is for. A code is only valid for the
// context it was issued under.
const (
	OtpContextPasswordReset = "PR"
	OtpContextVerifyEmail   = "PVE"
	OtpContextVerifyMobile  = "PVM"
	OtpContextLogin         = "OL"
)

// OTP lifecycle tunables, overridden from Settings at startup.
var (
	OTPLifetime = 30 * time.Minute
	OTPLength   = 6
)

// OTP is a one-time numeric code bound to an email or mobile identifier and a
// context. Only one live code exists per (identifier, context); expired rows
// linger until the next request for the same pair replaces them.
type OTP struct {
	ID            uint      `gorm:"primaryKey"`
	EmailOrMobile string    `gorm:"column:email_or_mobile;size:254;uniqueIndex:idx_otp_identifier_context"`
	Context       string    `gorm:"column:context;size:8;uniqueIndex:idx_otp_identifier_context"`
	Code          string    `gorm:"column:otp;size:12"`
	ExpiresOn     time.Time `gorm:"column:expires_on"`
}

func (OTP) TableName() string {
	return "auth_otp"
}

// IsValid reports whether the code is still usable forMinutes from now.
func (o *OTP) IsValid(forMinutes int) bool {
	now := time.Now().Add(time.Duration(forMinutes) * time.Minute)
	return o.ExpiresOn.After(now)
}

// GenerateOTP returns a random digit string of the given length (OTPLength
// when length <= 0). The first digit is re-rolled from 1-9 when it comes up
// '0' so codes never display with a leading zero.
func GenerateOTP(length int) string {
	if length <= 0 {
		length = OTPLength
	}
	digits := make([]byte, length)
	for i := range digits {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			panic(err)
		}
		digits[i] = byte('0' + n.Int64())
	}
	if digits[0] == '0' {
		n, err := rand.Int(rand.Reader, big.NewInt(9))
		if err != nil {
			panic(err)
		}
		digits[0] = byte('1' + n.Int64())
	}
	return string(digits)
}

// GetOTP returns the live code for (identifier, context), or mints a new one.
// A valid existing code is returned unchanged so resends are idempotent; an
// expired one is deleted and replaced. code, when non-empty, forces the stored
// value instead of generating one; that is how the shared email+mobile code is
// synchronized. The whole exchange runs in one transaction.
func GetOTP(db *gorm.DB, identifier, context string, lifetime time.Duration, length int, code string) (*OTP, error) {
	if lifetime <= 0 {
		lifetime = OTPLifetime
	}

	var result *OTP
	err := db.Transaction(func(tx *gorm.DB) error {
		var existing []OTP
		if err := tx.Where("email_or_mobile = ? AND context = ?", identifier, context).
			Find(&existing).Error; err != nil {
			return err
		}

		switch {
		case len(existing) == 1 && existing[0].IsValid(0):
			// Live code, just resend it.
			result = &existing[0]
			return nil
		case len(existing) >= 1:
			// Expired, or (defensively) more than one row for the pair:
			// clear everything and start over.
			if err := tx.Where("email_or_mobile = ? AND context = ?", identifier, context).
				Delete(&OTP{}).Error; err != nil {
				return err
			}
		}

		if code == "" {
			code = GenerateOTP(length)
		}
		fresh := OTP{
			EmailOrMobile: identifier,
			Context:       context,
			Code:          code,
			ExpiresOn:     time.Now().Add(lifetime),
		}
		if err := tx.Create(&fresh).Error; err != nil {
			return err
		}
		result = &fresh
		return nil
	})
	if err != nil {
		return nil, apperrors.Server("Could not send OTP, please try again.", err)
	}
	return result, nil
}

// GetSharedOTPCode issues the same code for a (mobile, email) pair under one
// context, generating against the mobile entry first and forcing the email
// entry to reuse it. At least one of the two must be present.
//
// Because one code lands on both channels, shared codes are meant for login
// and password reset, not for proving ownership of a channel.
func GetSharedOTPCode(db *gorm.DB, mobile, email, context string, lifetime time.Duration, length int) (string, error) {
	if mobile == "" && email == "" {
		return "", apperrors.Validation("Need a valid email id or mobile number as username.")
	}

	var otp *OTP
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		if mobile != "" {
			otp, err = GetOTP(tx, mobile, context, lifetime, length, "")
			if err != nil {
				return err
			}
		}
		if email != "" {
			code := ""
			if otp != nil {
				code = otp.Code
			}
			otp, err = GetOTP(tx, email, context, lifetime, length, code)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if appErr, ok := err.(*apperrors.Error); ok {
			return "", appErr
		}
		return "", apperrors.Server("Could not send OTP, please try again.", err)
	}
	return otp.Code, nil
}

// CheckOTP validates a presented code against (identifier, context). A miss on
// any part of the tuple is NotFound; a matching but stale row fails with the
// Expired reason. The row is returned for the caller to delete once the flow
// that consumed it has committed.
func CheckOTP(db *gorm.DB, code, identifier, context string) (*OTP, error) {
	var otp OTP
	err := db.Where("otp = ? AND email_or_mobile = ? AND context = ?", code, identifier, context).
		First(&otp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Invalid or expired OTP: " + code)
		}
		return nil, apperrors.Server("Something went wrong. Please try after sometime.", err)
	}

	if !otp.IsValid(0) {
		return nil, apperrors.Validation("Invalid or expired OTP: " + code).
			WithReason(apperrors.ReasonExpired)
	}
	return &otp, nil
}
