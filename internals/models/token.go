package models

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/chandanojha35419/currency-exchange-api/internals/apperrors"
)

// Token lifecycle tunables, overridden from Settings at startup.
var (
	// TokenLifetime is the validity window applied on creation and refresh
	TokenLifetime = 30 * 24 * time.Hour
	// TokenKeyBytes is the entropy behind a key; hex encoding doubles the length
	TokenKeyBytes = 20
)

// Token is an opaque bearer credential for one (user, device) pair. A device
// is whatever the client sends in its Client-Token header. Expired rows are
// kept and refreshed in place on the next login rather than swept.
type Token struct {
	Key         string    `gorm:"column:key;primaryKey;size:40"`
	UserID      uint      `gorm:"column:user_id;uniqueIndex:idx_token_user_client"`
	User        User      `gorm:"constraint:OnDelete:CASCADE"`
	ClientToken string    `gorm:"column:client_token;size:64;uniqueIndex:idx_token_user_client"`
	Created     time.Time `gorm:"column:created;autoCreateTime"`
	Expiry      time.Time `gorm:"column:expiry"`
}

func (Token) TableName() string {
	return "auth_token"
}

// GenerateTokenKey returns a hex-encoded random key of TokenKeyBytes entropy.
func GenerateTokenKey() string {
	buf := make([]byte, TokenKeyBytes)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand only fails when the OS entropy source is broken
		panic(err)
	}
	return hex.EncodeToString(buf)
}

// BeforeCreate fills in the key and expiry when the caller left them empty.
func (t *Token) BeforeCreate(tx *gorm.DB) error {
	if t.Key == "" {
		t.Key = GenerateTokenKey()
		t.Expiry = time.Now().Add(TokenLifetime)
	}
	return nil
}

// IsExpired reports whether the token is past its expiry.
func (t *Token) IsExpired() bool {
	return time.Now().After(t.Expiry)
}

// Refresh extends the expiry from now without changing the key.
func (t *Token) Refresh(db *gorm.DB) error {
	t.Expiry = time.Now().Add(TokenLifetime)
	return db.Model(t).Update("expiry", t.Expiry).Error
}

// Expire sets the expiry to now, revoking the token without deleting the row.
func (t *Token) Expire(db *gorm.DB) error {
	t.Expiry = time.Now()
	return db.Model(t).Update("expiry", t.Expiry).Error
}

// CreateToken is the canonical login entry point: it returns the live token
// for (user, clientToken), refreshing an expired one in place, or creates a
// new one. Every successful call records the login by bumping last_login.
//
// Two requests racing on the same (user, clientToken) pair are resolved by the
// unique index: the loser re-reads the winner's row once instead of failing.
func CreateToken(db *gorm.DB, user *User, clientToken string) (*Token, error) {
	token, err := getOrCreateToken(db, user.ID, clientToken)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := db.Model(user).Update("last_login", now).Error; err != nil {
		return nil, apperrors.Server("Unable to log in with provided credentials.", err)
	}
	user.LastLogin = &now

	return token, nil
}

func getOrCreateToken(db *gorm.DB, userID uint, clientToken string) (*Token, error) {
	var token Token
	err := db.Where("user_id = ? AND client_token = ?", userID, clientToken).First(&token).Error
	if err == nil {
		log.Println("Token already exist, reusing.")
		if token.IsExpired() {
			if err := token.Refresh(db); err != nil {
				return nil, apperrors.Server("Unable to log in with provided credentials.", err)
			}
		}
		return &token, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Server("Unable to log in with provided credentials.", err)
	}

	token = Token{UserID: userID, ClientToken: clientToken}
	if createErr := db.Create(&token).Error; createErr != nil {
		// Lost the uniqueness race to a concurrent login; the winner's row is
		// the one to hand back.
		var existing Token
		if readErr := db.Where("user_id = ? AND client_token = ?", userID, clientToken).
			First(&existing).Error; readErr == nil {
			return &existing, nil
		}
		return nil, apperrors.Server("Unable to log in with provided credentials.", createErr)
	}
	return &token, nil
}

// GetToken looks a token up by key.
func GetToken(db *gorm.DB, key string) (*Token, error) {
	var token Token
	if err := db.Preload("User").Where("key = ?", key).First(&token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Authentication("Invalid session token, please login again to continue.").
				WithReason(apperrors.ReasonNotFound)
		}
		return nil, apperrors.Server("Something went wrong. Please try after sometime.", err)
	}
	return &token, nil
}

// DeleteUserTokens removes every token of a user, logging them out everywhere.
func DeleteUserTokens(db *gorm.DB, userID uint) error {
	return db.Where("user_id = ?", userID).Delete(&Token{}).Error
}
