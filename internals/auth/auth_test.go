package auth_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/chandanojha35419/currency-exchange-api/internals/apperrors"
	"github.com/chandanojha35419/currency-exchange-api/internals/auth"
	"github.com/chandanojha35419/currency-exchange-api/internals/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Token{}))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	user, err := models.CreateUser(db, email, "s3cret-pass", "Test User", "", 12, nil)
	require.NoError(t, err)
	return user
}

func TestAuthenticate(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "alice@example.com")

	t.Run("correct password by email", func(t *testing.T) {
		got, err := auth.Authenticate(db, "alice@example.com", "s3cret-pass")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, user.ID, got.ID)
	})

	t.Run("correct password by username", func(t *testing.T) {
		got, err := auth.Authenticate(db, user.Username, "s3cret-pass")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, user.ID, got.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		got, err := auth.Authenticate(db, "alice@example.com", "wrong")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("unknown user", func(t *testing.T) {
		got, err := auth.Authenticate(db, "nobody@example.com", "s3cret-pass")
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestFindUser(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "alice@example.com")

	got, err := auth.FindUser(db, "alice@example.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, user.ID, got.ID)

	got, err = auth.FindUser(db, user.Username)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, user.ID, got.ID)

	got, err = auth.FindUser(db, "no-such-one")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMobileResolver(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "alice@example.com")
	mobile := "919876543210"
	require.NoError(t, db.Model(user).Update("mobile", mobile).Error)

	got, err := auth.MobileResolver{}.Resolve(db, "9876543210")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = auth.MobileResolver{}.Resolve(db, "alice@example.com")
	assert.ErrorIs(t, err, auth.ErrNotApplicable)
}

func TestAuthenticateToken(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "alice@example.com")
	token, err := models.CreateToken(db, user, "device-1")
	require.NoError(t, err)

	t.Run("valid token", func(t *testing.T) {
		gotUser, gotToken, err := auth.AuthenticateToken(db, token.Key)
		require.NoError(t, err)
		assert.Equal(t, user.ID, gotUser.ID)
		assert.Equal(t, token.Key, gotToken.Key)
	})

	t.Run("unknown key", func(t *testing.T) {
		_, _, err := auth.AuthenticateToken(db, strings.Repeat("0", 40))
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindAuthentication))
	})

	t.Run("expired token", func(t *testing.T) {
		require.NoError(t, token.Expire(db))
		_, _, err := auth.AuthenticateToken(db, token.Key)
		require.Error(t, err)
		assert.True(t, apperrors.HasReason(err, apperrors.ReasonExpired))
		require.NoError(t, token.Refresh(db))
	})

	t.Run("disabled account", func(t *testing.T) {
		require.NoError(t, db.Model(user).Update("is_active", false).Error)
		_, _, err := auth.AuthenticateToken(db, token.Key)
		require.Error(t, err)
		assert.True(t, apperrors.HasReason(err, apperrors.ReasonDisabled))
	})
}

func TestNormalizeMobile(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"9876543210", "919876543210", true},
		{"+91 98765 43210", "919876543210", true},
		{"91-9876543210", "919876543210", true},
		{"919876543210", "919876543210", true},
		{"19876543210", "19876543210", true},
		{"98765", "", false},
		{"98765432101234", "", false},
		{"98765abcde", "", false},
		{"", "", false},
		{"alice@example.com", "", false},
	}
	for _, tc := range cases {
		got, ok := auth.NormalizeMobile(tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestIsEmail(t *testing.T) {
	assert.True(t, auth.IsEmail("alice@example.com"))
	assert.True(t, auth.IsEmail("a.b+tag@sub.example.co"))
	assert.False(t, auth.IsEmail("not-an-email"))
	assert.False(t, auth.IsEmail("Alice <alice@example.com>"))
	assert.False(t, auth.IsEmail("9876543210"))
}
