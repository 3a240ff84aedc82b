package models_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chandanojha35419/currency-exchange-api/internals/models"
)

func TestGenerateTokenKey(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		key := models.GenerateTokenKey()
		assert.Len(t, key, 40)
		assert.False(t, seen[key], "duplicate key generated")
		seen[key] = true
	}
}

func TestCreateTokenReusesLiveToken(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "alice@example.com")

	first, err := models.CreateToken(db, user, "device-1")
	require.NoError(t, err)
	require.Len(t, first.Key, 40)
	assert.True(t, first.Expiry.After(time.Now()))

	second, err := models.CreateToken(db, user, "device-1")
	require.NoError(t, err)
	assert.Equal(t, first.Key, second.Key)

	var count int64
	require.NoError(t, db.Model(&models.Token{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestCreateTokenPerDevice(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "alice@example.com")

	first, err := models.CreateToken(db, user, "device-1")
	require.NoError(t, err)
	second, err := models.CreateToken(db, user, "device-2")
	require.NoError(t, err)

	assert.NotEqual(t, first.Key, second.Key)
}

func TestCreateTokenRefreshesExpired(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "alice@example.com")

	token, err := models.CreateToken(db, user, "device-1")
	require.NoError(t, err)
	require.NoError(t, token.Expire(db))

	reused, err := models.CreateToken(db, user, "device-1")
	require.NoError(t, err)
	assert.Equal(t, token.Key, reused.Key, "refresh keeps the key")
	assert.False(t, reused.IsExpired())
}

func TestCreateTokenBumpsLastLogin(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "alice@example.com")
	require.Nil(t, user.LastLogin)

	_, err := models.CreateToken(db, user, "")
	require.NoError(t, err)
	require.NotNil(t, user.LastLogin)

	var stored models.User
	require.NoError(t, db.First(&stored, user.ID).Error)
	assert.NotNil(t, stored.LastLogin)
}

func TestExpireRevokesWithoutDeleting(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "alice@example.com")

	token, err := models.CreateToken(db, user, "device-1")
	require.NoError(t, err)
	require.NoError(t, token.Expire(db))

	stored, err := models.GetToken(db, token.Key)
	require.NoError(t, err)
	assert.True(t, stored.IsExpired())
}

func TestRefreshExtendsExpiry(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "alice@example.com")

	token, err := models.CreateToken(db, user, "device-1")
	require.NoError(t, err)
	require.NoError(t, token.Expire(db))
	require.NoError(t, token.Refresh(db))

	stored, err := models.GetToken(db, token.Key)
	require.NoError(t, err)
	assert.False(t, stored.IsExpired())
	assert.Equal(t, token.Key, stored.Key)
}

func TestDeleteUserTokens(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "alice@example.com")
	other := createTestUser(t, db, "bob@example.com")

	for _, device := range []string{"d1", "d2", "d3"} {
		_, err := models.CreateToken(db, user, device)
		require.NoError(t, err)
	}
	keep, err := models.CreateToken(db, other, "d1")
	require.NoError(t, err)

	require.NoError(t, models.DeleteUserTokens(db, user.ID))

	var count int64
	require.NoError(t, db.Model(&models.Token{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.EqualValues(t, 0, count)

	_, err = models.GetToken(db, keep.Key)
	assert.NoError(t, err, "other users keep their tokens")
}
