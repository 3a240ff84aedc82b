package initializers

import (
	"log"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chandanojha35419/currency-exchange-api/internals/config"
	"github.com/chandanojha35419/currency-exchange-api/internals/models"
)

// The bot staff is the service account rows created by automated processes are
// attributed to. It is looked up (or created) once per process and never logs
// in; its password is random and discarded.

var (
	botStaff *models.Staff
	botOnce  sync.Once
	botErr   error
)

// BotStaff returns the process-wide bot staff account, creating it on first
// access. Construction is idempotent: a concurrent first access resolves to
// the same row through the unique email constraint.
func BotStaff(db *gorm.DB) (*models.Staff, error) {
	botOnce.Do(func() {
		botStaff, botErr = getOrCreateBot(db)
	})
	return botStaff, botErr
}

func getOrCreateBot(db *gorm.DB) (*models.Staff, error) {
	botEmail := config.GetEnvAsStr("BOT_EMAIL", "systembot@localhost")

	var staff models.Staff
	err := db.Preload("User").
		Joins("JOIN auth_user ON auth_user.id = staff.user_id").
		Where("auth_user.email = ?", botEmail).
		First(&staff).Error
	if err == nil {
		return &staff, nil
	}

	log.Println("Bot staff not found, creating:", botEmail)

	// No login for the bot, so just use a random password nobody will know
	created, createErr := models.CreateStaff(db, botEmail, uuid.New().String(), "Sys Bot",
		config.GetEnvAsInt("USERNAME_LENGTH", 12, true))
	if createErr != nil {
		// Lost the creation race to another process against the same database;
		// read back the winner's row.
		if readErr := db.Preload("User").
			Joins("JOIN auth_user ON auth_user.id = staff.user_id").
			Where("auth_user.email = ?", botEmail).
			First(&staff).Error; readErr == nil {
			return &staff, nil
		}
		return nil, createErr
	}
	return created, nil
}
