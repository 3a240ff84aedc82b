package initializers

import (
	"gorm.io/gorm"

	"github.com/chandanojha35419/currency-exchange-api/internals/models"
)

func SyncDatabase() {
	if err := Migrate(DB); err != nil {
		panic("Failed to migrate database")
	}
}

// Migrate applies the schema to the given connection. Exposed separately so
// tests can run it against their own in-memory databases.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Token{},
		&models.OTP{},
		&models.Staff{},
		&models.Currency{},
	)
}
