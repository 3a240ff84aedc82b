package initializers

import (
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/chandanojha35419/currency-exchange-api/internals/config"
)

// Global DB handle used across the application
var DB *gorm.DB

func ConnectToDb() {
	var err error
	dsn := config.GetEnvAsStr("DB_URL", "currency-exchange.db")
	log.Println("Connecting to database at:", dsn)

	DB, err = gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		panic("Failed to connect to DB")
	}
}
