package main

import (
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/chandanojha35419/currency-exchange-api/internals/config"
	"github.com/chandanojha35419/currency-exchange-api/internals/initializers"
	"github.com/chandanojha35419/currency-exchange-api/internals/models"
	"github.com/chandanojha35419/currency-exchange-api/internals/routes"
	"github.com/chandanojha35419/currency-exchange-api/internals/utils"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment")
	}

	initializers.ConnectToDb()
	initializers.SyncDatabase()
}

func main() {
	settings := config.LoadSettings()

	// Apply the lifetime/length tunables before the first request
	models.TokenLifetime = time.Duration(settings.TokenLifetimeDays) * 24 * time.Hour
	models.TokenKeyBytes = settings.TokenLength
	models.OTPLifetime = time.Duration(settings.OTPLifetimeMinutes) * time.Minute
	models.OTPLength = settings.OTPLength

	if _, err := initializers.BotStaff(initializers.DB); err != nil {
		log.Printf("Warning: bot staff bootstrap failed: %v", err)
	}

	fetcher := utils.NewAlphaVantageClient(settings.RateAPIKey)
	initializers.StartRateRefresh(initializers.DB, fetcher,
		time.Duration(settings.RateRefreshMinutes)*time.Minute)

	r := routes.SetupRouter(initializers.DB, settings, fetcher)

	if err := r.Run(settings.Addr); err != nil {
		log.Fatal("Server failed to start: ", err)
	}
}
