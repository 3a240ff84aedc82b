package initializers

import (
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/chandanojha35419/currency-exchange-api/internals/utils"
)

// StartRateRefresh keeps the currency cache warm by appending a fresh quote
// for the provider's default pair on a fixed schedule. The cache is
// append-only, so the refresher only ever adds rows; reads keep serving the
// newest one.
func StartRateRefresh(db *gorm.DB, fetcher utils.RateFetcher, interval time.Duration) {
	ticker := time.NewTicker(interval)

	go func() {
		for range ticker.C {
			if err := RefreshRate(db, fetcher); err != nil {
				// The next tick retries; a provider outage must not kill the loop
				log.Printf("Rate refresh failed: %v", err)
			}
		}
	}()
}

// RefreshRate performs one fetch-and-append of the default currency pair.
func RefreshRate(db *gorm.DB, fetcher utils.RateFetcher) error {
	quote, err := fetcher.FetchRate("", "")
	if err != nil {
		return err
	}
	if err := db.Create(quote).Error; err != nil {
		return err
	}

	log.Printf("Rate refresh: %s/%s = %s", quote.FromCurrencyCode, quote.ToCurrencyCode, quote.ExchangeRate)
	return nil
}
