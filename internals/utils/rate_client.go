package utils

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/chandanojha35419/currency-exchange-api/internals/apperrors"
	"github.com/chandanojha35419/currency-exchange-api/internals/models"
)

// RateFetcher is the collaborator contract for fetching a live exchange-rate
// quote. The returned Currency is not yet persisted.
type RateFetcher interface {
	FetchRate(fromCurrency, toCurrency string) (*models.Currency, error)
}

// AlphaVantageClient fetches realtime currency exchange rates from the Alpha
// Vantage REST API.
type AlphaVantageClient struct {
	APIKey  string
	BaseURL string
	HTTP    *http.Client
}

func NewAlphaVantageClient(apiKey string) *AlphaVantageClient {
	return &AlphaVantageClient{
		APIKey:  apiKey,
		BaseURL: "https://www.alphavantage.co/query",
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

// exchangeRatePayload mirrors Alpha Vantage's numbered field names.
type exchangeRatePayload struct {
	Rate map[string]string `json:"Realtime Currency Exchange Rate"`
}

func (c *AlphaVantageClient) FetchRate(fromCurrency, toCurrency string) (*models.Currency, error) {
	if fromCurrency == "" {
		fromCurrency = "BTC"
	}
	if toCurrency == "" {
		toCurrency = "USD"
	}

	query := url.Values{}
	query.Set("function", "CURRENCY_EXCHANGE_RATE")
	query.Set("from_currency", fromCurrency)
	query.Set("to_currency", toCurrency)
	query.Set("apikey", c.APIKey)

	resp, err := c.HTTP.Get(c.BaseURL + "?" + query.Encode())
	if err != nil {
		return nil, apperrors.ServiceUnavailable("Service is currently not available. Please try after sometime.")
	}
	defer resp.Body.Close()

	var payload exchangeRatePayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, apperrors.Server("Something went wrong. Please try after sometime.", err)
	}

	// The provider answers 200 with an empty/absent rate object for unknown
	// currency codes, so absence is a validation failure, not an outage.
	rate := payload.Rate
	if len(rate) == 0 {
		return nil, apperrors.Validation("Enter valid currency codes.")
	}

	refreshed, _ := time.Parse("2006-01-02 15:04:05", rate["6. Last Refreshed"])

	currency := &models.Currency{
		FromCurrencyCode: rate["1. From_Currency Code"],
		FromCurrencyName: rate["2. From_Currency Name"],
		ToCurrencyCode:   rate["3. To_Currency Code"],
		ToCurrencyName:   rate["4. To_Currency Name"],
		ExchangeRate:     rate["5. Exchange Rate"],
		LastRefreshed:    refreshed,
		Timezone:         rate["7. Time Zone"],
		BidPrice:         rate["8. Bid Price"],
		AskPrice:         rate["9. Ask Price"],
	}
	if currency.FromCurrencyCode == "" || currency.ExchangeRate == "" {
		return nil, apperrors.Validation("Enter valid currency codes.")
	}
	return currency, nil
}

// String helps debugging misconfigured clients without leaking the key.
func (c *AlphaVantageClient) String() string {
	return fmt.Sprintf("AlphaVantageClient(%s)", c.BaseURL)
}
