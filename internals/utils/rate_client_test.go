package utils_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chandanojha35419/currency-exchange-api/internals/apperrors"
	"github.com/chandanojha35419/currency-exchange-api/internals/utils"
)

const quotePayload = `{
	"Realtime Currency Exchange Rate": {
		"1. From_Currency Code": "BTC",
		"2. From_Currency Name": "Bitcoin",
		"3. To_Currency Code": "USD",
		"4. To_Currency Name": "United States Dollar",
		"5. Exchange Rate": "60123.45000000",
		"6. Last Refreshed": "2026-09-01 10:30:00",
		"7. Time Zone": "UTC",
		"8. Bid Price": "60120.00000000",
		"9. Ask Price": "60125.00000000"
	}
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *utils.AlphaVantageClient {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := utils.NewAlphaVantageClient("test-key")
	client.BaseURL = server.URL
	return client
}

func TestFetchRateParsesQuote(t *testing.T) {
	var gotQuery map[string]string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"function":      r.URL.Query().Get("function"),
			"from_currency": r.URL.Query().Get("from_currency"),
			"to_currency":   r.URL.Query().Get("to_currency"),
			"apikey":        r.URL.Query().Get("apikey"),
		}
		w.Write([]byte(quotePayload))
	})

	quote, err := client.FetchRate("BTC", "USD")
	require.NoError(t, err)

	assert.Equal(t, "CURRENCY_EXCHANGE_RATE", gotQuery["function"])
	assert.Equal(t, "BTC", gotQuery["from_currency"])
	assert.Equal(t, "USD", gotQuery["to_currency"])
	assert.Equal(t, "test-key", gotQuery["apikey"])

	assert.Equal(t, "BTC", quote.FromCurrencyCode)
	assert.Equal(t, "Bitcoin", quote.FromCurrencyName)
	assert.Equal(t, "USD", quote.ToCurrencyCode)
	assert.Equal(t, "60123.45000000", quote.ExchangeRate)
	assert.Equal(t, "60120.00000000", quote.BidPrice)
	assert.Equal(t, "60125.00000000", quote.AskPrice)
	assert.Equal(t, "UTC", quote.Timezone)
	assert.Equal(t, time.Date(2026, 9, 1, 10, 30, 0, 0, time.UTC), quote.LastRefreshed)
}

func TestFetchRateDefaultsPair(t *testing.T) {
	var from, to string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		from = r.URL.Query().Get("from_currency")
		to = r.URL.Query().Get("to_currency")
		w.Write([]byte(quotePayload))
	})

	_, err := client.FetchRate("", "")
	require.NoError(t, err)
	assert.Equal(t, "BTC", from)
	assert.Equal(t, "USD", to)
}

func TestFetchRateUnknownCodes(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		// the provider answers 200 with an error note instead of a quote
		w.Write([]byte(`{"Error Message": "Invalid API call."}`))
	})

	_, err := client.FetchRate("XXX", "YYY")
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestFetchRateProviderDown(t *testing.T) {
	client := utils.NewAlphaVantageClient("test-key")
	client.BaseURL = "http://127.0.0.1:1"

	_, err := client.FetchRate("BTC", "USD")
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindServiceUnavailable))
}
