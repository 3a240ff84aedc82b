package models

import (
	"time"

	"gorm.io/gorm"
)

// Currency is one cached exchange-rate quote. Rates and prices are stored as
// decimal strings exactly as the upstream provider reports them; the cache is
// append-only and reads serve the newest row first.
type Currency struct {
	gorm.Model
	FromCurrencyCode string    `gorm:"column:from_currency_code;size:100;index" json:"from_currency_code"`
	FromCurrencyName string    `gorm:"column:from_currency_name;size:100" json:"from_currency_name"`
	ToCurrencyCode   string    `gorm:"column:to_currency_code;size:100;index" json:"to_currency_code"`
	ToCurrencyName   string    `gorm:"column:to_currency_name;size:100" json:"to_currency_name"`
	ExchangeRate     string    `gorm:"column:exchange_rate;size:32" json:"exchange_rate"`
	LastRefreshed    time.Time `gorm:"column:last_refreshed" json:"last_refreshed"`
	Timezone         string    `gorm:"column:timezone;size:100" json:"timezone"`
	AskPrice         string    `gorm:"column:ask_price;size:32" json:"ask_price"`
	BidPrice         string    `gorm:"column:bid_price;size:32" json:"bid_price"`
}

func (Currency) TableName() string {
	return "currency"
}

// CurrencyFilter narrows a listing; zero values mean "no constraint".
type CurrencyFilter struct {
	FromCurrencyCode string
	ToCurrencyCode   string
	Limit            int
	Offset           int
}

// ListCurrencies returns cached quotes newest first.
func ListCurrencies(db *gorm.DB, filter CurrencyFilter) ([]Currency, error) {
	query := db.Model(&Currency{}).Order("id desc")
	if filter.FromCurrencyCode != "" {
		query = query.Where("from_currency_code = ?", filter.FromCurrencyCode)
	}
	if filter.ToCurrencyCode != "" {
		query = query.Where("to_currency_code = ?", filter.ToCurrencyCode)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var rows []Currency
	err := query.Find(&rows).Error
	return rows, err
}
