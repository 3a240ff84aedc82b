package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/chandanojha35419/currency-exchange-api/internals/apperrors"
	"github.com/chandanojha35419/currency-exchange-api/internals/models"
	"github.com/chandanojha35419/currency-exchange-api/internals/utils"
)

// CurrencyController is the thin CRUD layer over the exchange-rate cache.
// Creation proxies to the rate provider and stores whatever it answers.
type CurrencyController struct {
	DB      *gorm.DB
	Fetcher utils.RateFetcher
}

func NewCurrencyController(db *gorm.DB, fetcher utils.RateFetcher) *CurrencyController {
	return &CurrencyController{DB: db, Fetcher: fetcher}
}

// ListCurrencies returns cached quotes newest first, with exact-match filters
// on the currency codes.
func (cc *CurrencyController) ListCurrencies(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 500 {
		limit = 50
	}

	rows, err := models.ListCurrencies(cc.DB, models.CurrencyFilter{
		FromCurrencyCode: c.Query("from_currency_code"),
		ToCurrencyCode:   c.Query("to_currency_code"),
		Limit:            limit,
		Offset:           offset,
	})
	if err != nil {
		apperrors.Respond(c, apperrors.Server("Something went wrong. Please try after sometime.", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": len(rows), "results": rows})
}

// CreateCurrency fetches the live quote for a currency pair and caches it.
func (cc *CurrencyController) CreateCurrency(c *gin.Context) {
	var body struct {
		FromCurrencyCode string `json:"from_currency_code" binding:"required,max=100"`
		ToCurrencyCode   string `json:"to_currency_code" binding:"required,max=100"`
	}

	if err := c.ShouldBindJSON(&body); err != nil {
		apperrors.Respond(c, apperrors.Validation("Enter valid currency codes."))
		return
	}

	quote, err := cc.Fetcher.FetchRate(body.FromCurrencyCode, body.ToCurrencyCode)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	if err := cc.DB.Create(quote).Error; err != nil {
		apperrors.Respond(c, apperrors.Server("Something went wrong. Please try after sometime.", err))
		return
	}

	c.JSON(http.StatusCreated, quote)
}
