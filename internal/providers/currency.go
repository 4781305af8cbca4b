package providers

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"time"
)

// currencyCodes maps the supported currency names to ISO codes. The set is
// fixed at seven; anything outside it is rejected before the request.
var currencyCodes = map[string]string{
	"美金":  "USD",
	"台幣":  "TWD",
	"日幣":  "JPY",
	"人民幣": "CNY",
	"越南盾": "VND",
	"英鎊":  "GBP",
	"韓元":  "KRW",
}

const supportedCurrencies = "美金,台幣,日幣,人民幣,越南盾,英鎊,韓元"

// CurrencyConfig carries the exchange-rate endpoint.
type CurrencyConfig struct {
	URL     string
	Timeout time.Duration
}

// Currency converts between the supported currencies using the rter.info
// realtime rate table. All rates are quoted against USD, so a pair conversion
// is the ratio of the two USD rates.
type Currency struct {
	url        string
	httpClient *http.Client
	log        *slog.Logger
}

// NewCurrency creates an exchange-rate client.
func NewCurrency(cfg CurrencyConfig, log *slog.Logger) *Currency {
	if log == nil {
		log = slog.Default()
	}
	return &Currency{
		url:        cfg.URL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        log.With("component", "currency"),
	}
}

type exchangeRate struct {
	Exrate float64 `json:"Exrate"`
}

// Convert returns how many units of 'to' one unit of 'from' is worth,
// rounded to four decimal places.
func (c *Currency) Convert(ctx context.Context, from, to string) (float64, error) {
	fromCode, okFrom := currencyCodes[from]
	toCode, okTo := currencyCodes[to]
	if !okFrom || !okTo {
		return 0, validationError(fmt.Sprintf("當前支援的貨幣有%s", supportedCurrencies))
	}

	var rates map[string]exchangeRate
	if err := getJSON(ctx, c.httpClient, c.url, nil, &rates); err != nil {
		c.log.WarnContext(ctx, "Rate request failed", "error", err)
		return 0, err
	}

	usdToFrom, ok := rates["USD"+fromCode]
	if !ok {
		return 0, badResponseError(fmt.Sprintf("missing rate for USD%s", fromCode), nil)
	}
	usdToTo, ok := rates["USD"+toCode]
	if !ok {
		return 0, badResponseError(fmt.Sprintf("missing rate for USD%s", toCode), nil)
	}
	if usdToFrom.Exrate <= 0 || usdToTo.Exrate <= 0 {
		return 0, badResponseError("non-positive exchange rate", nil)
	}

	rate := math.Round(usdToTo.Exrate/usdToFrom.Exrate*10000) / 10000
	c.log.DebugContext(ctx, "Converted rate", "from", fromCode, "to", toCode, "rate", rate)
	return rate, nil
}

// FormatRate renders the reply line for a conversion result.
func FormatRate(from, to string, rate float64) string {
	return fmt.Sprintf("當前 1 %s 可以兌換 %v %s", from, rate, to)
}
