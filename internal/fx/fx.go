// Package fx converts monetary amounts between currencies. Rates come from an
// external exchange-rate API and are cached; when the API is unreachable a
// hardcoded fallback table keeps conversion working offline.
package fx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"spendtrack/internal/logger"
)

// Converter converts an amount from one currency to another. Conversion never
// fails: unknown pairs pass the amount through at a rate of 1.
type Converter interface {
	Convert(ctx context.Context, amount decimal.Decimal, from, to string) decimal.Decimal
}

// fallbackRates holds USD-based rates used when no live rates are available.
// Cross rates are derived through USD.
var fallbackRates = map[string]decimal.Decimal{
	"USD": decimal.NewFromInt(1),
	"QAR": decimal.NewFromFloat(3.641),
	"EUR": decimal.NewFromFloat(0.924),
}

type client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	cacheTTL   time.Duration

	mu        sync.RWMutex
	rates     map[string]decimal.Decimal // per-currency rates relative to USD
	fetchedAt time.Time
}

// NewClient returns a Converter backed by the exchange-rate API at baseURL.
// An empty apiKey disables live fetching and uses the fallback table only.
func NewClient(baseURL, apiKey string, cacheTTL time.Duration) Converter {
	return &client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		cacheTTL:   cacheTTL,
		rates:      map[string]decimal.Decimal{},
	}
}

// Convert converts amount from one currency to another using live rates when
// available, falling back to the hardcoded table, and finally to a rate of 1.
func (c *client) Convert(ctx context.Context, amount decimal.Decimal, from, to string) decimal.Decimal {
	if from == to || amount.IsZero() {
		return amount
	}

	if rate, ok := c.liveRate(ctx, from, to); ok {
		return amount.Mul(rate)
	}

	fromRate, fromOK := fallbackRates[from]
	toRate, toOK := fallbackRates[to]
	if fromOK && toOK && !fromRate.IsZero() {
		return amount.Mul(toRate.Div(fromRate))
	}

	logger.Get().Warnw("no exchange rate available, passing amount through",
		"from", from,
		"to", to,
	)
	return amount
}

// liveRate returns the to/from cross rate from cached or freshly fetched
// live rates.
func (c *client) liveRate(ctx context.Context, from, to string) (decimal.Decimal, bool) {
	if c.apiKey == "" {
		return decimal.Decimal{}, false
	}

	c.mu.RLock()
	fresh := time.Since(c.fetchedAt) < c.cacheTTL && len(c.rates) > 0
	fromRate, fromOK := c.rates[from]
	toRate, toOK := c.rates[to]
	c.mu.RUnlock()

	if !fresh {
		if err := c.refresh(ctx); err != nil {
			logger.Get().Warnw("failed to refresh exchange rates", "error", err)
			// Stale cached rates are still better than the fallback table.
			if !fromOK || !toOK {
				return decimal.Decimal{}, false
			}
		} else {
			c.mu.RLock()
			fromRate, fromOK = c.rates[from]
			toRate, toOK = c.rates[to]
			c.mu.RUnlock()
		}
	}

	if !fromOK || !toOK || fromRate.IsZero() {
		return decimal.Decimal{}, false
	}
	return toRate.Div(fromRate), true
}

// refresh fetches the full USD-based rate table from the API.
func (c *client) refresh(ctx context.Context) error {
	url := fmt.Sprintf("%s/%s/latest/USD", c.baseURL, c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build rate request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch exchange rates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("exchange rate API returned status %d", resp.StatusCode)
	}

	var payload struct {
		ConversionRates map[string]float64 `json:"conversion_rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return fmt.Errorf("failed to decode exchange rates: %w", err)
	}
	if len(payload.ConversionRates) == 0 {
		return fmt.Errorf("exchange rate API returned no rates")
	}

	rates := make(map[string]decimal.Decimal, len(payload.ConversionRates))
	for code, rate := range payload.ConversionRates {
		if rate > 0 {
			rates[code] = decimal.NewFromFloat(rate)
		}
	}

	c.mu.Lock()
	c.rates = rates
	c.fetchedAt = time.Now()
	c.mu.Unlock()

	logger.Get().Infow("exchange rates refreshed", "currencies", len(rates))
	return nil
}
