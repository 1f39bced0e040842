package dataflows

import (
	"context"
	"fmt"
	"time"

	"github.com/piquette/finance-go/quote"
	"github.com/shopspring/decimal"

	"github.com/stocksensei/stocksensei/internal/models"
)

// QuoteClient fetches live quotes for NSE tickers from Yahoo Finance.
type QuoteClient struct {
	cache *CacheManager
}

// NewQuoteClient creates a quote client. cacheDir may be empty to disable
// caching.
func NewQuoteClient(cacheDir string, ttl time.Duration) *QuoteClient {
	c := &QuoteClient{}
	if cacheDir != "" {
		c.cache = NewCacheManager(cacheDir, ttl, true)
	}
	return c
}

// Quote fetches the current snapshot for a bare NSE ticker.
func (qc *QuoteClient) Quote(ctx context.Context, symbol string) (models.MarketSnapshot, error) {
	symbol = NormalizeSymbol(symbol)
	if err := ValidateSymbol(symbol); err != nil {
		return models.MarketSnapshot{}, err
	}

	if qc.cache != nil {
		var cached models.MarketSnapshot
		if qc.cache.Get("yahoo", "quote", symbol, &cached) {
			return cached, nil
		}
	}

	var snapshot models.MarketSnapshot
	err := WithRetry(DefaultRetryConfig(), func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		q, err := quote.Get(YahooSymbol(symbol))
		if err != nil {
			return fmt.Errorf("yahoo quote for %s: %w", symbol, err)
		}
		if q == nil {
			return fmt.Errorf("no quote data for %s", symbol)
		}

		snapshot = models.MarketSnapshot{
			Ticker:        symbol,
			Price:         decimal.NewFromFloat(q.RegularMarketPrice),
			Change:        decimal.NewFromFloat(q.RegularMarketChange),
			ChangePercent: decimal.NewFromFloat(q.RegularMarketChangePercent),
			DayHigh:       decimal.NewFromFloat(q.RegularMarketDayHigh),
			DayLow:        decimal.NewFromFloat(q.RegularMarketDayLow),
			Volume:        int64(q.RegularMarketVolume),
			FiftyTwoHigh:  decimal.NewFromFloat(q.FiftyTwoWeekHigh),
			FiftyTwoLow:   decimal.NewFromFloat(q.FiftyTwoWeekLow),
			FetchedAt:     time.Now(),
		}
		return nil
	})
	if err != nil {
		return models.MarketSnapshot{}, err
	}

	if qc.cache != nil {
		qc.cache.Set("yahoo", "quote", symbol, snapshot)
	}
	return snapshot, nil
}
