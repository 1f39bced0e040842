package dataflows

import (
	"context"
	"path/filepath"
	"time"

	"github.com/stocksensei/stocksensei/internal/models"
)

// Collector is the data surface the agents work against.
type Collector interface {
	// GainerBoard returns the readable text of the NSE top gainers page.
	GainerBoard(ctx context.Context) (string, error)
	// QuotePage returns the readable text of the NSE quote page for a symbol.
	QuotePage(ctx context.Context, symbol string) (string, error)
	// Quote returns a structured live quote for a symbol.
	Quote(ctx context.Context, symbol string) (models.MarketSnapshot, error)
	// StockNews returns recent headlines for a symbol.
	StockNews(ctx context.Context, symbol, company string, maxResults int) ([]NewsArticle, error)
}

// DataFlow bundles the unlocker scraper and the quote client behind the
// Collector interface.
type DataFlow struct {
	*UnlockerClient
	quotes *QuoteClient
}

// NewDataFlow wires the default collector stack. cacheDir may be empty to
// disable caching.
func NewDataFlow(token, zone, cacheDir string, ttl time.Duration) *DataFlow {
	var opts []UnlockerOption
	var quoteCacheDir string
	if cacheDir != "" {
		opts = append(opts, WithCache(filepath.Join(cacheDir, "pages"), ttl))
		quoteCacheDir = filepath.Join(cacheDir, "quotes")
	}

	return &DataFlow{
		UnlockerClient: NewUnlockerClient(token, zone, opts...),
		quotes:         NewQuoteClient(quoteCacheDir, ttl),
	}
}

// Quote implements Collector.
func (d *DataFlow) Quote(ctx context.Context, symbol string) (models.MarketSnapshot, error) {
	return d.quotes.Quote(ctx, symbol)
}
