package dataflows

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"

	"github.com/stocksensei/stocksensei/pkg/logger"
)

const defaultUnlockerEndpoint = "https://api.brightdata.com/request"

// Pages scraped through the unlocker. NSE and moneycontrol sit behind
// anti-bot protection, so plain GETs do not work here.
const (
	gainersURL      = "https://www.moneycontrol.com/stocks/marketstats/nsegainer/index.php"
	nseQuotePageURL = "https://www.nseindia.com/get-quotes/equity?symbol=%s"
)

// UnlockerClient fetches protected pages through the Bright Data Web
// Unlocker proxy API.
type UnlockerClient struct {
	client   *resty.Client
	endpoint string
	token    string
	zone     string
	cache    *CacheManager
}

// UnlockerOption customizes an UnlockerClient.
type UnlockerOption func(*UnlockerClient)

// WithEndpoint overrides the unlocker API endpoint. Used by tests.
func WithEndpoint(endpoint string) UnlockerOption {
	return func(c *UnlockerClient) { c.endpoint = endpoint }
}

// WithCache enables file-based caching of fetched pages.
func WithCache(cacheDir string, ttl time.Duration) UnlockerOption {
	return func(c *UnlockerClient) {
		c.cache = NewCacheManager(cacheDir, ttl, true)
	}
}

// NewUnlockerClient creates a client for the given API token and zone.
func NewUnlockerClient(token, zone string, opts ...UnlockerOption) *UnlockerClient {
	client := resty.New()
	client.SetTimeout(60 * time.Second)

	c := &UnlockerClient{
		client:   client,
		endpoint: defaultUnlockerEndpoint,
		token:    token,
		zone:     zone,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type unlockerRequest struct {
	Zone   string `json:"zone"`
	URL    string `json:"url"`
	Format string `json:"format"`
}

// Fetch retrieves the raw body of a protected page.
func (c *UnlockerClient) Fetch(ctx context.Context, pageURL string) (string, error) {
	if c.cache != nil {
		var cached string
		if c.cache.Get("unlocker", "fetch", pageURL, &cached) {
			return cached, nil
		}
	}

	var body string
	err := WithRetry(DefaultRetryConfig(), func() error {
		resp, err := c.client.R().
			SetContext(ctx).
			SetHeader("Authorization", "Bearer "+c.token).
			SetHeader("Content-Type", "application/json").
			SetBody(unlockerRequest{Zone: c.zone, URL: pageURL, Format: "raw"}).
			Post(c.endpoint)
		if err != nil {
			return fmt.Errorf("unlocker request: %w", err)
		}
		if resp.StatusCode() != 200 {
			return fmt.Errorf("unlocker HTTP %d for %s", resp.StatusCode(), pageURL)
		}
		body = resp.String()
		return nil
	})
	if err != nil {
		return "", err
	}

	if c.cache != nil {
		c.cache.Set("unlocker", "fetch", pageURL, body)
	}
	return body, nil
}

// FetchDocument retrieves a protected page and parses it as HTML.
func (c *UnlockerClient) FetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	body, err := c.Fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	return goquery.NewDocumentFromReader(strings.NewReader(body))
}

// GainerBoard scrapes the NSE top gainers page and returns the readable
// table text, capped to keep prompts within the model context.
func (c *UnlockerClient) GainerBoard(ctx context.Context) (string, error) {
	doc, err := c.FetchDocument(ctx, gainersURL)
	if err != nil {
		return "", err
	}

	text := extractPageText(doc)
	if text == "" {
		return "", fmt.Errorf("gainer board page had no extractable text")
	}

	logger.Debugf("gainer board scraped, %d chars", len(text))
	return truncate(text, 8000), nil
}

// QuotePage scrapes the NSE quote page for a symbol and returns its
// readable text.
func (c *UnlockerClient) QuotePage(ctx context.Context, symbol string) (string, error) {
	symbol = NormalizeSymbol(symbol)
	if err := ValidateSymbol(symbol); err != nil {
		return "", err
	}

	pageURL := fmt.Sprintf(nseQuotePageURL, url.QueryEscape(symbol))
	doc, err := c.FetchDocument(ctx, pageURL)
	if err != nil {
		return "", err
	}

	text := extractPageText(doc)
	if text == "" {
		return "", fmt.Errorf("quote page for %s had no extractable text", symbol)
	}
	return truncate(text, 6000), nil
}

// extractPageText pulls meaningful text out of a page, skipping navigation
// chrome and boilerplate.
func extractPageText(doc *goquery.Document) string {
	doc.Find("script, style, nav, header, footer, noscript").Remove()

	var parts []string
	doc.Find("table, h1, h2, h3, p, td, li").Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if len(text) > 2 && !isNavigationText(text) {
			parts = append(parts, text)
		}
	})

	if len(parts) == 0 {
		return strings.TrimSpace(doc.Text())
	}

	joined := strings.Join(parts, "\n")
	return collapseWhitespace(joined)
}

// isNavigationText filters out navigation and boilerplate strings.
func isNavigationText(text string) bool {
	lower := strings.ToLower(text)
	navigationPatterns := []string{
		"subscribe", "sign in", "log in", "menu", "search", "home",
		"contact", "privacy", "terms", "cookie", "advertisement",
		"share", "tweet", "facebook", "linkedin", "download app",
		"read more", "continue reading", "related articles",
		"you may also like", "recommended", "trending now",
	}
	for _, pattern := range navigationPatterns {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}

func collapseWhitespace(s string) string {
	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
