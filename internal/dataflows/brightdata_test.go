package dataflows

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// fakeUnlocker serves canned page bodies keyed by the requested URL and
// records the proxy requests it saw.
func fakeUnlocker(t *testing.T, pages map[string]string) (*httptest.Server, *[]unlockerRequest) {
	t.Helper()
	var seen []unlockerRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unlocker called with method %s", r.Method)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("Authorization = %q", got)
		}

		body, _ := io.ReadAll(r.Body)
		var req unlockerRequest
		if err := json.Unmarshal(body, &req); err != nil {
			t.Fatalf("bad unlocker request body: %v", err)
		}
		seen = append(seen, req)

		page, ok := pages[req.URL]
		if !ok {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		io.WriteString(w, page)
	}))
	t.Cleanup(srv.Close)
	return srv, &seen
}

func TestFetchSendsZoneAndToken(t *testing.T) {
	srv, seen := fakeUnlocker(t, map[string]string{
		"https://example.com/page": "<html><body>hello</body></html>",
	})

	c := NewUnlockerClient("test-token", "unblocker", WithEndpoint(srv.URL))
	body, err := c.Fetch(context.Background(), "https://example.com/page")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if !strings.Contains(body, "hello") {
		t.Errorf("Fetch() body = %q", body)
	}

	if len(*seen) != 1 {
		t.Fatalf("unlocker saw %d requests, want 1", len(*seen))
	}
	req := (*seen)[0]
	if req.Zone != "unblocker" || req.Format != "raw" {
		t.Errorf("unlocker request = %+v", req)
	}
}

func TestFetchUsesCache(t *testing.T) {
	srv, seen := fakeUnlocker(t, map[string]string{
		"https://example.com/page": "cached body",
	})

	c := NewUnlockerClient("test-token", "unblocker",
		WithEndpoint(srv.URL),
		WithCache(t.TempDir(), time.Minute))

	for i := 0; i < 3; i++ {
		if _, err := c.Fetch(context.Background(), "https://example.com/page"); err != nil {
			t.Fatalf("Fetch() #%d error = %v", i, err)
		}
	}
	if len(*seen) != 1 {
		t.Errorf("unlocker saw %d requests, want 1 (rest from cache)", len(*seen))
	}
}

func TestGainerBoardExtractsTableText(t *testing.T) {
	page := `<html><head><script>var x=1;</script></head><body>
		<nav>Home | Subscribe | Sign In</nav>
		<h1>Top Gainers - NSE</h1>
		<table>
			<tr><td>TCS</td><td>3,512.40</td><td>+2.1%</td></tr>
			<tr><td>INFY</td><td>1,498.10</td><td>+1.8%</td></tr>
		</table>
		<footer>Privacy Policy</footer>
	</body></html>`

	srv, _ := fakeUnlocker(t, map[string]string{gainersURL: page})
	c := NewUnlockerClient("test-token", "unblocker", WithEndpoint(srv.URL))

	text, err := c.GainerBoard(context.Background())
	if err != nil {
		t.Fatalf("GainerBoard() error = %v", err)
	}
	for _, want := range []string{"TCS", "3,512.40", "INFY", "Top Gainers"} {
		if !strings.Contains(text, want) {
			t.Errorf("GainerBoard() missing %q in:\n%s", want, text)
		}
	}
	for _, unwanted := range []string{"Subscribe", "var x=1", "Privacy"} {
		if strings.Contains(text, unwanted) {
			t.Errorf("GainerBoard() kept boilerplate %q", unwanted)
		}
	}
}

func TestQuotePageRejectsBadSymbol(t *testing.T) {
	c := NewUnlockerClient("test-token", "unblocker")
	if _, err := c.QuotePage(context.Background(), "NOT A SYMBOL"); err == nil {
		t.Error("QuotePage() accepted an invalid symbol")
	}
}

func TestStockNewsParsesRSS(t *testing.T) {
	feed := `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel>
	<title>Google News</title>
	<item>
		<title>TCS wins large BFSI deal</title>
		<link>https://news.example.com/tcs-deal</link>
		<description>&lt;a href="x"&gt;TCS wins large BFSI deal&lt;/a&gt; worth $1B</description>
		<pubDate>Mon, 25 Aug 2025 09:30:00 +0530</pubDate>
		<source url="https://www.moneycontrol.com">Moneycontrol</source>
		<guid>abc123</guid>
	</item>
	<item>
		<title>TCS declares interim dividend</title>
		<link>https://news.example.com/tcs-dividend</link>
		<description>Board approves payout</description>
		<pubDate>Sun, 24 Aug 2025 15:00:00 +0530</pubDate>
		<source url="https://economictimes.com">Economic Times</source>
		<guid>def456</guid>
	</item>
</channel></rss>`

	feedURL := buildStockNewsURL("TCS", "Tata Consultancy Services")
	srv, _ := fakeUnlocker(t, map[string]string{feedURL: feed})
	c := NewUnlockerClient("test-token", "unblocker", WithEndpoint(srv.URL))

	articles, err := c.StockNews(context.Background(), "TCS", "Tata Consultancy Services", 5)
	if err != nil {
		t.Fatalf("StockNews() error = %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("len(articles) = %d, want 2", len(articles))
	}

	first := articles[0]
	if first.Title != "TCS wins large BFSI deal" {
		t.Errorf("Title = %q", first.Title)
	}
	if first.Source != "Moneycontrol" {
		t.Errorf("Source = %q", first.Source)
	}
	if strings.Contains(first.Summary, "<a") {
		t.Errorf("Summary kept HTML: %q", first.Summary)
	}
	if first.PublishedAt.IsZero() {
		t.Error("PublishedAt not parsed")
	}
}

func TestStockNewsLimitsResults(t *testing.T) {
	var items strings.Builder
	for i := 0; i < 10; i++ {
		items.WriteString(`<item><title>headline</title><link>https://x</link>` +
			`<pubDate>Mon, 25 Aug 2025 09:30:00 +0530</pubDate></item>`)
	}
	feed := `<?xml version="1.0"?><rss version="2.0"><channel>` + items.String() + `</channel></rss>`

	feedURL := buildStockNewsURL("INFY", "")
	srv, _ := fakeUnlocker(t, map[string]string{feedURL: feed})
	c := NewUnlockerClient("test-token", "unblocker", WithEndpoint(srv.URL))

	articles, err := c.StockNews(context.Background(), "INFY", "", 3)
	if err != nil {
		t.Fatalf("StockNews() error = %v", err)
	}
	if len(articles) != 3 {
		t.Errorf("len(articles) = %d, want 3", len(articles))
	}
}

func TestBuildStockNewsURLIndianEdition(t *testing.T) {
	u := buildStockNewsURL("TCS", "Tata Consultancy Services")
	for _, want := range []string{"hl=en-IN", "gl=IN", "ceid=IN%3Aen", "TCS"} {
		if !strings.Contains(u, want) {
			t.Errorf("URL %q missing %q", u, want)
		}
	}
}
