package dataflows

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// RSS feed structures for Google News.
type RSS struct {
	XMLName xml.Name `xml:"rss"`
	Channel Channel  `xml:"channel"`
}

type Channel struct {
	Title       string `xml:"title"`
	Description string `xml:"description"`
	Items       []Item `xml:"item"`
}

type Item struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
	Source      Source `xml:"source"`
	GUID        string `xml:"guid"`
}

type Source struct {
	URL  string `xml:"url,attr"`
	Text string `xml:",chardata"`
}

// NewsArticle is one headline with its cleaned summary.
type NewsArticle struct {
	Title       string    `json:"title"`
	Summary     string    `json:"summary"`
	URL         string    `json:"url"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"published_at"`
}

const googleNewsRSSBase = "https://news.google.com/rss/search"

// buildStockNewsURL builds the Google News RSS query for an NSE stock,
// localized to the Indian edition.
func buildStockNewsURL(symbol, company string) string {
	query := fmt.Sprintf("%s %s NSE stock", symbol, company)
	if company == "" {
		query = fmt.Sprintf("%s NSE stock", symbol)
	}

	v := url.Values{}
	v.Set("q", query)
	v.Set("hl", "en-IN")
	v.Set("gl", "IN")
	v.Set("ceid", "IN:en")
	return googleNewsRSSBase + "?" + v.Encode()
}

// StockNews fetches recent Google News headlines for an NSE stock through
// the unlocker and returns up to maxResults cleaned articles.
func (c *UnlockerClient) StockNews(ctx context.Context, symbol, company string, maxResults int) ([]NewsArticle, error) {
	symbol = NormalizeSymbol(symbol)
	if err := ValidateSymbol(symbol); err != nil {
		return nil, err
	}
	if maxResults <= 0 {
		maxResults = 5
	}

	feedURL := buildStockNewsURL(symbol, company)

	if c.cache != nil {
		var cached []NewsArticle
		if c.cache.Get("google_news", "stock", feedURL, &cached) {
			return cached, nil
		}
	}

	body, err := c.Fetch(ctx, feedURL)
	if err != nil {
		return nil, fmt.Errorf("fetch news feed for %s: %w", symbol, err)
	}

	var rss RSS
	if err := xml.Unmarshal([]byte(body), &rss); err != nil {
		return nil, fmt.Errorf("parse news feed for %s: %w", symbol, err)
	}

	articles := make([]NewsArticle, 0, maxResults)
	for _, item := range rss.Channel.Items {
		if len(articles) >= maxResults {
			break
		}
		articles = append(articles, convertRSSItem(item))
	}

	if c.cache != nil {
		c.cache.Set("google_news", "stock", feedURL, articles)
	}
	return articles, nil
}

// convertRSSItem maps one RSS entry to a NewsArticle.
func convertRSSItem(item Item) NewsArticle {
	pubTime, err := time.Parse(time.RFC1123Z, item.PubDate)
	if err != nil {
		pubTime, _ = time.Parse(time.RFC1123, item.PubDate)
	}
	if pubTime.IsZero() {
		pubTime = time.Now()
	}

	source := item.Source.Text
	if source == "" && item.Source.URL != "" {
		if u, err := url.Parse(item.Source.URL); err == nil {
			source = u.Host
		}
	}

	return NewsArticle{
		Title:       strings.TrimSpace(item.Title),
		Summary:     cleanHTMLContent(item.Description),
		URL:         item.Link,
		Source:      source,
		PublishedAt: pubTime,
	}
}

// cleanHTMLContent strips tags from an RSS description and returns plain
// text.
func cleanHTMLContent(htmlContent string) string {
	if htmlContent == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return stripHTMLTags(htmlContent)
	}

	text := strings.TrimSpace(doc.Text())
	if text == "" {
		return stripHTMLTags(htmlContent)
	}
	return text
}

var (
	htmlTagRegex = regexp.MustCompile(`<[^>]*>`)
	spaceRegex   = regexp.MustCompile(`\s+`)
)

// stripHTMLTags is the regex fallback when goquery cannot parse a snippet.
func stripHTMLTags(content string) string {
	content = htmlTagRegex.ReplaceAllString(content, "")

	content = strings.ReplaceAll(content, "&nbsp;", " ")
	content = strings.ReplaceAll(content, "&amp;", "&")
	content = strings.ReplaceAll(content, "&lt;", "<")
	content = strings.ReplaceAll(content, "&gt;", ">")
	content = strings.ReplaceAll(content, "&quot;", "\"")
	content = strings.ReplaceAll(content, "&#39;", "'")

	content = spaceRegex.ReplaceAllString(content, " ")
	return strings.TrimSpace(content)
}

// FormatArticles renders articles as prompt-ready bullet lines.
func FormatArticles(articles []NewsArticle) string {
	var b strings.Builder
	for _, a := range articles {
		fmt.Fprintf(&b, "- %s (%s, %s)\n", a.Title, a.Source, a.PublishedAt.Format("2006-01-02"))
		if a.Summary != "" {
			fmt.Fprintf(&b, "  %s\n", truncate(a.Summary, 300))
		}
	}
	return b.String()
}
