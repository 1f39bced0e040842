package agents

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/stocksensei/stocksensei/internal/dataflows"
	"github.com/stocksensei/stocksensei/internal/models"
	"github.com/stocksensei/stocksensei/internal/prompts"
)

// Model output is free text; extraction here is tolerant by design and
// always degrades to a safe default rather than failing the run.

var (
	tickerParenPattern = regexp.MustCompile(`([A-Za-z][A-Za-z0-9 .&'-]{1,60}?)\s*\(([A-Z][A-Z0-9&-]{0,11})\)`)
	actionPattern      = regexp.MustCompile(`\b(BUY|SELL|HOLD)\b`)
	sentimentPattern   = regexp.MustCompile(`(?i)\b(positive|negative|neutral)\b`)
	sourceURLPattern   = regexp.MustCompile(`https?://[^\s)\]>]+`)
)

// pricePattern matches a labeled rupee amount with Indian comma grouping,
// e.g. "Entry Price: ₹3,512.40" or "Stop Loss - Rs. 1,480".
func pricePattern(label string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)` + label + `[^0-9₹]*(?:₹|rs\.?|inr)?\s*([0-9][0-9,]*(?:\.[0-9]+)?)`)
}

var (
	entryPattern    = pricePattern(`entry(?:\s*price)?`)
	targetPattern   = pricePattern(`target(?:\s*price)?`)
	stopLossPattern = pricePattern(`stop\s*[- ]?loss`)
)

// parseRupees converts "3,512.40" or "12,34,567" to a decimal. Returns
// zero on anything unparseable.
func parseRupees(s string) decimal.Decimal {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ExtractCandidates pulls up to max "Company (TICKER)" pairs out of the
// stock finder's report. Tickers are validated and deduplicated; known
// NSE sector tickers settle ambiguity in their favor.
func ExtractCandidates(report string, max int) []models.Candidate {
	if max <= 0 {
		max = 2
	}

	matches := tickerParenPattern.FindAllStringSubmatchIndex(report, -1)
	seen := make(map[string]bool)
	var known, unknown []models.Candidate

	for _, m := range matches {
		company := strings.TrimSpace(report[m[2]:m[3]])
		ticker := dataflows.NormalizeSymbol(report[m[4]:m[5]])

		if seen[ticker] || dataflows.ValidateSymbol(ticker) != nil {
			continue
		}
		// Headings like "Stock 1: Name (TICKER)" leave the label in the
		// company capture.
		if idx := strings.LastIndex(company, ":"); idx != -1 {
			company = strings.TrimSpace(company[idx+1:])
		}

		seen[ticker] = true
		c := models.Candidate{
			Ticker:    ticker,
			Company:   company,
			Reason:    candidateReason(report, ticker),
			SourceURL: firstSourceURL(report, ticker),
		}
		if prompts.KnownTicker(ticker) {
			known = append(known, c)
		} else {
			unknown = append(unknown, c)
		}
	}

	candidates := append(known, unknown...)
	if len(candidates) > max {
		candidates = candidates[:max]
	}
	return candidates
}

// candidateReason grabs the selection-criteria line for a ticker, if the
// model followed the requested format.
func candidateReason(report, ticker string) string {
	section := tickerSection(report, ticker)
	for _, line := range strings.Split(section, "\n") {
		lower := strings.ToLower(line)
		if strings.Contains(lower, "selection criteria") || strings.Contains(lower, "reason") {
			if idx := strings.Index(line, ":"); idx != -1 {
				return strings.TrimSpace(line[idx+1:])
			}
		}
	}
	return ""
}

// firstSourceURL returns the first URL in the ticker's section, or in the
// whole report when the section has none.
func firstSourceURL(report, ticker string) string {
	if url := sourceURLPattern.FindString(tickerSection(report, ticker)); url != "" {
		return url
	}
	return sourceURLPattern.FindString(report)
}

// tickerSection slices the report from the first mention of ticker to the
// next ticker-looking heading, so per-stock fields do not bleed into each
// other.
func tickerSection(report, ticker string) string {
	idx := strings.Index(report, "("+ticker+")")
	if idx == -1 {
		idx = strings.Index(report, ticker)
	}
	if idx == -1 {
		return report
	}

	rest := report[idx:]
	// Find the next "(OTHERTICKER)" heading after this one.
	next := tickerParenPattern.FindAllStringSubmatchIndex(rest[1:], -1)
	for _, m := range next {
		other := dataflows.NormalizeSymbol(rest[1:][m[4]:m[5]])
		if other != ticker {
			return rest[:m[0]+1]
		}
	}
	return rest
}

// ParseAction extracts the trade action from a recommendation section.
// Defaults to HOLD when no word-bounded action appears.
func ParseAction(text string) string {
	if m := actionPattern.FindString(strings.ToUpper(text)); m != "" {
		return m
	}
	return models.ActionHold
}

// ParseSentiment extracts a sentiment label, defaulting to Neutral.
func ParseSentiment(text string) string {
	switch strings.ToLower(sentimentPattern.FindString(text)) {
	case "positive":
		return models.SentimentPositive
	case "negative":
		return models.SentimentNegative
	default:
		return models.SentimentNeutral
	}
}

// ExtractSentiments maps each ticker to the overall sentiment in its
// report section.
func ExtractSentiments(report string, tickers []string) map[string]string {
	out := make(map[string]string, len(tickers))
	for _, t := range tickers {
		section := tickerSection(report, t)
		// Prefer the explicit "Overall sentiment" line when present.
		for _, line := range strings.Split(section, "\n") {
			if strings.Contains(strings.ToLower(line), "overall sentiment") {
				section = line
				break
			}
		}
		out[t] = ParseSentiment(section)
	}
	return out
}

// ExtractRecommendations parses per-ticker actions and price levels from
// the recommender's report. Missing prices stay zero.
func ExtractRecommendations(report string, tickers []string) []models.Recommendation {
	recs := make([]models.Recommendation, 0, len(tickers))
	for _, t := range tickers {
		section := tickerSection(report, t)
		rec := models.Recommendation{
			Ticker:    t,
			Action:    ParseAction(section),
			Rationale: recommendationRationale(section),
		}
		if m := entryPattern.FindStringSubmatch(section); m != nil {
			rec.Entry = parseRupees(m[1])
		}
		if m := targetPattern.FindStringSubmatch(section); m != nil {
			rec.Target = parseRupees(m[1])
		}
		if m := stopLossPattern.FindStringSubmatch(section); m != nil {
			rec.StopLoss = parseRupees(m[1])
		}
		recs = append(recs, rec)
	}
	return recs
}

const maxRationaleChars = 300

// recommendationRationale prefers an explicit "Reasoning:" line and falls
// back to the section prose, so a recommendation never carries an empty
// rationale.
func recommendationRationale(section string) string {
	for _, line := range strings.Split(section, "\n") {
		if strings.Contains(strings.ToLower(line), "reasoning") {
			if idx := strings.Index(line, ":"); idx != -1 {
				if r := strings.TrimSpace(line[idx+1:]); r != "" {
					return r
				}
			}
		}
	}

	prose := strings.Join(strings.Fields(section), " ")
	if len(prose) > maxRationaleChars {
		if cut := strings.LastIndex(prose[:maxRationaleChars], " "); cut > 0 {
			prose = prose[:cut]
		} else {
			prose = prose[:maxRationaleChars]
		}
	}
	if prose != "" {
		return prose
	}
	return "No explicit rationale was given in the analysis."
}
