package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/stocksensei/stocksensei/consts"
	"github.com/stocksensei/stocksensei/internal/models"
	"github.com/stocksensei/stocksensei/internal/prompts"
	"github.com/stocksensei/stocksensei/pkg/logger"
)

// MarketDataNode gathers a live quote and the scraped NSE quote page for
// each candidate, then has the model summarize the market picture.
func (d *Deps) MarketDataNode(ctx context.Context, state *models.WorkflowState, opts ...any) (*models.WorkflowState, error) {
	tickers := state.Tickers()
	sections := make(map[string]string, len(tickers))
	var snapshots []models.MarketSnapshot

	for _, ticker := range tickers {
		var parts []string

		snap, err := d.Data.Quote(ctx, ticker)
		if err != nil {
			logger.Warnf("market data: quote for %s failed: %v", ticker, err)
			state.MarkDegraded(consts.MarketData)
		} else {
			snapshots = append(snapshots, snap)
			parts = append(parts, formatSnapshot(snap))
		}

		page, err := d.Data.QuotePage(ctx, ticker)
		if err != nil {
			logger.Warnf("market data: quote page for %s failed: %v", ticker, err)
			state.MarkDegraded(consts.MarketData)
		} else if page != "" {
			parts = append(parts, "NSE quote page extract:\n"+page)
		}

		sections[ticker] = strings.Join(parts, "\n\n")
	}

	report := d.generate(ctx, state, consts.MarketData,
		prompts.MarketDataSystem,
		prompts.MarketDataUser(tickers, sections))
	say(state, consts.MarketData, report)

	if err := state.SetMarketReport(report, snapshots); err != nil {
		return nil, err
	}

	state.Goto = consts.NewsAnalyst
	return state, nil
}

// formatSnapshot renders a quote as prompt-ready lines.
func formatSnapshot(s models.MarketSnapshot) string {
	return fmt.Sprintf(
		"Live quote (Yahoo Finance):\n"+
			"Current Price: ₹%s | Change: ₹%s (%s%%)\n"+
			"Day Range: ₹%s - ₹%s | Volume: %d\n"+
			"52-Week Range: ₹%s - ₹%s",
		s.Price.StringFixed(2), s.Change.StringFixed(2), s.ChangePercent.StringFixed(2),
		s.DayLow.StringFixed(2), s.DayHigh.StringFixed(2), s.Volume,
		s.FiftyTwoLow.StringFixed(2), s.FiftyTwoHigh.StringFixed(2))
}
