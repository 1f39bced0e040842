package agents

import (
	"context"

	"github.com/stocksensei/stocksensei/consts"
	"github.com/stocksensei/stocksensei/internal/dataflows"
	"github.com/stocksensei/stocksensei/internal/models"
	"github.com/stocksensei/stocksensei/internal/prompts"
	"github.com/stocksensei/stocksensei/pkg/logger"
)

const headlinesPerStock = 5

// NewsAnalystNode pulls recent headlines for each candidate and has the
// model judge sentiment and trading impact.
func (d *Deps) NewsAnalystNode(ctx context.Context, state *models.WorkflowState, opts ...any) (*models.WorkflowState, error) {
	tickers := state.Tickers()
	sections := make(map[string]string, len(tickers))

	companies := make(map[string]string, len(tickers))
	for _, c := range state.Candidates {
		companies[c.Ticker] = c.Company
	}

	for _, ticker := range tickers {
		articles, err := d.Data.StockNews(ctx, ticker, companies[ticker], headlinesPerStock)
		if err != nil {
			logger.Warnf("news analyst: headlines for %s failed: %v", ticker, err)
			state.MarkDegraded(consts.NewsAnalyst)
			continue
		}
		sections[ticker] = dataflows.FormatArticles(articles)
	}

	report := d.generate(ctx, state, consts.NewsAnalyst,
		prompts.NewsAnalystSystem,
		prompts.NewsAnalystUser(tickers, sections))
	say(state, consts.NewsAnalyst, report)

	sentiment := ExtractSentiments(report, tickers)
	if err := state.SetNewsReport(report, sentiment); err != nil {
		return nil, err
	}

	state.Goto = consts.PriceRecommender
	return state, nil
}
