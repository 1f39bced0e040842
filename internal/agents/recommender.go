package agents

import (
	"context"

	"github.com/stocksensei/stocksensei/consts"
	"github.com/stocksensei/stocksensei/internal/models"
	"github.com/stocksensei/stocksensei/internal/prompts"
	"github.com/stocksensei/stocksensei/pkg/logger"
)

// PriceRecommenderNode turns the upstream reports into BUY/SELL/HOLD calls
// with entry, target and stop loss levels. It is the last agent before the
// supervisor's verdict.
func (d *Deps) PriceRecommenderNode(ctx context.Context, state *models.WorkflowState, opts ...any) (*models.WorkflowState, error) {
	tickers := state.Tickers()

	report := d.generate(ctx, state, consts.PriceRecommender,
		prompts.PriceRecommenderSystem,
		prompts.PriceRecommenderUser(tickers, state.MarketReport, state.NewsReport))
	say(state, consts.PriceRecommender, report)

	recs := ExtractRecommendations(report, tickers)
	if err := state.SetRecommendations(recs); err != nil {
		return nil, err
	}

	for _, r := range recs {
		logger.Infof("recommendation: %s %s entry=₹%s target=₹%s stop=₹%s",
			r.Ticker, r.Action, r.Entry.StringFixed(2), r.Target.StringFixed(2), r.StopLoss.StringFixed(2))
	}

	state.Goto = consts.Finish
	return state, nil
}
