package agents

import (
	"context"

	"github.com/stocksensei/stocksensei/consts"
	"github.com/stocksensei/stocksensei/internal/models"
	"github.com/stocksensei/stocksensei/internal/prompts"
	"github.com/stocksensei/stocksensei/pkg/logger"
)

// StockFinderNode scrapes the NSE gainer board and asks the model to pick
// up to two tradeable candidates. An empty pick routes the run straight
// to termination.
func (d *Deps) StockFinderNode(ctx context.Context, state *models.WorkflowState, opts ...any) (*models.WorkflowState, error) {
	board, err := d.Data.GainerBoard(ctx)
	if err != nil {
		logger.Warnf("stock finder: gainer board unavailable: %v", err)
		state.MarkDegraded(consts.StockFinder)
		board = ""
	}

	report := d.generate(ctx, state, consts.StockFinder,
		prompts.StockFinderSystem,
		prompts.StockFinderUser(state.Query, board))
	say(state, consts.StockFinder, report)

	candidates := ExtractCandidates(report, 2)
	if err := state.SetCandidates(candidates); err != nil {
		return nil, err
	}

	if state.NoCandidates {
		logger.Infof("stock finder: no candidates for request %s", state.RequestID)
		state.Goto = consts.Finish
		return state, nil
	}

	logger.Infof("stock finder: picked %v", state.Tickers())
	state.Goto = consts.MarketData
	return state, nil
}
