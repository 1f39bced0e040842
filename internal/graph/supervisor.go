// Package graph wires the agent nodes into the supervised analysis
// workflow and composes the final verdict.
package graph

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/compose"
	"github.com/shopspring/decimal"

	"github.com/stocksensei/stocksensei/consts"
	"github.com/stocksensei/stocksensei/internal/agents"
	"github.com/stocksensei/stocksensei/internal/models"
	"github.com/stocksensei/stocksensei/internal/storage"
	"github.com/stocksensei/stocksensei/internal/voice"
	"github.com/stocksensei/stocksensei/pkg/logger"
)

// handOff routes to the node named in state.Goto, or terminates the graph.
func handOff(ctx context.Context, state *models.WorkflowState) (string, error) {
	if state.Goto == "" || state.Goto == consts.Finish {
		return compose.END, nil
	}
	return state.Goto, nil
}

// buildGraph compiles the four-node pipeline. Every node sets state.Goto
// and a branch after it either advances or ends the run early.
func buildGraph(ctx context.Context, deps *agents.Deps) (compose.Runnable[*models.WorkflowState, *models.WorkflowState], error) {
	g := compose.NewGraph[*models.WorkflowState, *models.WorkflowState]()

	_ = g.AddLambdaNode(consts.StockFinder, compose.InvokableLambdaWithOption(deps.StockFinderNode))
	_ = g.AddLambdaNode(consts.MarketData, compose.InvokableLambdaWithOption(deps.MarketDataNode))
	_ = g.AddLambdaNode(consts.NewsAnalyst, compose.InvokableLambdaWithOption(deps.NewsAnalystNode))
	_ = g.AddLambdaNode(consts.PriceRecommender, compose.InvokableLambdaWithOption(deps.PriceRecommenderNode))

	_ = g.AddEdge(compose.START, consts.StockFinder)
	_ = g.AddBranch(consts.StockFinder, compose.NewGraphBranch(handOff, map[string]bool{
		consts.MarketData: true,
		compose.END:       true,
	}))
	_ = g.AddBranch(consts.MarketData, compose.NewGraphBranch(handOff, map[string]bool{
		consts.NewsAnalyst: true,
		compose.END:        true,
	}))
	_ = g.AddBranch(consts.NewsAnalyst, compose.NewGraphBranch(handOff, map[string]bool{
		consts.PriceRecommender: true,
		compose.END:             true,
	}))
	_ = g.AddEdge(consts.PriceRecommender, compose.END)

	return g.Compile(ctx,
		compose.WithGraphName("StockSensei"),
		compose.WithNodeTriggerMode(compose.AnyPredecessor),
	)
}

// Supervisor owns the compiled workflow and narrates its transcript.
type Supervisor struct {
	runnable compose.Runnable[*models.WorkflowState, *models.WorkflowState]
	synth    *voice.Synthesizer
	recorder *storage.RunRecorder
}

// NewSupervisor compiles the workflow graph. synth and recorder may be nil
// to disable narration and transcript persistence.
func NewSupervisor(ctx context.Context, deps *agents.Deps, synth *voice.Synthesizer, recorder *storage.RunRecorder) (*Supervisor, error) {
	runnable, err := buildGraph(ctx, deps)
	if err != nil {
		return nil, fmt.Errorf("compile workflow graph: %w", err)
	}
	return &Supervisor{runnable: runnable, synth: synth, recorder: recorder}, nil
}

// Run executes one analysis. Transcript entries are narrated (when voice
// is enabled) and streamed through emit as they appear; the returned state
// carries the full transcript and verdict.
func (s *Supervisor) Run(ctx context.Context, query string, emit models.Emitter) (*models.WorkflowState, error) {
	state := models.NewWorkflowState(query)
	state.SetEmitter(func(msg models.AgentMessage) {
		if path := s.narrate(ctx, state, msg); path != "" {
			msg.AudioPath = path
		}
		if emit != nil {
			emit(msg)
		}
	})

	logger.Infof("run %s: %q", state.RequestID, query)

	out, err := s.runnable.Invoke(ctx, state)
	if err != nil {
		return state, fmt.Errorf("workflow run %s: %w", state.RequestID, err)
	}

	verdict := ComposeVerdict(out)
	if err := out.SetFinalVerdict(verdict); err != nil {
		return out, err
	}
	out.AppendMessage(models.AgentMessage{
		Agent:   consts.Supervisor,
		Name:    consts.DisplayName(consts.Supervisor),
		Content: verdict,
	})

	if path, err := s.recorder.Save(out); err != nil {
		logger.Warnf("run %s: transcript not saved: %v", out.RequestID, err)
	} else if path != "" {
		logger.Debugf("run %s: transcript saved to %s", out.RequestID, path)
	}

	logger.Infof("run %s: finished, %d messages, degraded=%v",
		out.RequestID, len(out.Messages), out.Degraded)
	return out, nil
}

// narrate synthesizes one message and records the audio path on the
// transcript. Narration failures are logged and swallowed.
func (s *Supervisor) narrate(ctx context.Context, state *models.WorkflowState, msg models.AgentMessage) string {
	if !s.synth.Enabled() {
		return ""
	}
	path, err := s.synth.Synthesize(ctx, state.RequestID, msg.Agent, msg.Content)
	if err != nil {
		logger.Warnf("narration for %s failed: %v", msg.Agent, err)
		return ""
	}
	state.AttachAudio(msg.Agent, path)
	return path
}

// ComposeVerdict renders the consolidated per-stock summary from the
// structured state the agents produced.
func ComposeVerdict(state *models.WorkflowState) string {
	var b strings.Builder

	b.WriteString("📊 FINAL VERDICT\n")
	b.WriteString("═══════════════════════════\n\n")

	if state.NoCandidates || len(state.Candidates) == 0 {
		b.WriteString("No suitable NSE stocks could be identified for this request. ")
		b.WriteString("The data sources may be unavailable right now; please try again later.\n")
		return b.String()
	}

	snapshots := make(map[string]models.MarketSnapshot, len(state.Snapshots))
	for _, s := range state.Snapshots {
		snapshots[s.Ticker] = s
	}
	recs := make(map[string]models.Recommendation, len(state.Recommendations))
	for _, r := range state.Recommendations {
		recs[r.Ticker] = r
	}

	for _, c := range state.Candidates {
		fmt.Fprintf(&b, "**%s (%s)**\n", c.Company, c.Ticker)
		if c.Reason != "" {
			fmt.Fprintf(&b, "• Why Selected: %s\n", c.Reason)
		}
		if snap, ok := snapshots[c.Ticker]; ok {
			fmt.Fprintf(&b, "• Price Data: ₹%s (%s%% change), Volume %d\n",
				snap.Price.StringFixed(2), snap.ChangePercent.StringFixed(2), snap.Volume)
		} else {
			b.WriteString("• Price Data: DATA UNAVAILABLE\n")
		}
		if sentiment, ok := state.Sentiment[c.Ticker]; ok {
			fmt.Fprintf(&b, "• News Impact: %s\n", sentiment)
		}
		if rec, ok := recs[c.Ticker]; ok {
			fmt.Fprintf(&b, "• Recommendation: %s | Entry: %s | Target: %s | Stop Loss: %s\n",
				rec.Action, priceLevel(rec.Entry), priceLevel(rec.Target), priceLevel(rec.StopLoss))
		} else {
			b.WriteString("• Recommendation: CANNOT PROVIDE RECOMMENDATION - INSUFFICIENT DATA\n")
		}
		b.WriteString("\n")
	}

	if len(state.Degraded) > 0 {
		fmt.Fprintf(&b, "📋 Data Quality Note: partial data; the following analysts hit errors: %s\n\n",
			strings.Join(state.Degraded, ", "))
	}

	b.WriteString("⚠️ Disclaimer: This analysis is for educational purposes. Always do your own research.")
	return b.String()
}

// priceLevel renders a parsed price level; a zero means parsing found
// nothing, which is shown as unavailable rather than as ₹0.00.
func priceLevel(p decimal.Decimal) string {
	if p.IsZero() {
		return "DATA UNAVAILABLE"
	}
	return "₹" + p.StringFixed(2)
}
