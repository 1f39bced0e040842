// Package models defines the shared state passed between workflow nodes.
package models

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Trade actions produced by the price recommender.
const (
	ActionBuy  = "BUY"
	ActionSell = "SELL"
	ActionHold = "HOLD"
)

// News sentiment labels.
const (
	SentimentPositive = "Positive"
	SentimentNegative = "Negative"
	SentimentNeutral  = "Neutral"
)

// Candidate is one stock proposed by the stock finder.
type Candidate struct {
	Ticker    string `json:"ticker"`
	Company   string `json:"company"`
	Reason    string `json:"reason"`
	SourceURL string `json:"source_url,omitempty"`
}

// MarketSnapshot captures the numbers the market data agent collected for
// one ticker. Missing values stay at zero and are rendered as unavailable.
type MarketSnapshot struct {
	Ticker        string          `json:"ticker"`
	Price         decimal.Decimal `json:"price"`
	Change        decimal.Decimal `json:"change"`
	ChangePercent decimal.Decimal `json:"change_percent"`
	DayHigh       decimal.Decimal `json:"day_high"`
	DayLow        decimal.Decimal `json:"day_low"`
	Volume        int64           `json:"volume"`
	FiftyTwoHigh  decimal.Decimal `json:"fifty_two_week_high"`
	FiftyTwoLow   decimal.Decimal `json:"fifty_two_week_low"`
	FetchedAt     time.Time       `json:"fetched_at"`
}

// Recommendation is the price recommender's verdict for one ticker.
type Recommendation struct {
	Ticker    string          `json:"ticker"`
	Action    string          `json:"action"`
	Entry     decimal.Decimal `json:"entry"`
	Target    decimal.Decimal `json:"target"`
	StopLoss  decimal.Decimal `json:"stop_loss"`
	Rationale string          `json:"rationale"`
}

// AgentMessage is one transcript entry: an agent's full report, plus the
// narration file when voice is enabled.
type AgentMessage struct {
	Agent     string    `json:"agent"`
	Name      string    `json:"name"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	AudioPath string    `json:"audio_path,omitempty"`
}

// Emitter receives transcript entries as they are produced, before the
// workflow finishes. Used to stream progress to the UI.
type Emitter func(AgentMessage)

// WorkflowState is the single mutable value threaded through the graph.
// Each agent section is write-once: a second write is a wiring bug and
// returns an error instead of silently overwriting an earlier report.
type WorkflowState struct {
	mu sync.Mutex

	RequestID string    `json:"request_id"`
	Query     string    `json:"query"`
	StartedAt time.Time `json:"started_at"`

	// Goto names the next node key; the branch after each node reads it.
	Goto string `json:"-"`

	Candidates   []Candidate `json:"candidates,omitempty"`
	NoCandidates bool        `json:"no_candidates,omitempty"`

	MarketReport string           `json:"market_report,omitempty"`
	Snapshots    []MarketSnapshot `json:"snapshots,omitempty"`

	NewsReport string            `json:"news_report,omitempty"`
	Sentiment  map[string]string `json:"sentiment,omitempty"`

	Recommendations []Recommendation `json:"recommendations,omitempty"`
	FinalVerdict    string           `json:"final_verdict,omitempty"`

	Messages []AgentMessage `json:"messages"`

	// Degraded lists agents that hit an error and produced a partial or
	// fallback report. The run still completes.
	Degraded []string `json:"degraded,omitempty"`

	emit Emitter
}

// NewWorkflowState creates the state for one analysis run.
func NewWorkflowState(query string) *WorkflowState {
	return &WorkflowState{
		RequestID: uuid.NewString(),
		Query:     query,
		StartedAt: time.Now(),
	}
}

// SetEmitter installs the streaming callback. Must be set before the graph
// runs; nil disables streaming.
func (s *WorkflowState) SetEmitter(emit Emitter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.emit = emit
}

// AppendMessage records a transcript entry and forwards it to the emitter.
func (s *WorkflowState) AppendMessage(msg AgentMessage) {
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}
	s.mu.Lock()
	s.Messages = append(s.Messages, msg)
	emit := s.emit
	s.mu.Unlock()

	if emit != nil {
		emit(msg)
	}
}

// AttachAudio records the narration file on the most recent message from
// the given agent.
func (s *WorkflowState) AttachAudio(agent, path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Agent == agent {
			s.Messages[i].AudioPath = path
			return
		}
	}
}

// SetCandidates records the stock finder output.
func (s *WorkflowState) SetCandidates(candidates []Candidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Candidates != nil || s.NoCandidates {
		return fmt.Errorf("candidates already set for request %s", s.RequestID)
	}
	if len(candidates) == 0 {
		s.NoCandidates = true
		return nil
	}
	s.Candidates = candidates
	return nil
}

// SetMarketReport records the market data agent output.
func (s *WorkflowState) SetMarketReport(report string, snapshots []MarketSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.MarketReport != "" {
		return fmt.Errorf("market report already set for request %s", s.RequestID)
	}
	s.MarketReport = report
	s.Snapshots = snapshots
	return nil
}

// SetNewsReport records the news analyst output.
func (s *WorkflowState) SetNewsReport(report string, sentiment map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.NewsReport != "" {
		return fmt.Errorf("news report already set for request %s", s.RequestID)
	}
	s.NewsReport = report
	s.Sentiment = sentiment
	return nil
}

// SetRecommendations records the price recommender output.
func (s *WorkflowState) SetRecommendations(recs []Recommendation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Recommendations != nil {
		return fmt.Errorf("recommendations already set for request %s", s.RequestID)
	}
	s.Recommendations = recs
	return nil
}

// SetFinalVerdict records the supervisor's consolidated verdict.
func (s *WorkflowState) SetFinalVerdict(verdict string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FinalVerdict != "" {
		return fmt.Errorf("final verdict already set for request %s", s.RequestID)
	}
	s.FinalVerdict = verdict
	return nil
}

// MarkDegraded records that an agent could not fully complete its work.
func (s *WorkflowState) MarkDegraded(agent string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.Degraded {
		if a == agent {
			return
		}
	}
	s.Degraded = append(s.Degraded, agent)
}

// IsDegraded reports whether the named agent was marked degraded.
func (s *WorkflowState) IsDegraded(agent string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.Degraded {
		if a == agent {
			return true
		}
	}
	return false
}

// Tickers returns the candidate tickers in order.
func (s *WorkflowState) Tickers() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	tickers := make([]string, 0, len(s.Candidates))
	for _, c := range s.Candidates {
		tickers = append(tickers, c.Ticker)
	}
	return tickers
}
