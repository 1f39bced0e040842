package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestNewWorkflowState(t *testing.T) {
	s := NewWorkflowState("best IT stocks today")
	if s.RequestID == "" {
		t.Error("RequestID is empty")
	}
	if s.Query != "best IT stocks today" {
		t.Errorf("Query = %q", s.Query)
	}
	if s.StartedAt.IsZero() {
		t.Error("StartedAt is zero")
	}
}

func TestSetCandidatesWriteOnce(t *testing.T) {
	s := NewWorkflowState("q")
	cands := []Candidate{{Ticker: "TCS", Company: "Tata Consultancy Services"}}

	if err := s.SetCandidates(cands); err != nil {
		t.Fatalf("first SetCandidates error = %v", err)
	}
	if err := s.SetCandidates(cands); err == nil {
		t.Error("second SetCandidates did not error")
	}
}

func TestSetCandidatesEmptyMarksNoCandidates(t *testing.T) {
	s := NewWorkflowState("q")
	if err := s.SetCandidates(nil); err != nil {
		t.Fatalf("SetCandidates(nil) error = %v", err)
	}
	if !s.NoCandidates {
		t.Error("NoCandidates = false after empty set")
	}
	// The empty result still counts as the one allowed write.
	if err := s.SetCandidates([]Candidate{{Ticker: "INFY"}}); err == nil {
		t.Error("SetCandidates after no-candidates result did not error")
	}
}

func TestReportSettersWriteOnce(t *testing.T) {
	s := NewWorkflowState("q")

	if err := s.SetMarketReport("report", nil); err != nil {
		t.Fatalf("SetMarketReport error = %v", err)
	}
	if err := s.SetMarketReport("again", nil); err == nil {
		t.Error("second SetMarketReport did not error")
	}

	if err := s.SetNewsReport("news", map[string]string{"TCS": SentimentPositive}); err != nil {
		t.Fatalf("SetNewsReport error = %v", err)
	}
	if err := s.SetNewsReport("again", nil); err == nil {
		t.Error("second SetNewsReport did not error")
	}

	recs := []Recommendation{{
		Ticker: "TCS",
		Action: ActionBuy,
		Entry:  decimal.NewFromInt(3500),
	}}
	if err := s.SetRecommendations(recs); err != nil {
		t.Fatalf("SetRecommendations error = %v", err)
	}
	if err := s.SetRecommendations(recs); err == nil {
		t.Error("second SetRecommendations did not error")
	}

	if err := s.SetFinalVerdict("verdict"); err != nil {
		t.Fatalf("SetFinalVerdict error = %v", err)
	}
	if err := s.SetFinalVerdict("again"); err == nil {
		t.Error("second SetFinalVerdict did not error")
	}
}

func TestAppendMessageStreams(t *testing.T) {
	s := NewWorkflowState("q")

	var streamed []AgentMessage
	s.SetEmitter(func(m AgentMessage) { streamed = append(streamed, m) })

	s.AppendMessage(AgentMessage{Agent: "stock_finder", Name: "Stock Finder", Content: "picked TCS"})
	s.AppendMessage(AgentMessage{Agent: "market_data", Name: "Market Data Analyst", Content: "TCS at 3500"})

	if len(s.Messages) != 2 {
		t.Fatalf("len(Messages) = %d, want 2", len(s.Messages))
	}
	if len(streamed) != 2 {
		t.Fatalf("len(streamed) = %d, want 2", len(streamed))
	}
	if s.Messages[0].Timestamp.IsZero() {
		t.Error("AppendMessage did not stamp the message")
	}
	if streamed[1].Content != "TCS at 3500" {
		t.Errorf("streamed[1].Content = %q", streamed[1].Content)
	}
}

func TestMarkDegraded(t *testing.T) {
	s := NewWorkflowState("q")
	s.MarkDegraded("news_analyst")
	s.MarkDegraded("news_analyst")

	if len(s.Degraded) != 1 {
		t.Errorf("len(Degraded) = %d, want 1 (no duplicates)", len(s.Degraded))
	}
	if !s.IsDegraded("news_analyst") {
		t.Error("IsDegraded(news_analyst) = false")
	}
	if s.IsDegraded("stock_finder") {
		t.Error("IsDegraded(stock_finder) = true")
	}
}

func TestTickers(t *testing.T) {
	s := NewWorkflowState("q")
	if err := s.SetCandidates([]Candidate{{Ticker: "TCS"}, {Ticker: "INFY"}}); err != nil {
		t.Fatalf("SetCandidates error = %v", err)
	}
	got := s.Tickers()
	if len(got) != 2 || got[0] != "TCS" || got[1] != "INFY" {
		t.Errorf("Tickers() = %v", got)
	}
}
