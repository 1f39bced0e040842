// Package storage persists per-run artifacts next to the audio files.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/stocksensei/stocksensei/internal/models"
)

// RunRecord is the transcript artifact written after each analysis run,
// one JSON file per request.
type RunRecord struct {
	RequestID       string                  `json:"request_id"`
	Query           string                  `json:"query"`
	StartedAt       time.Time               `json:"started_at"`
	CompletedAt     time.Time               `json:"completed_at"`
	Candidates      []models.Candidate      `json:"candidates,omitempty"`
	NoCandidates    bool                    `json:"no_candidates,omitempty"`
	Snapshots       []models.MarketSnapshot `json:"snapshots,omitempty"`
	Sentiment       map[string]string       `json:"sentiment,omitempty"`
	Recommendations []models.Recommendation `json:"recommendations,omitempty"`
	FinalVerdict    string                  `json:"final_verdict,omitempty"`
	Messages        []models.AgentMessage   `json:"messages"`
	Degraded        []string                `json:"degraded,omitempty"`
}

// RunRecorder writes completed run transcripts to the results directory.
// A nil recorder is valid and records nothing.
type RunRecorder struct {
	dir string
}

// NewRunRecorder returns a recorder writing into dir, or nil when dir is
// empty.
func NewRunRecorder(dir string) *RunRecorder {
	if dir == "" {
		return nil
	}
	return &RunRecorder{dir: dir}
}

// Save writes the run transcript as <request_id>.json and returns the file
// path. The write goes through a temp file so a crash never leaves a
// truncated record behind.
func (r *RunRecorder) Save(state *models.WorkflowState) (string, error) {
	if r == nil {
		return "", nil
	}
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return "", fmt.Errorf("create results dir: %w", err)
	}

	record := RunRecord{
		RequestID:       state.RequestID,
		Query:           state.Query,
		StartedAt:       state.StartedAt,
		CompletedAt:     time.Now(),
		Candidates:      state.Candidates,
		NoCandidates:    state.NoCandidates,
		Snapshots:       state.Snapshots,
		Sentiment:       state.Sentiment,
		Recommendations: state.Recommendations,
		FinalVerdict:    state.FinalVerdict,
		Messages:        state.Messages,
		Degraded:        state.Degraded,
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal run record: %w", err)
	}

	path := filepath.Join(r.dir, state.RequestID+".json")
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("write run record: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return "", fmt.Errorf("finalize run record: %w", err)
	}
	return path, nil
}

// Load reads a previously saved run record by request ID.
func (r *RunRecorder) Load(requestID string) (*RunRecord, error) {
	if r == nil {
		return nil, fmt.Errorf("recorder disabled")
	}
	data, err := os.ReadFile(filepath.Join(r.dir, requestID+".json"))
	if err != nil {
		return nil, fmt.Errorf("read run record: %w", err)
	}
	var record RunRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("parse run record: %w", err)
	}
	return &record, nil
}
