// Package server exposes the analysis workflow over HTTP and WebSocket.
package server

import (
	"context"
	"embed"
	"encoding/json"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/stocksensei/stocksensei/internal/models"
	"github.com/stocksensei/stocksensei/internal/prompts"
	"github.com/stocksensei/stocksensei/pkg/logger"
)

//go:embed static
var staticFS embed.FS

// Runner executes one analysis. The graph supervisor implements it; tests
// substitute fakes.
type Runner interface {
	Run(ctx context.Context, query string, emit models.Emitter) (*models.WorkflowState, error)
}

// Server serves the single-page UI, the REST endpoints and the streaming
// WebSocket.
type Server struct {
	runner     Runner
	audioDir   string
	info       Info
	httpServer *http.Server
}

// Info is the static detail the health endpoint reports.
type Info struct {
	Version string `json:"version,omitempty"`
	Voice   bool   `json:"voice"`
}

// New creates a server. audioDir is where narration WAV files live; it may
// be empty when voice is disabled.
func New(runner Runner, audioDir string) *Server {
	return &Server{runner: runner, audioDir: audioDir}
}

// SetInfo sets what /healthz reports beyond liveness.
func (s *Server) SetInfo(info Info) {
	s.info = info
}

// Routes builds the HTTP mux.
func (s *Server) Routes() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	r.HandleFunc("/ws", s.handleWS).Methods(http.MethodGet)
	r.HandleFunc("/api/analyze", s.handleAnalyze).Methods(http.MethodPost)
	r.HandleFunc("/api/quick-queries", s.handleQuickQueries).Methods(http.MethodGet)
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	if s.audioDir != "" {
		r.PathPrefix("/audio/").Handler(
			http.StripPrefix("/audio/", http.FileServer(http.Dir(s.audioDir))))
	}
	return r
}

// Start serves until the listener fails or Shutdown is called.
func (s *Server) Start(addr string) error {
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	logger.Infof("http server listening on %s", addr)
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	page, err := staticFS.ReadFile("static/index.html")
	if err != nil {
		http.Error(w, "page unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.info.Version,
		"voice":   s.info.Voice,
	})
}

func (s *Server) handleQuickQueries(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"queries": prompts.QuickQueries})
}

type analyzeRequest struct {
	Query string `json:"query"`
}

type analyzeResponse struct {
	RequestID       string                  `json:"request_id"`
	Query           string                  `json:"query"`
	NoCandidates    bool                    `json:"no_candidates"`
	Candidates      []models.Candidate      `json:"candidates,omitempty"`
	Messages        []wireMessage           `json:"messages"`
	Recommendations []models.Recommendation `json:"recommendations,omitempty"`
	FinalVerdict    string                  `json:"final_verdict"`
	Degraded        []string                `json:"degraded,omitempty"`
}

// wireMessage is an AgentMessage with the audio path rewritten to a URL
// the browser can fetch.
type wireMessage struct {
	Agent     string    `json:"agent"`
	Name      string    `json:"name"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	AudioURL  string    `json:"audio_url,omitempty"`
}

func toWireMessage(m models.AgentMessage) wireMessage {
	return wireMessage{
		Agent:     m.Agent,
		Name:      m.Name,
		Content:   m.Content,
		Timestamp: m.Timestamp,
		AudioURL:  audioURL(m.AudioPath),
	}
}

// audioURL maps a local WAV path to its serving URL.
func audioURL(path string) string {
	if path == "" {
		return ""
	}
	return "/audio/" + filepath.Base(path)
}

// handleAnalyze runs the whole workflow synchronously and returns the full
// result. The WebSocket endpoint is the streaming alternative.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	req.Query = strings.TrimSpace(req.Query)
	if req.Query == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "query is required"})
		return
	}

	state, err := s.runner.Run(r.Context(), req.Query, nil)
	if err != nil {
		logger.Errorf("analyze failed: %v", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}

	resp := analyzeResponse{
		RequestID:       state.RequestID,
		Query:           state.Query,
		NoCandidates:    state.NoCandidates,
		Candidates:      state.Candidates,
		Recommendations: state.Recommendations,
		FinalVerdict:    state.FinalVerdict,
		Degraded:        state.Degraded,
	}
	for _, m := range state.Messages {
		resp.Messages = append(resp.Messages, toWireMessage(m))
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Errorf("write response: %v", err)
	}
}
