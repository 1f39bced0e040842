// Package voice narrates agent reports through the Murf text-to-speech API.
package voice

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/stocksensei/stocksensei/consts"
	"github.com/stocksensei/stocksensei/internal/config"
	"github.com/stocksensei/stocksensei/pkg/logger"
)

const (
	defaultMurfEndpoint = "https://api.murf.ai/v1/speech/generate"

	// Murf rejects long inputs; reports are trimmed to fit.
	maxSpeechChars = 2900
)

// Synthesizer converts agent reports to WAV files. A nil Synthesizer is
// valid and does nothing, which is how voice-disabled deployments run.
type Synthesizer struct {
	client   *resty.Client
	endpoint string
	cfg      config.MurfConfig
	outDir   string
}

// Option customizes a Synthesizer.
type Option func(*Synthesizer)

// WithEndpoint overrides the Murf API endpoint. Used by tests.
func WithEndpoint(endpoint string) Option {
	return func(s *Synthesizer) { s.endpoint = endpoint }
}

// NewSynthesizer returns a ready synthesizer, or nil when no API key is
// configured.
func NewSynthesizer(cfg config.MurfConfig, outDir string, opts ...Option) *Synthesizer {
	if cfg.APIKey == "" {
		return nil
	}

	client := resty.New()
	client.SetTimeout(120 * time.Second)

	s := &Synthesizer{
		client:   client,
		endpoint: defaultMurfEndpoint,
		cfg:      cfg,
		outDir:   outDir,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Enabled reports whether narration will actually happen.
func (s *Synthesizer) Enabled() bool { return s != nil }

type speechRequest struct {
	VoiceID           string `json:"voiceId"`
	Text              string `json:"text"`
	Format            string `json:"format"`
	SampleRate        int    `json:"sampleRate"`
	ModelVersion      string `json:"modelVersion,omitempty"`
	MultiNativeLocale string `json:"multiNativeLocale,omitempty"`
	EncodeAsBase64    bool   `json:"encodeAsBase64"`
}

type speechResponse struct {
	EncodedAudio string  `json:"encodedAudio"`
	AudioLength  float64 `json:"audioLengthInSeconds"`
	ErrorMessage string  `json:"errorMessage"`
}

// Synthesize narrates one agent report and writes it under the output
// directory as <requestID>_<agent>.wav. It returns the written path.
// A nil receiver or empty text returns "" with no error.
func (s *Synthesizer) Synthesize(ctx context.Context, requestID, agent, text string) (string, error) {
	if s == nil || text == "" {
		return "", nil
	}

	intro := fmt.Sprintf("%s speaking: ", consts.DisplayName(agent))
	speech := trimSpeech(intro+text, maxSpeechChars)

	var result speechResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("api-key", s.cfg.APIKey).
		SetHeader("Content-Type", "application/json").
		SetBody(speechRequest{
			VoiceID:           s.cfg.VoiceFor(agent),
			Text:              speech,
			Format:            "WAV",
			SampleRate:        s.cfg.SampleRate,
			ModelVersion:      s.cfg.Model,
			MultiNativeLocale: s.cfg.Locale,
			EncodeAsBase64:    true,
		}).
		SetResult(&result).
		Post(s.endpoint)
	if err != nil {
		return "", fmt.Errorf("murf request for %s: %w", agent, err)
	}
	if resp.StatusCode() != 200 {
		return "", fmt.Errorf("murf HTTP %d for %s: %s", resp.StatusCode(), agent, result.ErrorMessage)
	}
	if result.EncodedAudio == "" {
		return "", fmt.Errorf("murf returned no audio for %s", agent)
	}

	audio, err := base64.StdEncoding.DecodeString(result.EncodedAudio)
	if err != nil {
		return "", fmt.Errorf("decode murf audio for %s: %w", agent, err)
	}

	if err := os.MkdirAll(s.outDir, 0o755); err != nil {
		return "", fmt.Errorf("create audio dir: %w", err)
	}
	path := filepath.Join(s.outDir, fmt.Sprintf("%s_%s.wav", requestID, agent))
	if err := os.WriteFile(path, audio, 0o644); err != nil {
		return "", fmt.Errorf("write audio file: %w", err)
	}

	logger.Debugf("voice: %s narrated to %s (%.1fs)", agent, path, result.AudioLength)
	return path, nil
}

// trimSpeech cuts text at a word boundary near the limit.
func trimSpeech(text string, max int) string {
	if len(text) <= max {
		return text
	}
	cut := text[:max]
	for i := len(cut) - 1; i > max-200 && i > 0; i-- {
		if cut[i] == ' ' || cut[i] == '\n' {
			return cut[:i]
		}
	}
	return cut
}
