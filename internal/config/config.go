// Package config loads runtime configuration from the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds every runtime setting for the application. Values come from
// environment variables, optionally seeded from a .env file in the working
// directory.
type Config struct {
	App        AppConfig
	Groq       GroqConfig
	BrightData BrightDataConfig
	Murf       MurfConfig
	Server     ServerConfig
	Data       DataConfig
}

// AppConfig controls process-wide behavior.
type AppConfig struct {
	Env       string `envconfig:"APP_ENV" default:"development"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	EinoDebug bool   `envconfig:"EINO_DEBUG_ENABLED" default:"false"`
}

// GroqConfig configures the Groq chat completion backend.
type GroqConfig struct {
	APIKey    string `envconfig:"GROQ_API_KEY"`
	BaseURL   string `envconfig:"GROQ_BASE_URL" default:"https://api.groq.com/openai/v1"`
	Model     string `envconfig:"GROQ_MODEL" default:"qwen/qwen3-32b"`
	MaxTokens int    `envconfig:"GROQ_MAX_TOKENS" default:"1000"`
}

// BrightDataConfig configures the web unlocker used for scraping NSE pages
// behind anti-bot protection.
type BrightDataConfig struct {
	APIToken     string `envconfig:"BRIGHT_DATA_API_TOKEN"`
	UnlockerZone string `envconfig:"WEB_UNLOCKER_ZONE" default:"unblocker"`
}

// MurfConfig configures the optional text-to-speech narration. When APIKey
// is empty, narration is disabled and the rest of the pipeline is unaffected.
type MurfConfig struct {
	APIKey     string `envconfig:"MURF_API_KEY"`
	Model      string `envconfig:"MURF_MODEL" default:"FALCON"`
	Locale     string `envconfig:"MURF_LOCALE" default:"en-US"`
	SampleRate int    `envconfig:"MURF_SAMPLE_RATE" default:"24000"`

	VoiceStockFinder      string `envconfig:"MURF_VOICE_STOCK_FINDER" default:"en-US-matthew"`
	VoiceMarketData       string `envconfig:"MURF_VOICE_MARKET_DATA" default:"en-US-julia"`
	VoiceNewsAnalyst      string `envconfig:"MURF_VOICE_NEWS_ANALYST" default:"en-US-ken"`
	VoicePriceRecommender string `envconfig:"MURF_VOICE_PRICE_RECOMMENDER" default:"en-US-ruby"`
	VoiceSupervisor       string `envconfig:"MURF_VOICE_SUPERVISOR" default:"en-US-emily"`
}

// ServerConfig configures the HTTP front end.
type ServerConfig struct {
	Addr            string `envconfig:"HTTP_ADDR" default:":8501"`
	ShutdownTimeout int    `envconfig:"HTTP_SHUTDOWN_TIMEOUT_SECONDS" default:"10"`
}

// DataConfig controls on-disk caching and result output.
type DataConfig struct {
	CacheDir     string `envconfig:"CACHE_DIR" default:"./cache"`
	ResultsDir   string `envconfig:"RESULTS_DIR" default:"./results"`
	CacheTTLMins int    `envconfig:"CACHE_TTL_MINUTES" default:"15"`
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; real environment variables win.
func Load() (*Config, error) {
	// Ignore the error: a missing .env file is the normal production case.
	_ = godotenv.Load()

	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}
	return &c, nil
}

// Validate checks the settings without which the pipeline cannot run at all.
// Optional integrations (Murf) are deliberately not checked here.
func (c *Config) Validate() error {
	if c.Groq.APIKey == "" {
		return fmt.Errorf("GROQ_API_KEY is required")
	}
	if c.BrightData.APIToken == "" {
		return fmt.Errorf("BRIGHT_DATA_API_TOKEN is required")
	}
	return nil
}

// VoiceEnabled reports whether narration should be attempted.
func (c *Config) VoiceEnabled() bool {
	return c.Murf.APIKey != ""
}

// VoiceFor returns the Murf voice id for an agent node key. Unknown agents
// fall back to the supervisor voice.
func (m *MurfConfig) VoiceFor(agent string) string {
	switch agent {
	case "stock_finder":
		return m.VoiceStockFinder
	case "market_data":
		return m.VoiceMarketData
	case "news_analyst":
		return m.VoiceNewsAnalyst
	case "price_recommender":
		return m.VoicePriceRecommender
	default:
		return m.VoiceSupervisor
	}
}

// EnsureDirectories creates the cache and results directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Data.CacheDir, c.Data.ResultsDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(filepath.Clean(dir), 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}
