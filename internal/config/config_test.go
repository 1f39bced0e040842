package config

import (
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "gsk_test")
	t.Setenv("BRIGHT_DATA_API_TOKEN", "bd_test")

	c, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if c.Groq.BaseURL != "https://api.groq.com/openai/v1" {
		t.Errorf("Groq.BaseURL = %q, want groq default", c.Groq.BaseURL)
	}
	if c.Groq.Model != "qwen/qwen3-32b" {
		t.Errorf("Groq.Model = %q", c.Groq.Model)
	}
	if c.Groq.MaxTokens != 1000 {
		t.Errorf("Groq.MaxTokens = %d, want 1000", c.Groq.MaxTokens)
	}
	if c.BrightData.UnlockerZone != "unblocker" {
		t.Errorf("UnlockerZone = %q, want unblocker", c.BrightData.UnlockerZone)
	}
	if c.Server.Addr != ":8501" {
		t.Errorf("Server.Addr = %q, want :8501", c.Server.Addr)
	}
	if c.Data.CacheTTLMins != 15 {
		t.Errorf("CacheTTLMins = %d, want 15", c.Data.CacheTTLMins)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		groq    string
		bright  string
		wantErr bool
	}{
		{"both set", "gsk", "bd", false},
		{"missing groq", "", "bd", true},
		{"missing bright data", "gsk", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{}
			c.Groq.APIKey = tt.groq
			c.BrightData.APIToken = tt.bright
			err := c.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestVoiceEnabled(t *testing.T) {
	c := &Config{}
	if c.VoiceEnabled() {
		t.Error("VoiceEnabled() = true without MURF_API_KEY")
	}
	c.Murf.APIKey = "murf_test"
	if !c.VoiceEnabled() {
		t.Error("VoiceEnabled() = false with MURF_API_KEY set")
	}
}

func TestVoiceFor(t *testing.T) {
	m := &MurfConfig{
		VoiceStockFinder:      "en-US-matthew",
		VoiceMarketData:       "en-US-julia",
		VoiceNewsAnalyst:      "en-US-ken",
		VoicePriceRecommender: "en-US-ruby",
		VoiceSupervisor:       "en-US-emily",
	}
	cases := map[string]string{
		"stock_finder":      "en-US-matthew",
		"market_data":       "en-US-julia",
		"news_analyst":      "en-US-ken",
		"price_recommender": "en-US-ruby",
		"supervisor":        "en-US-emily",
		"anything_else":     "en-US-emily",
	}
	for agent, want := range cases {
		if got := m.VoiceFor(agent); got != want {
			t.Errorf("VoiceFor(%q) = %q, want %q", agent, got, want)
		}
	}
}

func TestEnsureDirectories(t *testing.T) {
	c := &Config{}
	c.Data.CacheDir = t.TempDir() + "/cache"
	c.Data.ResultsDir = t.TempDir() + "/results"
	if err := c.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories() error = %v", err)
	}
}
