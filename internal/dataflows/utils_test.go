package dataflows

import (
	"errors"
	"testing"
	"time"
)

func TestCacheManagerRoundTrip(t *testing.T) {
	cm := NewCacheManager(t.TempDir(), time.Minute, true)

	type payload struct {
		Symbol string `json:"symbol"`
		Price  int    `json:"price"`
	}
	want := payload{Symbol: "TCS", Price: 3500}

	if err := cm.Set("test", "quote", "TCS", want); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	var got payload
	if !cm.Get("test", "quote", "TCS", &got) {
		t.Fatal("Get() missed after Set()")
	}
	if got != want {
		t.Errorf("Get() = %+v, want %+v", got, want)
	}
}

func TestCacheManagerExpiry(t *testing.T) {
	cm := NewCacheManager(t.TempDir(), -time.Second, true)

	if err := cm.Set("test", "quote", "TCS", "data"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	var got string
	if cm.Get("test", "quote", "TCS", &got) {
		t.Error("Get() hit on expired entry")
	}
}

func TestCacheManagerDisabled(t *testing.T) {
	cm := NewCacheManager(t.TempDir(), time.Minute, false)

	if err := cm.Set("test", "quote", "TCS", "data"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	var got string
	if cm.Get("test", "quote", "TCS", &got) {
		t.Error("Get() hit with cache disabled")
	}
}

func TestWithRetrySucceedsAfterFailures(t *testing.T) {
	config := &RetryConfig{
		MaxRetries: 3,
		BaseDelay:  time.Millisecond,
		MaxDelay:   5 * time.Millisecond,
		Multiplier: 2.0,
	}

	attempts := 0
	err := WithRetry(config, func() error {
		attempts++
		if attempts < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithRetry error = %v", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestWithRetryExhausted(t *testing.T) {
	config := &RetryConfig{
		MaxRetries: 2,
		BaseDelay:  time.Millisecond,
		MaxDelay:   2 * time.Millisecond,
		Multiplier: 2.0,
	}

	permanent := errors.New("permanent")
	err := WithRetry(config, func() error { return permanent })
	if err == nil {
		t.Fatal("WithRetry did not return error")
	}
	if !errors.Is(err, permanent) {
		t.Errorf("error %v does not wrap the last failure", err)
	}
}

func TestNormalizeSymbol(t *testing.T) {
	cases := map[string]string{
		"tcs":          "TCS",
		" INFY.NS ":    "INFY",
		"RELIANCE.BO":  "RELIANCE",
		"NSE:HDFCBANK": "HDFCBANK",
		"M&M":          "M&M",
	}
	for in, want := range cases {
		if got := NormalizeSymbol(in); got != want {
			t.Errorf("NormalizeSymbol(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestValidateSymbol(t *testing.T) {
	valid := []string{"TCS", "infy.ns", "M&M", "BAJAJ-AUTO", "L&T"}
	for _, s := range valid {
		if err := ValidateSymbol(s); err != nil {
			t.Errorf("ValidateSymbol(%q) error = %v", s, err)
		}
	}

	invalid := []string{"", "   ", "THISWAYTOOLONGNAME", "TCS INFY", "µ§"}
	for _, s := range invalid {
		if err := ValidateSymbol(s); err == nil {
			t.Errorf("ValidateSymbol(%q) passed, want error", s)
		}
	}
}

func TestYahooSymbol(t *testing.T) {
	if got := YahooSymbol("tcs"); got != "TCS.NS" {
		t.Errorf("YahooSymbol(tcs) = %q, want TCS.NS", got)
	}
	if got := YahooSymbol("INFY.NS"); got != "INFY.NS" {
		t.Errorf("YahooSymbol(INFY.NS) = %q, want INFY.NS", got)
	}
}
