package prompts

import (
	"strings"
	"testing"
)

func TestMarketDataUserIncludesSectorPeers(t *testing.T) {
	msg := MarketDataUser([]string{"TCS"}, map[string]string{"TCS": "quote data"})

	if !strings.Contains(msg, "quote data") {
		t.Error("quote section missing from the prompt")
	}
	if !strings.Contains(msg, "Sector: IT") {
		t.Errorf("sector context missing:\n%s", msg)
	}
	if !strings.Contains(msg, "INFY") || !strings.Contains(msg, "WIPRO") {
		t.Errorf("sector peers missing:\n%s", msg)
	}
	if strings.Contains(msg, "peers: TCS") {
		t.Error("ticker listed as its own peer")
	}
}

func TestMarketDataUserUnknownTicker(t *testing.T) {
	msg := MarketDataUser([]string{"ZZZUNKNOWN"}, nil)

	if !strings.Contains(msg, "DATA UNAVAILABLE") {
		t.Errorf("missing-data placeholder absent:\n%s", msg)
	}
	if strings.Contains(msg, "Sector:") {
		t.Errorf("sector line emitted for an unknown ticker:\n%s", msg)
	}
}

func TestSectorPeers(t *testing.T) {
	peers := SectorPeers("RELIANCE")
	if len(peers) == 0 {
		t.Fatal("no peers for RELIANCE")
	}
	for _, p := range peers {
		if p == "RELIANCE" {
			t.Error("ticker included in its own peer list")
		}
	}
	if SectorPeers("ZZZUNKNOWN") != nil {
		t.Error("peers returned for an unknown ticker")
	}
}
