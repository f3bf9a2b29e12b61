package domain

import (
	"errors"
	"testing"
)

func TestOracleFeed_Supported(t *testing.T) {
	addr, err := OracleFeed(11155111)
	if err != nil {
		t.Fatalf("OracleFeed failed: %v", err)
	}
	if addr == "" {
		t.Fatal("expected oracle address for sepolia")
	}
}

func TestOracleFeed_Unsupported(t *testing.T) {
	_, err := OracleFeed(1337)
	if err == nil {
		t.Fatal("expected error for unknown chain")
	}
	if !errors.Is(err, ErrUnsupportedNetwork) {
		t.Errorf("expected ErrUnsupportedNetwork, got %v", err)
	}
}

func TestDefaultTokens(t *testing.T) {
	tokens := DefaultTokens()
	for _, sym := range []string{"MXT", "WETH", "WBTC"} {
		tok, ok := tokens[sym]
		if !ok {
			t.Fatalf("missing default token %s", sym)
		}
		if tok.ContractAddress == "" || tok.Decimals == 0 {
			t.Errorf("incomplete descriptor for %s: %+v", sym, tok)
		}
	}
	if tokens["MXT"].PriceSourceID != "" {
		t.Error("MXT should declare no price source")
	}
}
