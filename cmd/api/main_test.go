package main

import (
	"io"
	"log"
	"strings"
	"testing"
	"time"

	"shopfront/internal/config"
)

func TestRun_RejectsBadPricingBeforeConnecting(t *testing.T) {
	cfg := config.Config{
		HTTPAddr:        ":0",
		DBConnString:    "postgres://nobody@127.0.0.1:1/none?connect_timeout=1",
		JWTSecret:       "secret",
		AccessTokenTTL:  time.Minute,
		RefreshTokenTTL: time.Hour,
		CheckoutPricing: config.PricingFlat,
		FlatUnitPrice:   "not-a-number",
	}

	err := run(cfg, log.New(io.Discard, "", 0))
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.HasPrefix(err.Error(), "checkout pricing:") {
		t.Fatalf("expected pricing error before any connection, got %v", err)
	}
}

func TestRun_InvalidConfig(t *testing.T) {
	err := run(config.Config{}, log.New(io.Discard, "", 0))
	if err == nil || !strings.HasPrefix(err.Error(), "invalid config:") {
		t.Fatalf("expected invalid config error, got %v", err)
	}
}
