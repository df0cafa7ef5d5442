package config

import (
	"testing"
	"time"

	"github.com/dietia/dietia-backend/internal/domain/anthropometry"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("BMR_FORMULA", "")
	t.Setenv("GEMINI_TIMEOUT", "")
	cfg := Load()
	if cfg.GeminiModel != "gemini-2.0-flash-lite" {
		t.Errorf("unexpected model %q", cfg.GeminiModel)
	}
	if cfg.GeminiTimeout != 60*time.Second {
		t.Errorf("unexpected timeout %v", cfg.GeminiTimeout)
	}
	opts, err := cfg.EstimatorOptions()
	if err != nil {
		t.Fatalf("defaults should be valid: %v", err)
	}
	if opts != anthropometry.DefaultOptions() {
		t.Errorf("expected default options, got %+v", opts)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("BMR_FORMULA", " Harris_Benedict ")
	t.Setenv("MACRO_ROUNDING", "half_even")
	t.Setenv("ASSESSMENT_CACHE_TTL", "5m")
	t.Setenv("MAIL_SEND_ENABLED", "false")
	t.Setenv("DB_MAX_CONNS", "not-a-number")

	cfg := Load()
	opts, err := cfg.EstimatorOptions()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.BMRFormula != anthropometry.HarrisBenedict || opts.Rounding != anthropometry.RoundHalfEven {
		t.Errorf("overrides not applied: %+v", opts)
	}
	if cfg.AssessmentCacheTTL != 5*time.Minute {
		t.Errorf("expected 5m, got %v", cfg.AssessmentCacheTTL)
	}
	if cfg.MailSendEnabled {
		t.Error("expected mail sending disabled")
	}
	if cfg.DBMaxConns != 10 {
		t.Errorf("invalid int should fall back to default, got %d", cfg.DBMaxConns)
	}
}

func TestEstimatorOptions_Unknown(t *testing.T) {
	t.Setenv("DENSITY_EQUATION", "durnin_womersley")
	if _, err := Load().EstimatorOptions(); err == nil {
		t.Error("expected error for unknown density equation")
	}
}

func TestSplitLists(t *testing.T) {
	cfg := &Config{CORSAllowedOrigins: " http://a.test, ,http://b.test ", ElasticsearchAddrs: ""}
	got := cfg.CORSOrigins()
	if len(got) != 2 || got[0] != "http://a.test" || got[1] != "http://b.test" {
		t.Errorf("unexpected origins %v", got)
	}
	if len(cfg.ESAddrs()) != 0 {
		t.Errorf("expected no addresses, got %v", cfg.ESAddrs())
	}
}
