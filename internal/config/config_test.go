package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("default port = %q", cfg.Port)
	}
	if cfg.NotifyBackend != "off" {
		t.Fatalf("default notify backend = %q", cfg.NotifyBackend)
	}
	if cfg.CascadeBatchSize != 25 {
		t.Fatalf("default batch size = %d", cfg.CascadeBatchSize)
	}
	if cfg.StrictEdits {
		t.Fatalf("strict edits should default off")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("NOTIFY_BACKEND", "amqp")
	t.Setenv("CASCADE_BATCH_SIZE", "50")
	t.Setenv("STRICT_EDITS", "true")
	t.Setenv("HTTP_TIMEOUT", "30s")

	cfg := Load()
	if cfg.Port != "9090" || cfg.NotifyBackend != "amqp" || cfg.CascadeBatchSize != 50 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if !cfg.StrictEdits || cfg.HTTPTimeout != 30*time.Second {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestValidateCollectsAllProblems(t *testing.T) {
	cfg := &Config{Port: "not-a-port", NotifyBackend: "smoke-signals", CascadeBatchSize: 0}
	err := cfg.Validate()
	if err == nil {
		t.Fatalf("expected error")
	}
	for _, want := range []string{"port", "notify backend", "batch size"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("error %q should mention %s", err.Error(), want)
		}
	}
}
