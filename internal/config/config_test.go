package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"HTTP_ADDR", "LOG_FORMAT", "ARTIFACT_DIR", "CLASSIFIER_ARTIFACT", "VECTORIZER_ARTIFACT",
		"MAX_UPLOAD_BYTES", "RATE_LIMIT_RPS", "MAX_IN_FLIGHT", "BACKPRESSURE_WAIT_MS", "BREAKER_ENABLED",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.HTTPAddr != "127.0.0.1:8501" {
		t.Fatalf("expected loopback default addr, got %q", cfg.HTTPAddr)
	}
	if cfg.LogFormat != "json" {
		t.Fatalf("expected json log format, got %q", cfg.LogFormat)
	}
	if cfg.ArtifactDir != "./models" || cfg.ClassifierArtifact != "clf.json" || cfg.VectorizerArtifact != "tfidf.json" {
		t.Fatalf("unexpected artifact defaults: %+v", cfg)
	}
	if cfg.MaxUploadBytes != 10<<20 {
		t.Fatalf("expected 10 MiB upload limit, got %d", cfg.MaxUploadBytes)
	}
	if cfg.MaxInFlight != 1 {
		t.Fatalf("expected one classification in flight, got %d", cfg.MaxInFlight)
	}
	if cfg.RateLimitRPS != 2 {
		t.Fatalf("expected default rate limit 2, got %v", cfg.RateLimitRPS)
	}
	if !cfg.BreakerEnabled {
		t.Fatalf("expected breaker enabled by default")
	}
	if cfg.BackpressureWait() != 2*time.Second {
		t.Fatalf("expected 2s backpressure wait, got %s", cfg.BackpressureWait())
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", "0.0.0.0:9000")
	t.Setenv("CLASSIFIER_ARTIFACT", "nb.yaml")
	t.Setenv("MAX_UPLOAD_BYTES", "1024")
	t.Setenv("RATE_LIMIT_RPS", "0.5")
	t.Setenv("RATE_LIMIT_BURST", "1")
	t.Setenv("SHUTDOWN_TIMEOUT_SECONDS", "3")
	t.Setenv("BREAKER_ENABLED", "false")

	cfg := Load()
	if cfg.HTTPAddr != "0.0.0.0:9000" {
		t.Fatalf("expected addr override, got %q", cfg.HTTPAddr)
	}
	if cfg.ClassifierArtifact != "nb.yaml" {
		t.Fatalf("expected classifier override, got %q", cfg.ClassifierArtifact)
	}
	if cfg.MaxUploadBytes != 1024 {
		t.Fatalf("expected upload limit 1024, got %d", cfg.MaxUploadBytes)
	}
	if cfg.RateLimitRPS != 0.5 || cfg.RateLimitBurst != 1 {
		t.Fatalf("expected rate limit overrides, got %v/%d", cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
	if cfg.BreakerEnabled {
		t.Fatalf("expected breaker override to disable it")
	}
	if cfg.ShutdownTimeout() != 3*time.Second {
		t.Fatalf("expected 3s shutdown timeout, got %s", cfg.ShutdownTimeout())
	}
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("MAX_UPLOAD_BYTES", "-5")
	t.Setenv("RATE_LIMIT_RPS", "fast")
	t.Setenv("MAX_IN_FLIGHT", "many")

	cfg := Load()
	if cfg.MaxUploadBytes != 10<<20 {
		t.Fatalf("expected fallback upload limit, got %d", cfg.MaxUploadBytes)
	}
	if cfg.RateLimitRPS != 2 {
		t.Fatalf("expected fallback rate limit, got %v", cfg.RateLimitRPS)
	}
	if cfg.MaxInFlight != 1 {
		t.Fatalf("expected fallback in-flight limit, got %d", cfg.MaxInFlight)
	}
}
