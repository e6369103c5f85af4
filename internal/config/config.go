package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	HTTPAddr  string
	LogLevel  string
	LogFormat string

	ArtifactDir        string
	ClassifierArtifact string
	VectorizerArtifact string

	MaxUploadBytes int64

	RateLimitRPS       float64
	RateLimitBurst     int
	MaxInFlight        int
	BackpressureWaitMS int

	BreakerEnabled            bool
	BreakerMinRequests        int
	BreakerFailureRatio       float64
	BreakerOpenTimeoutSeconds int

	HTTPReadTimeoutSeconds  int
	HTTPWriteTimeoutSeconds int
	ShutdownTimeoutSeconds  int
}

func Load() Config {
	return Config{
		HTTPAddr:  mustEnv("HTTP_ADDR", "127.0.0.1:8501"),
		LogLevel:  mustEnv("LOG_LEVEL", "info"),
		LogFormat: mustEnv("LOG_FORMAT", "json"),

		ArtifactDir:        mustEnv("ARTIFACT_DIR", "./models"),
		ClassifierArtifact: mustEnv("CLASSIFIER_ARTIFACT", "clf.json"),
		VectorizerArtifact: mustEnv("VECTORIZER_ARTIFACT", "tfidf.json"),

		MaxUploadBytes: mustEnvInt64("MAX_UPLOAD_BYTES", 10<<20),

		RateLimitRPS:       mustEnvFloat("RATE_LIMIT_RPS", 2),
		RateLimitBurst:     mustEnvInt("RATE_LIMIT_BURST", 4),
		MaxInFlight:        mustEnvInt("MAX_IN_FLIGHT", 1),
		BackpressureWaitMS: mustEnvInt("BACKPRESSURE_WAIT_MS", 2000),

		BreakerEnabled:            mustEnvBool("BREAKER_ENABLED", true),
		BreakerMinRequests:        mustEnvInt("BREAKER_MIN_REQUESTS", 5),
		BreakerFailureRatio:       mustEnvFloat("BREAKER_FAILURE_RATIO", 0.5),
		BreakerOpenTimeoutSeconds: mustEnvInt("BREAKER_OPEN_TIMEOUT_SECONDS", 30),

		HTTPReadTimeoutSeconds:  mustEnvInt("HTTP_READ_TIMEOUT_SECONDS", 30),
		HTTPWriteTimeoutSeconds: mustEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 60),
		ShutdownTimeoutSeconds:  mustEnvInt("SHUTDOWN_TIMEOUT_SECONDS", 10),
	}
}

func (c Config) BackpressureWait() time.Duration {
	return time.Duration(c.BackpressureWaitMS) * time.Millisecond
}

func (c Config) ReadTimeout() time.Duration {
	return time.Duration(c.HTTPReadTimeoutSeconds) * time.Second
}

func (c Config) WriteTimeout() time.Duration {
	return time.Duration(c.HTTPWriteTimeoutSeconds) * time.Second
}

func (c Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}

func mustEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func mustEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func mustEnvInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func mustEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func mustEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}
