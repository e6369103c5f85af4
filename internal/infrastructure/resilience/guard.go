package resilience

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/sony/gobreaker/v2"

	"github.com/kirillkom/resume-classifier/internal/core/domain"
	"github.com/kirillkom/resume-classifier/internal/core/ports"
)

// ClassifierGuard stops running the pipeline once it keeps failing for
// reasons unrelated to the uploaded document. Calls are never retried.
type ClassifierGuard struct {
	next    ports.ResumeClassifier
	breaker *gobreaker.CircuitBreaker[*domain.ClassificationResult]
}

func NewClassifierGuard(next ports.ResumeClassifier, cfg Config) ports.ResumeClassifier {
	if !cfg.BreakerEnabled {
		return next
	}
	cfg = cfg.normalize()

	settings := gobreaker.Settings{
		Name:        "classify",
		MaxRequests: cfg.BreakerHalfOpenMaxCalls,
		Timeout:     cfg.BreakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.BreakerMinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= cfg.BreakerFailureRatio
		},
		IsSuccessful: func(err error) bool {
			return err == nil || isDocumentError(err)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			slog.Warn("circuit_breaker_state_change", "operation", name, "from", from.String(), "to", to.String())
		},
	}

	return &ClassifierGuard{
		next:    next,
		breaker: gobreaker.NewCircuitBreaker[*domain.ClassificationResult](settings),
	}
}

func (g *ClassifierGuard) Classify(
	ctx context.Context,
	filename, mimeType string,
	body io.Reader,
) (*domain.ClassificationResult, error) {
	result, err := g.breaker.Execute(func() (*domain.ClassificationResult, error) {
		return g.next.Classify(ctx, filename, mimeType, body)
	})
	if IsCircuitOpen(err) {
		return nil, domain.WrapError(domain.ErrModelUnavailable, "classify", err)
	}
	return result, err
}

func IsCircuitOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}

// isDocumentError reports failures caused by the upload itself; they say
// nothing about the health of the pipeline.
func isDocumentError(err error) bool {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return true
	case domain.IsKind(err, domain.ErrInvalidInput),
		domain.IsKind(err, domain.ErrUnsupportedFormat),
		domain.IsKind(err, domain.ErrCorruptDocument),
		domain.IsKind(err, domain.ErrNoTextFound):
		return true
	default:
		return false
	}
}
