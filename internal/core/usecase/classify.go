package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kirillkom/resume-classifier/internal/core/domain"
	"github.com/kirillkom/resume-classifier/internal/core/ports"
)

const (
	StageRead      = "read"
	StageExtract   = "extract"
	StageNormalize = "normalize"
	StageInfer     = "infer"

	DefaultMaxUploadBytes int64 = 10 << 20
)

type ClassifyResumeUseCase struct {
	extractor  ports.TextExtractor
	normalizer ports.TextNormalizer
	inference  *InferenceAdapter
	observer   ports.PipelineObserver

	maxUploadBytes int64
}

type ClassifyOption func(*ClassifyResumeUseCase)

func WithObserver(observer ports.PipelineObserver) ClassifyOption {
	return func(uc *ClassifyResumeUseCase) {
		if observer != nil {
			uc.observer = observer
		}
	}
}

func WithMaxUploadBytes(limit int64) ClassifyOption {
	return func(uc *ClassifyResumeUseCase) {
		if limit > 0 {
			uc.maxUploadBytes = limit
		}
	}
}

func NewClassifyResumeUseCase(
	extractor ports.TextExtractor,
	normalizer ports.TextNormalizer,
	inference *InferenceAdapter,
	opts ...ClassifyOption,
) *ClassifyResumeUseCase {
	uc := &ClassifyResumeUseCase{
		extractor:      extractor,
		normalizer:     normalizer,
		inference:      inference,
		observer:       noopObserver{},
		maxUploadBytes: DefaultMaxUploadBytes,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

func (uc *ClassifyResumeUseCase) Classify(
	ctx context.Context,
	filename, mimeType string,
	body io.Reader,
) (*domain.ClassificationResult, error) {
	mediaType, err := domain.DetectMediaType(mimeType, filename)
	if err != nil {
		uc.observer.ObserveClassification("", "", 0, err)
		return nil, err
	}

	result, err := uc.run(ctx, filename, mediaType, body)
	if err != nil {
		uc.observer.ObserveClassification(mediaType, "", 0, err)
		return nil, err
	}

	uc.observer.ObserveClassification(mediaType, result.Label, result.Confidence, nil)
	slog.Debug("resume_classified",
		"document_id", result.DocumentID,
		"media_type", mediaType.Short(),
		"label", result.Label,
		"confidence", result.Confidence,
	)
	return result, nil
}

func (uc *ClassifyResumeUseCase) run(
	ctx context.Context,
	filename string,
	mediaType domain.MediaType,
	body io.Reader,
) (*domain.ClassificationResult, error) {
	doc, err := uc.readDocument(filename, mediaType, body)
	if err != nil {
		return nil, err
	}

	rawText, err := uc.extractText(ctx, doc)
	if err != nil {
		return nil, err
	}

	cleaned, err := uc.normalize(rawText)
	if err != nil {
		return nil, err
	}

	prediction, err := uc.infer(cleaned)
	if err != nil {
		return nil, err
	}

	return &domain.ClassificationResult{
		DocumentID:     doc.ID,
		Filename:       doc.Filename,
		MediaType:      doc.MediaType,
		Label:          prediction.Label,
		Confidence:     prediction.Confidence,
		Distribution:   prediction.Distribution,
		ExtractedChars: len([]rune(rawText)),
		TokenCount:     len(strings.Fields(cleaned)),
	}, nil
}

func (uc *ClassifyResumeUseCase) readDocument(filename string, mediaType domain.MediaType, body io.Reader) (*domain.Document, error) {
	start := time.Now()
	doc, err := uc.buildDocument(filename, mediaType, body)
	uc.observer.ObserveStage(StageRead, time.Since(start), err)
	return doc, err
}

func (uc *ClassifyResumeUseCase) buildDocument(filename string, mediaType domain.MediaType, body io.Reader) (*domain.Document, error) {
	if body == nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, "read upload", errors.New("body is nil"))
	}

	raw, err := io.ReadAll(io.LimitReader(body, uc.maxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(raw)) > uc.maxUploadBytes {
		return nil, domain.WrapError(
			domain.ErrInvalidInput,
			"read upload",
			fmt.Errorf("%w: limit is %d bytes", domain.ErrUploadTooLarge, uc.maxUploadBytes),
		)
	}

	doc := &domain.Document{
		ID:        uuid.NewString(),
		Filename:  filename,
		MediaType: mediaType,
		Content:   raw,
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

func (uc *ClassifyResumeUseCase) extractText(ctx context.Context, doc *domain.Document) (string, error) {
	start := time.Now()
	text, err := uc.extractor.Extract(ctx, doc)
	if err == nil && strings.TrimSpace(text) == "" {
		err = domain.WrapError(domain.ErrNoTextFound, "extract text", fmt.Errorf("document %s has no text layer", doc.Filename))
	}
	uc.observer.ObserveStage(StageExtract, time.Since(start), err)
	if err != nil {
		return "", fmt.Errorf("extract text: %w", err)
	}
	return text, nil
}

func (uc *ClassifyResumeUseCase) normalize(rawText string) (string, error) {
	start := time.Now()
	cleaned := uc.normalizer.Clean(rawText)
	var err error
	if cleaned == "" {
		err = domain.WrapError(domain.ErrNoTextFound, "normalize text", errors.New("no tokens left after cleaning"))
	}
	uc.observer.ObserveStage(StageNormalize, time.Since(start), err)
	return cleaned, err
}

func (uc *ClassifyResumeUseCase) infer(cleaned string) (domain.Prediction, error) {
	start := time.Now()
	prediction, err := uc.inference.Infer(cleaned)
	uc.observer.ObserveStage(StageInfer, time.Since(start), err)
	if err != nil {
		return domain.Prediction{}, fmt.Errorf("classify text: %w", err)
	}
	return prediction, nil
}

type noopObserver struct{}

func (noopObserver) ObserveStage(string, time.Duration, error) {}

func (noopObserver) ObserveClassification(domain.MediaType, string, float64, error) {}
