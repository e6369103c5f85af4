package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kirillkom/resume-classifier/internal/config"
	"github.com/kirillkom/resume-classifier/internal/core/domain"
	"github.com/kirillkom/resume-classifier/internal/core/ports"
	"github.com/kirillkom/resume-classifier/internal/core/usecase"
	"github.com/kirillkom/resume-classifier/internal/infrastructure/extractor"
	"github.com/kirillkom/resume-classifier/internal/infrastructure/extractor/docxtext"
	"github.com/kirillkom/resume-classifier/internal/infrastructure/extractor/pdftext"
	"github.com/kirillkom/resume-classifier/internal/infrastructure/model"
	"github.com/kirillkom/resume-classifier/internal/infrastructure/resilience"
	"github.com/kirillkom/resume-classifier/internal/infrastructure/storage/localfs"
	"github.com/kirillkom/resume-classifier/internal/infrastructure/textnorm"
	"github.com/kirillkom/resume-classifier/internal/observability/metrics"
)

const ServiceName = "resume-classifier"

type App struct {
	Config config.Config

	Model      domain.ModelInfo
	Metrics    *metrics.HTTPServerMetrics
	ClassifyUC ports.ResumeClassifier
}

// New loads both artifacts and wires the classification pipeline. Any
// artifact problem is returned; the process is expected to exit.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	store, err := localfs.New(cfg.ArtifactDir)
	if err != nil {
		return nil, fmt.Errorf("init artifact store: %w", err)
	}

	var (
		vectorizer *model.TfidfVectorizer
		classifier ports.Classifier
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := model.LoadVectorizer(gctx, store, cfg.VectorizerArtifact)
		if err != nil {
			return err
		}
		vectorizer = v
		return nil
	})
	g.Go(func() error {
		c, err := model.LoadClassifier(gctx, store, cfg.ClassifierArtifact)
		if err != nil {
			return err
		}
		classifier = c
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load artifacts: %w", err)
	}
	if err := model.CheckCompatible(vectorizer, classifier); err != nil {
		return nil, err
	}

	info := model.Describe(vectorizer, classifier)
	slog.Info("artifacts_loaded",
		"dir", store.Root(),
		"classifier", info.ClassifierKind,
		"vectorizer", info.VectorizerKind,
		"classes", len(info.Classes),
		"features", info.Features,
	)

	httpMetrics := metrics.NewHTTPServerMetrics(ServiceName)
	pipelineMetrics := metrics.NewPipelineMetrics(ServiceName, httpMetrics.Registerer())

	textExtractor := extractor.NewRouter().
		Register(domain.MediaTypePDF, pdftext.NewExtractor()).
		Register(domain.MediaTypeDOCX, docxtext.NewExtractor())

	classifyUC := usecase.NewClassifyResumeUseCase(
		textExtractor,
		textnorm.New(),
		usecase.NewInferenceAdapter(vectorizer, classifier),
		usecase.WithObserver(pipelineMetrics),
		usecase.WithMaxUploadBytes(cfg.MaxUploadBytes),
	)

	return &App{
		Config:     cfg,
		Model:      info,
		Metrics:    httpMetrics,
		ClassifyUC: resilience.NewClassifierGuard(classifyUC, breakerConfig(cfg)),
	}, nil
}

func breakerConfig(cfg config.Config) resilience.Config {
	out := resilience.DefaultConfig()
	out.BreakerEnabled = cfg.BreakerEnabled
	if cfg.BreakerMinRequests > 0 {
		out.BreakerMinRequests = uint32(cfg.BreakerMinRequests)
	}
	if cfg.BreakerFailureRatio > 0 {
		out.BreakerFailureRatio = cfg.BreakerFailureRatio
	}
	if cfg.BreakerOpenTimeoutSeconds > 0 {
		out.BreakerOpenTimeout = time.Duration(cfg.BreakerOpenTimeoutSeconds) * time.Second
	}
	return out
}
