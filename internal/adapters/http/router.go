package httpadapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/kirillkom/resume-classifier/internal/config"
	"github.com/kirillkom/resume-classifier/internal/core/domain"
	"github.com/kirillkom/resume-classifier/internal/core/ports"
	"github.com/kirillkom/resume-classifier/internal/observability/metrics"
)

const (
	serviceName      = "resume-classifier-web"
	formField        = "file"
	multipartSlack   = 1 << 20
	topProbabilities = 5
)

type Router struct {
	cfg        config.Config
	classifier ports.ResumeClassifier
	model      domain.ModelInfo
	metrics    *metrics.HTTPServerMetrics
	views      *templateSet
}

func NewRouter(
	cfg config.Config,
	classifier ports.ResumeClassifier,
	model domain.ModelInfo,
	m *metrics.HTTPServerMetrics,
) (*Router, error) {
	ts, err := newTemplateSet(templateFS, "templates/layout.html", views)
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}
	return &Router{
		cfg:        cfg,
		classifier: classifier,
		model:      model,
		metrics:    m,
		views:      ts,
	}, nil
}

func (rt *Router) Handler() http.Handler {
	classify := backpressureMiddleware(
		http.HandlerFunc(rt.classifyUpload),
		rt.cfg.MaxInFlight,
		rt.cfg.BackpressureWait(),
		rt.reject,
	)
	classify = rateLimitMiddleware(classify, rt.cfg.RateLimitRPS, rt.cfg.RateLimitBurst, rt.reject)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", rt.home)
	mux.HandleFunc("GET /classify", rt.classifyForm)
	mux.Handle("POST /classify", classify)
	mux.HandleFunc("GET /about", rt.about)
	mux.HandleFunc("GET /healthz", rt.healthz)
	if rt.metrics != nil {
		mux.Handle("GET /metrics", rt.metrics.Handler())
	}
	mux.HandleFunc("/", rt.notFound)

	var handler http.Handler = mux
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(serviceName, handler)
	}
	handler = accessLogMiddleware(handler)
	handler = requestIDMiddleware(handler)
	return handler
}

type classifyPage struct {
	MaxUpload string
	Error     string
	Result    *resultView
}

type resultView struct {
	Filename       string
	Label          string
	Confidence     string
	Progress       int
	Top            []probabilityView
	ExtractedChars int
	TokenCount     int
}

type probabilityView struct {
	Label   string
	Percent string
}

type aboutPage struct {
	domain.ModelInfo
	Inputs    []string
	MaxUpload string
}

func (rt *Router) home(w http.ResponseWriter, r *http.Request) {
	rt.render(w, r, http.StatusOK, viewHome, nil)
}

func (rt *Router) classifyForm(w http.ResponseWriter, r *http.Request) {
	rt.render(w, r, http.StatusOK, viewClassify, rt.classifyPage())
}

func (rt *Router) classifyUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, rt.cfg.MaxUploadBytes+multipartSlack)

	file, header, err := r.FormFile(formField)
	if err != nil {
		status, message := http.StatusBadRequest, msgMissingFile
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			status, message = http.StatusRequestEntityTooLarge, msgTooLarge
		}
		slog.Warn("classify_upload_rejected",
			"request_id", requestIDFromContext(r.Context()),
			"status", status,
			"error", err,
		)
		page := rt.classifyPage()
		page.Error = message
		rt.render(w, r, status, viewClassify, page)
		return
	}
	defer file.Close()

	result, err := rt.classifier.Classify(
		r.Context(),
		header.Filename,
		header.Header.Get("Content-Type"),
		file,
	)
	page := rt.classifyPage()
	if err != nil {
		status := mapErrorToHTTPStatus(err)
		logAttrs := []any{
			"request_id", requestIDFromContext(r.Context()),
			"filename", header.Filename,
			"reason", domain.Reason(err),
			"status", status,
			"error", err,
		}
		if status >= http.StatusInternalServerError {
			slog.Error("classification_failed", logAttrs...)
		} else {
			slog.Warn("classification_failed", logAttrs...)
		}
		page.Error = userMessage(err)
		rt.render(w, r, status, viewClassify, page)
		return
	}

	page.Result = newResultView(result)
	rt.render(w, r, http.StatusOK, viewClassify, page)
}

func (rt *Router) about(w http.ResponseWriter, r *http.Request) {
	rt.render(w, r, http.StatusOK, viewAbout, aboutPage{
		ModelInfo: rt.model,
		Inputs:    []string{"PDF (.pdf)", "Word (.docx)"},
		MaxUpload: formatBytes(rt.cfg.MaxUploadBytes),
	})
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) notFound(w http.ResponseWriter, r *http.Request) {
	rt.render(w, r, http.StatusNotFound, viewNotFound, struct{ Path string }{Path: r.URL.Path})
}

func (rt *Router) reject(w http.ResponseWriter, r *http.Request, status int, reason string) {
	if rt.metrics != nil {
		rt.metrics.RecordRejected(serviceName, reason)
	}
	page := rt.classifyPage()
	page.Error = msgBusy
	if status == http.StatusTooManyRequests {
		page.Error = msgRateLimited
	}
	rt.render(w, r, status, viewClassify, page)
}

func (rt *Router) classifyPage() classifyPage {
	return classifyPage{MaxUpload: formatBytes(rt.cfg.MaxUploadBytes)}
}

func (rt *Router) render(w http.ResponseWriter, r *http.Request, status int, view string, data any) {
	if err := rt.views.render(w, status, view, data); err != nil {
		slog.Error("render_failed",
			"request_id", requestIDFromContext(r.Context()),
			"view", view,
			"error", err,
		)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func newResultView(result *domain.ClassificationResult) *resultView {
	view := &resultView{
		Filename:       result.Filename,
		Label:          result.Label,
		Confidence:     fmt.Sprintf("%.2f", result.Confidence),
		Progress:       int(result.Confidence),
		ExtractedChars: result.ExtractedChars,
		TokenCount:     result.TokenCount,
	}
	for _, p := range result.Distribution.Top(topProbabilities) {
		view.Top = append(view.Top, probabilityView{
			Label:   p.Label,
			Percent: fmt.Sprintf("%.2f", p.Probability*100),
		})
	}
	return view
}

func formatBytes(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d bytes", n)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
