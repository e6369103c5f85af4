package metrics

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/kirillkom/resume-classifier/internal/core/domain"
)

func scrape(t *testing.T, h http.Handler) string {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	return string(body)
}

func TestMiddlewareRecordsNormalizedPath(t *testing.T) {
	m := NewHTTPServerMetrics("web")
	handler := m.Middleware("web", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/wp-admin/setup.php", nil))
	m.RecordRejected("web", "rate_limited")

	out := scrape(t, m.Handler())
	want := `resume_classifier_http_requests_total{method="GET",path="other",service="web",status="404"} 1`
	if !strings.Contains(out, want) {
		t.Fatalf("expected %q in metrics output:\n%s", want, out)
	}
	if !strings.Contains(out, `resume_classifier_http_rejected_total{reason="rate_limited",service="web"} 1`) {
		t.Fatalf("expected rejected counter in metrics output:\n%s", out)
	}
}

func TestPipelineMetricsShareRegistry(t *testing.T) {
	m := NewHTTPServerMetrics("web")
	p := NewPipelineMetrics("web", m.Registerer())

	p.ObserveStage("extract", 3*time.Millisecond, nil)
	p.ObserveClassification(domain.MediaTypePDF, "Data Science", 82, nil)
	p.ObserveClassification(domain.MediaTypeDOCX, "", 0,
		domain.WrapError(domain.ErrNoTextFound, "extract text", errors.New("empty")))

	out := scrape(t, m.Handler())
	for _, want := range []string{
		`resume_classifier_pipeline_classifications_total{media_type="pdf",outcome="ok",service="web"} 1`,
		`resume_classifier_pipeline_classifications_total{media_type="docx",outcome="no_text_found",service="web"} 1`,
		`resume_classifier_pipeline_predicted_labels_total{label="Data Science",service="web"} 1`,
		`resume_classifier_pipeline_confidence_percent_count{service="web"} 1`,
		fmt.Sprintf(`resume_classifier_pipeline_stage_duration_seconds_count{service="web",stage="extract",status="%s"} 1`, "success"),
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in metrics output:\n%s", want, out)
		}
	}
}

func TestNormalizePath(t *testing.T) {
	tests := map[string]string{
		"/":         "/",
		"/classify": "/classify",
		"/about":    "/about",
		"/metrics":  "/metrics",
		"/x/y":      "other",
	}
	for in, want := range tests {
		if got := normalizePath(in); got != want {
			t.Fatalf("normalizePath(%q) = %q, want %q", in, got, want)
		}
	}
}
