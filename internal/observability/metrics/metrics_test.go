package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestMiddlewareAndAnalysisMetricsShareEndpoint(t *testing.T) {
	httpMetrics := NewHTTPServerMetrics("stylesage-api")
	analysis := NewAnalysisMetrics("stylesage-api", httpMetrics.Registerer())

	handler := httpMetrics.Middleware("stylesage-api", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/analyses/abc", nil))

	analysis.StartAnalysis()
	analysis.FinishAnalysis("Soft / Earthy", 20*time.Millisecond, nil)
	analysis.StartAnalysis()
	analysis.FinishAnalysis("", time.Millisecond, errors.New("bad image"))
	analysis.RecordSideEffectFailure("publish")
	httpMetrics.RecordRejected("stylesage-api", "rate_limited")

	rec := httptest.NewRecorder()
	httpMetrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()

	for _, want := range []string{
		`stylesage_http_requests_total{method="GET",path="/v1/analyses/{analysis_id}",service="stylesage-api",status="404"} 1`,
		`stylesage_analysis_total{service="stylesage-api",status="success"} 1`,
		`stylesage_analysis_total{service="stylesage-api",status="error"} 1`,
		`stylesage_analysis_palette_total{palette="Soft / Earthy",service="stylesage-api"} 1`,
		`stylesage_analysis_side_effect_failures_total{effect="publish",service="stylesage-api"} 1`,
		`stylesage_http_rejected_total{reason="rate_limited",service="stylesage-api"} 1`,
		`stylesage_analysis_in_flight{service="stylesage-api"} 0`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected metrics output to contain %q\n%s", want, body)
		}
	}
}
