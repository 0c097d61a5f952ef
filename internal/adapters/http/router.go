package httpadapter

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/kirillkom/style-sage/api"
	"github.com/kirillkom/style-sage/internal/config"
	"github.com/kirillkom/style-sage/internal/core/ports"
	"github.com/kirillkom/style-sage/internal/observability/metrics"
)

const (
	serviceName = "stylesage-api"

	imageField  = "image"
	surveyField = "survey_json"

	analysisIDHeader = "X-Analysis-Id"
)

type Router struct {
	cfg      config.Config
	analyzer ports.StyleAnalyzer
	reader   ports.AnalysisReader
	metrics  *metrics.HTTPServerMetrics
}

func NewRouter(
	cfg config.Config,
	analyzer ports.StyleAnalyzer,
	reader ports.AnalysisReader,
	httpMetrics *metrics.HTTPServerMetrics,
) *Router {
	return &Router{
		cfg:      cfg,
		analyzer: analyzer,
		reader:   reader,
		metrics:  httpMetrics,
	}
}

func (rt *Router) Handler() http.Handler {
	endpoints := http.NewServeMux()
	endpoints.HandleFunc("POST /analyze", rt.analyze)
	endpoints.HandleFunc("GET /v1/analyses/{id}", rt.getAnalysisByID)

	var guarded http.Handler = endpoints
	guarded = backpressureMiddleware(guarded, rt.cfg.APIMaxInFlight, time.Duration(rt.cfg.APIQueueWaitMS)*time.Millisecond)
	guarded = rateLimitMiddleware(guarded, rt.cfg.APIRateLimitRPS, rt.cfg.APIRateLimitBurst)
	if rt.metrics != nil {
		guarded = rejectionMetricsMiddleware(rt.metrics, guarded)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", rt.health)
	mux.HandleFunc("GET /healthz", rt.health)
	mux.HandleFunc("GET /openapi.yaml", rt.openAPI)
	if rt.metrics != nil {
		mux.Handle("GET /metrics", rt.metrics.Handler())
	}
	mux.Handle("/", guarded)

	var handler http.Handler = mux
	handler = corsMiddleware(handler, rt.cfg.CORSAllowedOrigins)
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(serviceName, handler)
	}
	handler = accessLogMiddleware(handler)
	return requestIDMiddleware(handler)
}

func (rt *Router) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) openAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(api.Spec)
}

func (rt *Router) analyze(w http.ResponseWriter, r *http.Request) {
	maxBytes := int64(rt.cfg.MaxUploadMB) << 20
	if maxBytes <= 0 {
		maxBytes = 10 << 20
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	if err := r.ParseMultipartForm(maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "upload exceeds size limit")
			return
		}
		writeError(w, http.StatusBadRequest, "multipart form with 'image' and 'survey_json' is required")
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, fileHeader, err := r.FormFile(imageField)
	if err != nil {
		writeError(w, http.StatusBadRequest, "multipart field 'image' is required")
		return
	}
	defer file.Close()

	surveyJSON := r.FormValue(surveyField)
	if strings.TrimSpace(surveyJSON) == "" {
		writeError(w, http.StatusBadRequest, "multipart field 'survey_json' is required")
		return
	}

	result, id, err := rt.analyzer.Analyze(r.Context(), fileHeader.Filename, file, surveyJSON)
	if err != nil {
		status := mapErrorToHTTPStatus(err)
		if status >= http.StatusInternalServerError {
			slog.Error("analyze_failed", "request_id", requestIDFromContext(r.Context()), "error", err)
		}
		writeError(w, status, err.Error())
		return
	}

	w.Header().Set(analysisIDHeader, id)
	writeJSON(w, http.StatusOK, result)
}

func (rt *Router) getAnalysisByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		writeError(w, http.StatusBadRequest, "analysis id is required")
		return
	}

	record, err := rt.reader.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, mapErrorToHTTPStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
