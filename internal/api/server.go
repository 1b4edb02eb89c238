// Package api exposes the clustering analysis over HTTP.
package api

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/JoseGzz/car-accident-clusters/internal/analysis"
	"github.com/JoseGzz/car-accident-clusters/internal/config"
	"github.com/JoseGzz/car-accident-clusters/internal/records"
)

// ANSI escape codes for request log colouring
const (
	colorCyan      = "\033[36m"
	colorReset     = "\033[0m"
	colorYellow    = "\033[33m"
	colorBoldGreen = "\033[1;32m"
	colorBoldRed   = "\033[1;31m"
)

// Server holds the handler dependencies.
type Server struct {
	store    *records.Store
	analyzer *analysis.Analyzer
	cfg      *config.Analysis
}

// NewServer creates an API server over the given store and analyzer.
func NewServer(store *records.Store, analyzer *analysis.Analyzer, cfg *config.Analysis) *Server {
	return &Server{
		store:    store,
		analyzer: analyzer,
		cfg:      cfg,
	}
}

// ServeMux returns the API route table.
func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/analyze", s.handleAnalyze)
	mux.HandleFunc("/api/records", s.handleRecords)
	mux.HandleFunc("/api/records/reload", s.handleReload)
	mux.HandleFunc("/api/config", s.handleConfig)
	mux.HandleFunc("/healthz", s.handleHealth)
	return mux
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func statusCodeColor(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return colorBoldGreen + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 300 && statusCode < 400:
		return colorYellow + strconv.Itoa(statusCode) + colorReset
	default:
		return colorBoldRed + strconv.Itoa(statusCode) + colorReset
	}
}

// LoggingMiddleware logs request id, method, path, status, and duration.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqID := uuid.NewString()
		lrw := &loggingResponseWriter{w, http.StatusOK}
		next.ServeHTTP(lrw, r)
		log.Printf(
			"[%s] %s %s %s%s%s %vms",
			statusCodeColor(lrw.statusCode), reqID[:8], r.Method,
			colorCyan, r.RequestURI, colorReset,
			float64(time.Since(start).Nanoseconds())/1e6,
		)
	})
}
