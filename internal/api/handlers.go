package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/JoseGzz/car-accident-clusters/internal/analysis"
	"github.com/JoseGzz/car-accident-clusters/internal/cluster"
	"github.com/JoseGzz/car-accident-clusters/internal/httputil"
)

// handleAnalyze runs a clustering analysis. The body is a JSON request
// object; an empty body runs with configured defaults over the default
// window.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httputil.MethodNotAllowed(w)
		return
	}

	var req analysis.Request
	body, err := io.ReadAll(r.Body)
	if err != nil {
		httputil.BadRequest(w, "failed to read request body")
		return
	}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			httputil.BadRequest(w, fmt.Sprintf("invalid request body: %v", err))
			return
		}
	}

	result, err := s.analyzer.Analyze(req)
	if err != nil {
		var pe *cluster.ParamError
		if errors.As(err, &pe) {
			httputil.BadRequest(w, pe.Error())
			return
		}
		httputil.InternalServerError(w, fmt.Sprintf("analysis failed: %v", err))
		return
	}

	httputil.WriteJSONOK(w, result)
}

// recordsSummary describes the loaded dataset.
type recordsSummary struct {
	Count  int    `json:"count"`
	Source string `json:"source"`
	First  string `json:"first,omitempty"`
	Last   string `json:"last,omitempty"`
}

func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	snapshot := s.store.Snapshot()
	summary := recordsSummary{
		Count:  len(snapshot),
		Source: s.store.Source(),
	}
	if len(snapshot) > 0 {
		first, last := snapshot[0].Date, snapshot[0].Date
		for _, rec := range snapshot[1:] {
			if rec.Date.Before(first) {
				first = rec.Date
			}
			if rec.Date.After(last) {
				last = rec.Date
			}
		}
		summary.First = first.Format(time.RFC3339)
		summary.Last = last.Format(time.RFC3339)
	}

	httputil.WriteJSONOK(w, summary)
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httputil.MethodNotAllowed(w)
		return
	}

	count, err := s.store.Reload()
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("reload failed: %v", err))
		return
	}

	httputil.WriteJSONOK(w, map[string]int{"count": count})
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	httputil.WriteJSONOK(w, map[string]interface{}{
		"default_epsilon_meters": s.cfg.GetDefaultEpsilonMeters(),
		"default_min_points":     s.cfg.GetDefaultMinPoints(),
		"default_year":           s.cfg.GetDefaultYear(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	io.WriteString(w, "ok")
}
