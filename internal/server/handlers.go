package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/MarcosHerrera95/buscapro/internal/cache"
	"github.com/MarcosHerrera95/buscapro/internal/models"
	"github.com/MarcosHerrera95/buscapro/internal/search"
)

// searchEnvelope is the wire shape of a successful search response.
type searchEnvelope struct {
	Success bool                 `json:"success"`
	Data    *models.SearchResult `json:"data"`
	Meta    models.ResponseMeta  `json:"meta"`
}

type errorEnvelope struct {
	Success       bool   `json:"success"`
	Error         string `json:"error"`
	CorrelationID string `json:"correlation_id,omitempty"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var raw models.RawSearchInput
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		s.respondJSON(w, http.StatusBadRequest, errorEnvelope{Error: "invalid request body"})
		return
	}
	s.logger.Debug("search request", zap.String("keyword", raw.Keyword), zap.String("city", raw.City))

	resp, err := s.engine.Search(r.Context(), &raw)
	if err != nil {
		s.respondSearchError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, searchEnvelope{Success: true, Data: resp.Result, Meta: resp.Meta})
}

// respondSearchError maps the error taxonomy onto the wire: validation
// failures are caller-correctable, everything else is an opaque temporary
// failure carrying only a correlation ID.
func (s *Server) respondSearchError(w http.ResponseWriter, err error) {
	var serr *search.Error
	if errors.As(err, &serr) && serr.Kind == search.ErrKindValidation {
		s.respondJSON(w, http.StatusBadRequest, errorEnvelope{Error: "invalid search input"})
		return
	}
	env := errorEnvelope{Error: "search temporarily unavailable"}
	if serr != nil {
		env.CorrelationID = serr.CorrelationID
	}
	s.respondJSON(w, http.StatusServiceUnavailable, env)
}

func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	suggestions, err := s.engine.Suggest(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.respondSearchError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"success": true, "data": suggestions})
}

func (s *Server) handleRealtimeMetrics(w http.ResponseWriter, r *http.Request) {
	period := 5 * time.Minute
	if p := r.URL.Query().Get("period"); p != "" {
		if parsed, err := time.ParseDuration(p); err == nil && parsed > 0 {
			period = parsed
		}
	}
	s.respondJSON(w, http.StatusOK, s.collector.RealtimeMetrics(period))
}

type invalidateRequest struct {
	Pattern     string `json:"pattern"`
	ContentType string `json:"content_type"`
}

func (s *Server) handleInvalidate(w http.ResponseWriter, r *http.Request) {
	var req invalidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondJSON(w, http.StatusBadRequest, errorEnvelope{Error: "invalid request body"})
		return
	}
	if req.Pattern == "" {
		s.respondJSON(w, http.StatusBadRequest, errorEnvelope{Error: "pattern is required"})
		return
	}
	ct := cache.ContentSearchResults
	if req.ContentType == string(cache.ContentSuggestions) {
		ct = cache.ContentSuggestions
	}
	s.logger.Debug("cache invalidation request", zap.String("pattern", req.Pattern), zap.String("content_type", string(ct)))
	s.engine.InvalidateResults(r.Context(), req.Pattern, ct)
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "invalidated"})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", zap.Error(err))
	}
}
