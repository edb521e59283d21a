package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/wordfall-io/wordfall/internal/analytics"
	"github.com/wordfall-io/wordfall/internal/buildinfo"
	"github.com/wordfall-io/wordfall/internal/rating"
	"github.com/wordfall-io/wordfall/internal/update"
	"github.com/wordfall-io/wordfall/internal/version"
	"github.com/wordfall-io/wordfall/internal/wordlist"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

type healthResponse struct {
	Status           string     `json:"status"`
	Version          string     `json:"version"`
	ManifestLoaded   bool       `json:"manifest_loaded"`
	ManifestLoadedAt *time.Time `json:"manifest_loaded_at,omitempty"`
	LastReloadError  string     `json:"last_reload_error,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	resp := healthResponse{
		Status:         "ok",
		Version:        buildinfo.Version,
		ManifestLoaded: s.manifest != nil,
	}
	if !s.loadedAt.IsZero() {
		t := s.loadedAt
		resp.ManifestLoadedAt = &t
	}
	if s.lastReload != nil {
		resp.LastReloadError = s.lastReload.Error()
	}
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateCheck(w http.ResponseWriter, r *http.Request) {
	platform := r.URL.Query().Get("platform")
	current := r.URL.Query().Get("current")
	if platform == "" || current == "" {
		writeError(w, http.StatusBadRequest, "platform and current query parameters are required")
		return
	}

	m := s.currentManifest()
	if m == nil {
		writeError(w, http.StatusServiceUnavailable, "release manifest not loaded")
		return
	}

	res, err := update.Resolve(m, platform, current)
	if err != nil {
		status := http.StatusNotFound
		if errors.Is(err, version.ErrMalformed) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err.Error())
		return
	}

	s.analytics.Capture(analytics.EventUpdateCheck, map[string]any{
		"platform":         res.Platform,
		"current":          res.Current,
		"update_available": res.Available,
		"update_required":  res.Required,
	})

	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleRatingEvaluate(w http.ResponseWriter, r *http.Request) {
	var snap rating.Snapshot
	if err := json.NewDecoder(r.Body).Decode(&snap); err != nil {
		writeError(w, http.StatusBadRequest, "invalid snapshot body: "+err.Error())
		return
	}

	s.mu.RLock()
	policy := s.settings.Rating
	s.mu.RUnlock()

	decision := rating.Evaluate(policy, snap, time.Now().UTC())

	s.analytics.Capture(analytics.EventRatingPrompt, map[string]any{
		"prompt":     decision.Prompt,
		"blocked_by": decision.BlockedBy,
		"sessions":   snap.Sessions,
	})

	writeJSON(w, http.StatusOK, decision)
}

type wordCheckResponse struct {
	Word  string `json:"word"`
	Valid bool   `json:"valid"`
}

func (s *Server) handleWordsCheck(w http.ResponseWriter, r *http.Request) {
	word := r.URL.Query().Get("word")
	if word == "" {
		writeError(w, http.StatusBadRequest, "word query parameter is required")
		return
	}
	writeJSON(w, http.StatusOK, wordCheckResponse{Word: word, Valid: wordlist.Contains(word)})
}

type wordRandomResponse struct {
	Word string `json:"word"`
}

func (s *Server) handleWordsRandom(w http.ResponseWriter, r *http.Request) {
	length := 5
	if raw := r.URL.Query().Get("length"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "length must be a positive integer")
			return
		}
		length = n
	}

	word := wordlist.Random(length)
	if word == "" {
		writeError(w, http.StatusNotFound, "no words of length "+strconv.Itoa(length))
		return
	}
	writeJSON(w, http.StatusOK, wordRandomResponse{Word: word})
}
