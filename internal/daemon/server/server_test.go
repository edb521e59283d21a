package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/wordfall-io/wordfall/internal/analytics"
	"github.com/wordfall-io/wordfall/internal/config"
	"github.com/wordfall-io/wordfall/internal/manifest"
	"github.com/wordfall-io/wordfall/internal/models"
	"github.com/wordfall-io/wordfall/internal/rating"
	"github.com/wordfall-io/wordfall/internal/update"
)

const testManifest = `{
	"schema_version": 1,
	"platforms": {
		"ios": {
			"latest": "2.4.0",
			"minimum": "2.0.0",
			"store_url": "https://apps.example.com/wordfall"
		},
		"android": {
			"latest": "2.3.5",
			"minimum": "1.9.0"
		}
	}
}`

// newTestServer builds a server with a pre-loaded manifest and telemetry
// disabled, without binding a listener.
func newTestServer(t *testing.T) *Server {
	t.Helper()

	m, err := manifest.Parse([]byte(testManifest))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}

	settings := models.NewSettings()
	return &Server{
		settings:  settings,
		analytics: analytics.New(settings.Telemetry),
		manifest:  m,
		loadedAt:  time.Now().UTC(),
		done:      make(chan struct{}),
	}
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.handleHealth(rec, httptest.NewRequest(http.MethodGet, "/v1/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var got healthResponse
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if got.Status != "ok" {
		t.Errorf("expected status ok, got %q", got.Status)
	}
	if !got.ManifestLoaded {
		t.Error("expected manifest_loaded to be true")
	}
}

func TestHandleUpdateCheck(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name       string
		query      string
		wantStatus int
	}{
		{"update available and required", "platform=ios&current=1.5.0", http.StatusOK},
		{"up to date", "platform=ios&current=2.4.0", http.StatusOK},
		{"missing platform", "current=1.0.0", http.StatusBadRequest},
		{"missing current", "platform=ios", http.StatusBadRequest},
		{"unknown platform", "platform=windows&current=1.0.0", http.StatusNotFound},
		{"malformed version", "platform=ios&current=1.x.0", http.StatusBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/v1/update-check?"+tc.query, nil)
			srv.handleUpdateCheck(rec, req)

			if rec.Code != tc.wantStatus {
				t.Fatalf("expected %d, got %d (body %s)", tc.wantStatus, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestHandleUpdateCheckDecision(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/update-check?platform=ios&current=1.5.0", nil)
	srv.handleUpdateCheck(rec, req)

	var got update.Result
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decoding response: %v", err)
	}

	if !got.Available {
		t.Error("expected update to be available for 1.5.0")
	}
	if !got.Required {
		t.Error("expected update to be required below minimum 2.0.0")
	}
	if got.Latest != "2.4.0" {
		t.Errorf("expected latest 2.4.0, got %q", got.Latest)
	}
	if got.StoreURL != "https://apps.example.com/wordfall" {
		t.Errorf("unexpected store_url %q", got.StoreURL)
	}
}

func TestHandleUpdateCheckNoManifest(t *testing.T) {
	srv := newTestServer(t)
	srv.manifest = nil

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/update-check?platform=ios&current=1.0.0", nil)
	srv.handleUpdateCheck(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without a manifest, got %d", rec.Code)
	}
}

func TestHandleRatingEvaluate(t *testing.T) {
	srv := newTestServer(t)

	snap := rating.Snapshot{
		Sessions:        50,
		InstalledAt:     time.Now().UTC().Add(-30 * 24 * time.Hour),
		AvgLaunchMillis: 1200,
		AppVersion:      "2.4.0",
	}
	body, _ := json.Marshal(snap)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/rating/evaluate", strings.NewReader(string(body)))
	srv.handleRatingEvaluate(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body %s)", rec.Code, rec.Body.String())
	}

	var got rating.Decision
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if !got.Prompt {
		t.Errorf("expected prompt=true, blocked by %v", got.BlockedBy)
	}
}

func TestHandleRatingEvaluateBadBody(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/rating/evaluate", strings.NewReader("{not json"))
	srv.handleRatingEvaluate(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid body, got %d", rec.Code)
	}
}

func TestHandleWordsCheck(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name      string
		query     string
		wantCode  int
		wantValid bool
	}{
		{"known word", "word=apple", http.StatusOK, true},
		{"unknown word", "word=zzzzz", http.StatusOK, false},
		{"missing param", "", http.StatusBadRequest, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/v1/words/check?"+tc.query, nil)
			srv.handleWordsCheck(rec, req)

			if rec.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d", tc.wantCode, rec.Code)
			}
			if tc.wantCode != http.StatusOK {
				return
			}
			var got wordCheckResponse
			if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
				t.Fatalf("decoding response: %v", err)
			}
			if got.Valid != tc.wantValid {
				t.Errorf("expected valid=%v for %q", tc.wantValid, got.Word)
			}
		})
	}
}

func TestHandleWordsRandom(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/words/random", nil)
	srv.handleWordsRandom(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var got wordRandomResponse
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(got.Word) != 5 {
		t.Errorf("expected a 5-letter word, got %q", got.Word)
	}
}

func TestHandleWordsRandomBadLength(t *testing.T) {
	srv := newTestServer(t)

	for _, raw := range []string{"0", "-3", "abc"} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/v1/words/random?length="+raw, nil)
		srv.handleWordsRandom(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("length=%q: expected 400, got %d", raw, rec.Code)
		}
	}
}

func TestLoadManifestSwapsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "manifest.json")
	if err := os.WriteFile(path, []byte(testManifest), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	settings := models.NewSettings()
	settings.Manifest.Path = path
	srv := &Server{
		settings:  settings,
		analytics: analytics.New(settings.Telemetry),
		done:      make(chan struct{}),
	}

	if err := srv.loadManifest(); err != nil {
		t.Fatalf("loadManifest: %v", err)
	}
	m := srv.currentManifest()
	if m == nil || m.Platforms["ios"].Latest != "2.4.0" {
		t.Fatalf("initial manifest = %+v, want ios latest 2.4.0", m)
	}

	updated := strings.Replace(testManifest, "2.4.0", "2.5.0", 1)
	if err := os.WriteFile(path, []byte(updated), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	// Same path the watcher event handler takes on a manifest change.
	if err := srv.loadManifest(); err != nil {
		t.Fatalf("loadManifest after rewrite: %v", err)
	}
	m = srv.currentManifest()
	if m.Platforms["ios"].Latest != "2.5.0" {
		t.Errorf("reloaded latest = %q, want 2.5.0", m.Platforms["ios"].Latest)
	}
}

func TestLoadManifestKeepsServingOnBadRewrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "manifest.json")
	if err := os.WriteFile(path, []byte(testManifest), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	settings := models.NewSettings()
	settings.Manifest.Path = path
	srv := &Server{
		settings:  settings,
		analytics: analytics.New(settings.Telemetry),
		done:      make(chan struct{}),
	}

	if err := srv.loadManifest(); err != nil {
		t.Fatalf("loadManifest: %v", err)
	}

	if err := os.WriteFile(path, []byte(`{"platforms":{}}`), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := srv.loadManifest(); err == nil {
		t.Fatal("expected error reloading invalid manifest")
	}

	// The previous manifest stays in service and the failure is visible
	// on the health endpoint.
	if m := srv.currentManifest(); m == nil || m.Platforms["ios"].Latest != "2.4.0" {
		t.Errorf("manifest after bad rewrite = %+v, want the original", m)
	}

	rec := httptest.NewRecorder()
	srv.handleHealth(rec, httptest.NewRequest(http.MethodGet, "/v1/health", nil))
	var health healthResponse
	if err := json.NewDecoder(rec.Body).Decode(&health); err != nil {
		t.Fatalf("decoding health: %v", err)
	}
	if health.LastReloadError == "" {
		t.Error("expected last_reload_error to be set")
	}
}

func TestReloadSettingsAppliesRatingPolicy(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	settings := models.NewSettings()
	srv := &Server{
		settings:  settings,
		analytics: analytics.New(settings.Telemetry),
		done:      make(chan struct{}),
	}

	fresh := models.NewSettings()
	fresh.Rating.MinSessions = 42
	if err := config.SaveSettings(fresh); err != nil {
		t.Fatalf("SaveSettings: %v", err)
	}

	srv.reloadSettings()

	srv.mu.RLock()
	got := srv.settings.Rating.MinSessions
	srv.mu.RUnlock()
	if got != 42 {
		t.Errorf("MinSessions after reload = %d, want 42", got)
	}
}

func TestHandleWordsRandomNoMatch(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/words/random?length=40", nil)
	srv.handleWordsRandom(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for length 40, got %d", rec.Code)
	}
}
