// Package server implements the HTTP API the game clients call for update
// checks, rating-prompt decisions, and word lookups.
package server

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/wordfall-io/wordfall/internal/analytics"
	"github.com/wordfall-io/wordfall/internal/config"
	"github.com/wordfall-io/wordfall/internal/daemon/watcher"
	"github.com/wordfall-io/wordfall/internal/manifest"
	"github.com/wordfall-io/wordfall/internal/models"
)

// refreshInterval is how often a URL-sourced manifest is re-fetched.
const refreshInterval = 15 * time.Minute

// Server is the daemon's HTTP server.
type Server struct {
	httpServer *http.Server
	listener   net.Listener
	port       int

	settings  *models.Settings
	analytics *analytics.Client
	watcher   *watcher.Watcher

	mu         sync.RWMutex
	manifest   *manifest.Manifest
	loadedAt   time.Time
	lastReload error

	done chan struct{}
}

// New creates a new server listening on the configured host/port.
// Pass port 0 for dynamic allocation.
func New(settings *models.Settings) (*Server, error) {
	addr := fmt.Sprintf("%s:%d", settings.Server.Host, settings.Server.Port)
	listener, err := (&net.ListenConfig{}).Listen(context.TODO(), "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen: %w", err)
	}

	// Get actual port if dynamically allocated
	actualPort := listener.Addr().(*net.TCPAddr).Port

	srv := &Server{
		listener:  listener,
		port:      actualPort,
		settings:  settings,
		analytics: analytics.New(settings.Telemetry),
		done:      make(chan struct{}),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/health", srv.handleHealth)
	mux.HandleFunc("GET /v1/update-check", srv.handleUpdateCheck)
	mux.HandleFunc("POST /v1/rating/evaluate", srv.handleRatingEvaluate)
	mux.HandleFunc("GET /v1/words/check", srv.handleWordsCheck)
	mux.HandleFunc("GET /v1/words/random", srv.handleWordsRandom)

	srv.httpServer = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	if err := srv.loadManifest(); err != nil {
		// Serve anyway; update-check returns 503 until a manifest loads.
		log.Printf("[manifest] initial load failed: %v", err)
	}

	if err := srv.startManifestReload(); err != nil {
		listener.Close()
		return nil, err
	}

	return srv, nil
}

// Port returns the port the server is listening on.
func (s *Server) Port() int {
	return s.port
}

// Serve starts serving requests. This blocks until Stop is called.
func (s *Server) Serve() error {
	err := s.httpServer.Serve(s.listener)
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Stop gracefully shuts the server down.
func (s *Server) Stop() {
	close(s.done)
	if s.watcher != nil {
		s.watcher.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown: %v", err)
	}

	s.analytics.Close()
}

// currentManifest returns the manifest being served, or nil if none loaded.
func (s *Server) currentManifest() *manifest.Manifest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.manifest
}

// manifestPath resolves the manifest file location from settings, falling
// back to ~/.wordfall/manifest.json.
func (s *Server) manifestPath() (string, error) {
	if p := s.settings.Manifest.Path; p != "" {
		return p, nil
	}
	return config.GlobalManifestFile()
}

// loadManifest reads the manifest file, verifies its signature when a key
// is configured, and swaps it in.
func (s *Server) loadManifest() error {
	path, err := s.manifestPath()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return s.fetchManifest()
	}

	if key := s.settings.Manifest.MinisignKey; key != "" {
		if err := manifest.VerifySignature(data, path+".minisig", key); err != nil {
			s.recordReload(err)
			return fmt.Errorf("refusing manifest %s: %w", path, err)
		}
	}

	m, err := manifest.Parse(data)
	if err != nil {
		s.recordReload(err)
		return err
	}

	s.mu.Lock()
	s.manifest = m
	s.loadedAt = time.Now().UTC()
	s.lastReload = nil
	s.mu.Unlock()

	log.Printf("[manifest] loaded %s (%d platforms)", path, len(m.Platforms))
	return nil
}

// fetchManifest pulls the manifest from the configured URL.
func (s *Server) fetchManifest() error {
	url := s.settings.Manifest.URL
	if url == "" {
		err := fmt.Errorf("no manifest file and no manifest URL configured")
		s.recordReload(err)
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	m, err := manifest.Fetch(ctx, &http.Client{Timeout: 10 * time.Second}, url)
	if err != nil {
		s.recordReload(err)
		return err
	}

	s.mu.Lock()
	s.manifest = m
	s.loadedAt = time.Now().UTC()
	s.lastReload = nil
	s.mu.Unlock()

	log.Printf("[manifest] fetched %s (%d platforms)", url, len(m.Platforms))
	return nil
}

func (s *Server) recordReload(err error) {
	s.mu.Lock()
	s.lastReload = err
	s.mu.Unlock()
}

// startManifestReload wires the fsnotify watcher for a file-backed
// manifest and a periodic refresh for a URL-backed one.
func (s *Server) startManifestReload() error {
	path, err := s.manifestPath()
	if err != nil {
		return err
	}

	w, err := watcher.New()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	s.watcher = w

	if err := w.Start(); err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	if err := w.WatchManifest(path); err != nil {
		log.Printf("[manifest] watch %s: %v", path, err)
	}

	go func() {
		ticker := time.NewTicker(refreshInterval)
		defer ticker.Stop()
		for {
			select {
			case <-s.done:
				return
			case ev := <-w.Events():
				switch ev.Type {
				case watcher.EventManifestChanged:
					if err := s.loadManifest(); err != nil {
						log.Printf("[manifest] reload failed: %v", err)
					}
				case watcher.EventSettingsChanged:
					s.reloadSettings()
				}
			case <-ticker.C:
				// Keep URL-sourced manifests fresh; file-backed ones
				// reload via the watcher and this is a cheap no-op read.
				if err := s.loadManifest(); err != nil {
					log.Printf("[manifest] refresh failed: %v", err)
				}
			}
		}
	}()

	return nil
}

// reloadSettings re-reads settings.yaml so rating-policy tuning takes
// effect without a restart. Listen address changes still need one.
func (s *Server) reloadSettings() {
	fresh, err := config.LoadSettings()
	if err != nil {
		log.Printf("[settings] reload failed: %v", err)
		return
	}

	s.mu.Lock()
	s.settings.Rating = fresh.Rating
	s.settings.Manifest = fresh.Manifest
	s.mu.Unlock()

	log.Printf("[settings] reloaded")
}
