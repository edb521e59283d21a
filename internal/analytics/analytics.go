// Package analytics reports product events to PostHog. Capture is opt-in
// via settings and every call degrades to a no-op when disabled, so callers
// never branch on telemetry state.
package analytics

import (
	"log"

	"github.com/posthog/posthog-go"

	"github.com/wordfall-io/wordfall/internal/models"
)

// Event names captured by the support service.
const (
	EventUpdateCheck  = "update_check"
	EventRatingPrompt = "rating_prompt"
)

// Client wraps a PostHog client keyed by the persisted install ID.
// The zero value (and a disabled config) is a no-op client.
type Client struct {
	ph         posthog.Client
	distinctID string
}

// New creates a client from telemetry settings. Returns a no-op client when
// telemetry is disabled or no API key is configured.
func New(cfg models.TelemetryConfig) *Client {
	if !cfg.Enabled || cfg.APIKey == "" {
		return &Client{}
	}

	phCfg := posthog.Config{}
	if cfg.Endpoint != "" {
		phCfg.Endpoint = cfg.Endpoint
	}

	ph, err := posthog.NewWithConfig(cfg.APIKey, phCfg)
	if err != nil {
		log.Printf("[analytics] disabled: %v", err)
		return &Client{}
	}

	return &Client{ph: ph, distinctID: cfg.InstallID}
}

// Capture enqueues one event with the given properties. Delivery is
// best-effort; failures are logged, never surfaced.
func (c *Client) Capture(event string, props map[string]any) {
	if c == nil || c.ph == nil {
		return
	}

	p := posthog.NewProperties()
	for k, v := range props {
		p.Set(k, v)
	}

	err := c.ph.Enqueue(posthog.Capture{
		DistinctId: c.distinctID,
		Event:      event,
		Properties: p,
	})
	if err != nil {
		log.Printf("[analytics] capture %s: %v", event, err)
	}
}

// Close flushes pending events.
func (c *Client) Close() {
	if c == nil || c.ph == nil {
		return
	}
	if err := c.ph.Close(); err != nil {
		log.Printf("[analytics] close: %v", err)
	}
}
