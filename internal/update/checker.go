package update

import (
	"context"
	"net/http"
	"time"

	"github.com/wordfall-io/wordfall/internal/manifest"
)

// Check frequencies accepted in settings.
const (
	FrequencyEveryLaunch = "every_launch"
	FrequencyDaily       = "daily"
	FrequencyWeekly      = "weekly"
)

// Result is a Decision plus the store metadata the client needs to act on
// it.
type Result struct {
	Decision
	Platform string `json:"platform"`
	StoreURL string `json:"store_url,omitempty"`
	NotesURL string `json:"notes_url,omitempty"`
}

// Checker resolves update decisions against a release manifest endpoint.
type Checker struct {
	url        string
	httpClient *http.Client
}

// NewChecker returns a Checker for the given manifest URL.
func NewChecker(url string) *Checker {
	return &Checker{
		url: url,
		httpClient: &http.Client{
			Timeout: 3 * time.Second,
		},
	}
}

// Check fetches the manifest and decides for the given platform and
// current version.
func (c *Checker) Check(ctx context.Context, platform, current string) (*Result, error) {
	m, err := manifest.Fetch(ctx, c.httpClient, c.url)
	if err != nil {
		return nil, err
	}
	return Resolve(m, platform, current)
}

// Resolve decides against an already-loaded manifest.
func Resolve(m *manifest.Manifest, platform, current string) (*Result, error) {
	p, err := m.Platform(platform)
	if err != nil {
		return nil, err
	}

	d, err := Decide(current, p.Latest, p.Minimum)
	if err != nil {
		return nil, err
	}

	return &Result{
		Decision: d,
		Platform: platform,
		StoreURL: p.StoreURL,
		NotesURL: p.NotesURL,
	}, nil
}

// ShouldCheck reports whether a startup check is due under the configured
// frequency. Unknown frequencies check every launch.
func ShouldCheck(frequency string, lastChecked *time.Time, now time.Time) bool {
	if lastChecked == nil {
		return true
	}
	since := now.Sub(*lastChecked)
	switch frequency {
	case FrequencyDaily:
		return since >= 24*time.Hour
	case FrequencyWeekly:
		return since >= 7*24*time.Hour
	default:
		return true
	}
}
