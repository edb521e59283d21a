package update

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const testManifest = `{
  "schema_version": 1,
  "platforms": {
    "ios": {
      "latest": "1.4.2",
      "minimum": "1.2.0",
      "store_url": "https://apps.apple.com/app/id000000000"
    }
  }
}`

func TestCheckerCheck(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(testManifest))
	}))
	defer srv.Close()

	c := NewChecker(srv.URL)

	res, err := c.Check(context.Background(), "ios", "1.3.0")
	if err != nil {
		t.Fatalf("Check: %v", err)
	}

	if !res.Available {
		t.Error("Available = false, want true")
	}
	if res.Required {
		t.Error("Required = true, want false")
	}
	if res.Latest != "1.4.2" {
		t.Errorf("Latest = %q, want %q", res.Latest, "1.4.2")
	}
	if res.StoreURL == "" {
		t.Error("StoreURL is empty")
	}
}

func TestCheckerUnknownPlatform(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(testManifest))
	}))
	defer srv.Close()

	if _, err := NewChecker(srv.URL).Check(context.Background(), "android", "1.0.0"); err == nil {
		t.Error("Check: want error for unknown platform, got nil")
	}
}

func TestCheckerEndpointDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	if _, err := NewChecker(srv.URL).Check(context.Background(), "ios", "1.0.0"); err == nil {
		t.Error("Check: want error, got nil")
	}
}

func TestShouldCheck(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	hourAgo := now.Add(-time.Hour)
	twoDaysAgo := now.Add(-48 * time.Hour)
	eightDaysAgo := now.Add(-8 * 24 * time.Hour)

	tests := []struct {
		name      string
		frequency string
		last      *time.Time
		want      bool
	}{
		{"never checked", FrequencyWeekly, nil, true},
		{"every launch", FrequencyEveryLaunch, &hourAgo, true},
		{"daily too soon", FrequencyDaily, &hourAgo, false},
		{"daily due", FrequencyDaily, &twoDaysAgo, true},
		{"weekly too soon", FrequencyWeekly, &twoDaysAgo, false},
		{"weekly due", FrequencyWeekly, &eightDaysAgo, true},
		{"unknown frequency checks", "hourly", &hourAgo, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShouldCheck(tt.frequency, tt.last, now); got != tt.want {
				t.Errorf("ShouldCheck(%q) = %v, want %v", tt.frequency, got, tt.want)
			}
		})
	}
}
