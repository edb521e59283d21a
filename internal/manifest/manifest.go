// Package manifest loads and validates the release manifest the game
// clients are steered by: per-platform latest and minimum supported
// versions plus store links.
package manifest

import (
	"bytes"
	"context"
	"encoding/json"
	_ "embed"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed manifest.schema.json
var schemaText string

// Platform describes one app-store target.
type Platform struct {
	Latest   string `json:"latest"`
	Minimum  string `json:"minimum"`
	StoreURL string `json:"store_url,omitempty"`
	NotesURL string `json:"notes_url,omitempty"`
}

// Manifest is the release manifest payload.
type Manifest struct {
	SchemaVersion int                 `json:"schema_version"`
	UpdatedAt     time.Time           `json:"updated_at,omitempty"`
	Platforms     map[string]Platform `json:"platforms"`
}

// Platform returns the entry for the named platform.
func (m *Manifest) Platform(name string) (Platform, error) {
	p, ok := m.Platforms[name]
	if !ok {
		return Platform{}, fmt.Errorf("manifest has no platform %q", name)
	}
	return p, nil
}

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader([]byte(schemaText)))
		if err != nil {
			schemaErr = fmt.Errorf("parse embedded schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource("manifest.schema.json", doc); err != nil {
			schemaErr = fmt.Errorf("add schema resource: %w", err)
			return
		}
		schema, schemaErr = c.Compile("manifest.schema.json")
	})
	return schema, schemaErr
}

// Parse validates raw manifest bytes against the embedded JSON Schema and
// decodes them. Schema violations fail the parse; a manifest that steered
// clients to a malformed version string would break every update check
// downstream.
func Parse(data []byte) (*Manifest, error) {
	sch, err := compiledSchema()
	if err != nil {
		return nil, err
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse manifest JSON: %w", err)
	}
	if err := sch.Validate(inst); err != nil {
		return nil, fmt.Errorf("manifest failed schema validation: %w", err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	return &m, nil
}

// Load reads and parses a manifest file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", path, err)
	}
	return Parse(data)
}

// Fetch downloads and parses a manifest from url. The caller owns the
// client so tests and the daemon can set their own timeouts.
func Fetch(ctx context.Context, client *http.Client, url string) (*Manifest, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch manifest: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("manifest endpoint returned %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read manifest body: %w", err)
	}
	return Parse(data)
}
