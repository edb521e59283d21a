package config

import (
	"github.com/wordfall-io/wordfall/internal/rating"
)

// LoadRatingState loads the local rating snapshot from ~/.wordfall/rating.yaml.
// If the file doesn't exist, returns an empty snapshot.
func LoadRatingState() (*rating.Snapshot, error) {
	path, err := GlobalRatingFile()
	if err != nil {
		return nil, err
	}
	return LoadYAMLOrDefault(path, func() *rating.Snapshot { return &rating.Snapshot{} })
}

// SaveRatingState saves the rating snapshot to ~/.wordfall/rating.yaml.
func SaveRatingState(state *rating.Snapshot) error {
	path, err := GlobalRatingFile()
	if err != nil {
		return err
	}
	return SaveYAML(path, state)
}
