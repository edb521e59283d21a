// Package update turns the release manifest and a client's current version
// into an update decision.
package update

import (
	"github.com/wordfall-io/wordfall/internal/version"
)

// Decision is the verdict for one update check. Computed fresh per check,
// never persisted.
type Decision struct {
	Current   string `json:"current"`
	Latest    string `json:"latest"`
	Minimum   string `json:"minimum"`
	Available bool   `json:"update_available"` // current < latest
	Required  bool   `json:"update_required"`  // current < minimum
}

// Decide compares current against latest and minimum. The two comparisons
// are independent; no ordering between latest and minimum is assumed.
func Decide(current, latest, minimum string) (Decision, error) {
	d := Decision{Current: current, Latest: latest, Minimum: minimum}

	cmpLatest, err := version.Compare(current, latest)
	if err != nil {
		return Decision{}, err
	}
	d.Available = cmpLatest < 0

	cmpMin, err := version.Compare(current, minimum)
	if err != nil {
		return Decision{}, err
	}
	d.Required = cmpMin < 0

	return d, nil
}
