// Package rating decides when the game may ask the player for a store
// review. Thresholds live in a Policy value and each gate is a named entry
// in an explicit trigger table, so tuning is a config change, not a code
// change.
package rating

import "time"

// Policy holds the thresholds a snapshot must clear before a rating prompt
// is allowed. The zero value blocks nothing; use DefaultPolicy for the
// shipped tuning.
type Policy struct {
	MinSessions      int  `yaml:"min_sessions" json:"min_sessions"`
	MinDaysInstalled int  `yaml:"min_days_installed" json:"min_days_installed"`
	CooldownDays     int  `yaml:"cooldown_days" json:"cooldown_days"`
	MaxPrompts       int  `yaml:"max_prompts" json:"max_prompts"` // lifetime cap, 0 = unlimited
	MaxCrashes       int  `yaml:"max_crashes" json:"max_crashes"` // crashes tolerated in the current window
	MaxLaunchMillis  int  `yaml:"max_launch_millis" json:"max_launch_millis"` // 0 = no launch-time gate
	OncePerVersion   bool `yaml:"once_per_version" json:"once_per_version"`
}

// DefaultPolicy returns the shipped prompt tuning.
func DefaultPolicy() Policy {
	return Policy{
		MinSessions:      10,
		MinDaysInstalled: 3,
		CooldownDays:     60,
		MaxPrompts:       3,
		MaxCrashes:       0,
		MaxLaunchMillis:  4000,
		OncePerVersion:   true,
	}
}

// Snapshot is the per-install state a trigger predicate sees. The game
// client reports it; the CLI also tracks one locally for testing tuning.
type Snapshot struct {
	Sessions          int        `yaml:"sessions" json:"sessions"`
	InstalledAt       time.Time  `yaml:"installed_at" json:"installed_at"`
	Prompts           int        `yaml:"prompts" json:"prompts"`
	LastPromptAt      *time.Time `yaml:"last_prompt_at,omitempty" json:"last_prompt_at,omitempty"`
	LastPromptVersion string     `yaml:"last_prompt_version,omitempty" json:"last_prompt_version,omitempty"`
	Crashes           int        `yaml:"crashes" json:"crashes"`
	AvgLaunchMillis   int        `yaml:"avg_launch_millis" json:"avg_launch_millis"`
	AppVersion        string     `yaml:"app_version" json:"app_version"`
}

// Decision is the outcome of evaluating a snapshot against a policy.
// BlockedBy lists the name of every trigger that failed, so the client can
// log why a prompt was withheld.
type Decision struct {
	Prompt    bool     `json:"prompt"`
	BlockedBy []string `json:"blocked_by,omitempty"`
}

// trigger is one row of the policy table: a named predicate that must pass
// for the prompt to fire.
type trigger struct {
	name string
	pass func(p Policy, s Snapshot, now time.Time) bool
}

var triggers = []trigger{
	{
		name: "min_sessions",
		pass: func(p Policy, s Snapshot, _ time.Time) bool {
			return s.Sessions >= p.MinSessions
		},
	},
	{
		name: "min_days_installed",
		pass: func(p Policy, s Snapshot, now time.Time) bool {
			if p.MinDaysInstalled == 0 {
				return true
			}
			if s.InstalledAt.IsZero() {
				return false
			}
			return now.Sub(s.InstalledAt) >= days(p.MinDaysInstalled)
		},
	},
	{
		name: "cooldown",
		pass: func(p Policy, s Snapshot, now time.Time) bool {
			if s.LastPromptAt == nil {
				return true
			}
			return now.Sub(*s.LastPromptAt) >= days(p.CooldownDays)
		},
	},
	{
		name: "prompt_cap",
		pass: func(p Policy, s Snapshot, _ time.Time) bool {
			return p.MaxPrompts == 0 || s.Prompts < p.MaxPrompts
		},
	},
	{
		name: "crash_free",
		pass: func(p Policy, s Snapshot, _ time.Time) bool {
			return s.Crashes <= p.MaxCrashes
		},
	},
	{
		name: "launch_time",
		pass: func(p Policy, s Snapshot, _ time.Time) bool {
			if p.MaxLaunchMillis == 0 || s.AvgLaunchMillis == 0 {
				return true
			}
			return s.AvgLaunchMillis <= p.MaxLaunchMillis
		},
	},
	{
		name: "once_per_version",
		pass: func(p Policy, s Snapshot, _ time.Time) bool {
			if !p.OncePerVersion || s.LastPromptVersion == "" {
				return true
			}
			return s.LastPromptVersion != s.AppVersion
		},
	},
}

// Evaluate runs the snapshot through the trigger table. Pure: same inputs,
// same decision.
func Evaluate(p Policy, s Snapshot, now time.Time) Decision {
	var blocked []string
	for _, tr := range triggers {
		if !tr.pass(p, s, now) {
			blocked = append(blocked, tr.name)
		}
	}
	return Decision{Prompt: len(blocked) == 0, BlockedBy: blocked}
}

func days(n int) time.Duration {
	return time.Duration(n) * 24 * time.Hour
}
