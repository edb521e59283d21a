package rating

import "time"

// launchSampleWeight controls how fast the launch-time average follows new
// samples. 1/8 matches the smoothing the game client uses.
const launchSampleWeight = 8

// RecordSession counts one completed play session.
func (s *Snapshot) RecordSession(now time.Time) {
	if s.InstalledAt.IsZero() {
		s.InstalledAt = now
	}
	s.Sessions++
}

// RecordCrash counts one crash in the current observation window.
func (s *Snapshot) RecordCrash() {
	s.Crashes++
}

// RecordLaunchMillis folds one cold-launch duration into the rolling
// average.
func (s *Snapshot) RecordLaunchMillis(millis int) {
	if millis <= 0 {
		return
	}
	if s.AvgLaunchMillis == 0 {
		s.AvgLaunchMillis = millis
		return
	}
	s.AvgLaunchMillis += (millis - s.AvgLaunchMillis) / launchSampleWeight
}

// MarkPrompted records that a prompt was shown for the given app version
// and resets the crash window.
func (s *Snapshot) MarkPrompted(appVersion string, now time.Time) {
	s.Prompts++
	t := now
	s.LastPromptAt = &t
	s.LastPromptVersion = appVersion
	s.Crashes = 0
}
