package integrity

import (
	"math"
	"time"

	"tapvault/internal/domain/game"
)

const (
	ViolationResourceRange  = "resource_out_of_range"
	ViolationResourceNaN    = "resource_not_a_number"
	ViolationRewardOverrun  = "reward_exceeds_crossings"
	ViolationDigestMismatch = "digest_mismatch"

	SuspicionTimingGap   = "timing_gap"
	SuspicionFutureClock = "future_clock"
)

// resourceTolerance absorbs float drift at the capacity boundary before a
// reading counts as out of range.
const resourceTolerance = 1.0

// DefaultMaxGap is the observation gap beyond which a debugger pause or
// process freeze is suspected. The signal is environment-dependent and
// full of false positives, so it is never a reset trigger on its own.
const DefaultMaxGap = 30 * time.Second

const clockSkewTolerance = 5 * time.Minute

// Report separates hard violations, which demand a reset, from
// suspicions, which are only logged and counted.
type Report struct {
	Violations []string
	Suspicions []string
}

func (r Report) Clean() bool      { return len(r.Violations) == 0 }
func (r Report) HardReset() bool  { return len(r.Violations) > 0 }
func (r Report) Suspicious() bool { return len(r.Suspicions) > 0 }

// Monitor runs the consistency checks before actions, on the periodic
// tick, and when visibility is regained. It remembers the previous
// observation instant to detect abnormal gaps.
type Monitor struct {
	MaxGap   time.Duration
	lastSeen time.Time
}

func NewMonitor() *Monitor {
	return &Monitor{MaxGap: DefaultMaxGap}
}

func (m *Monitor) Inspect(state game.GameState, now time.Time) Report {
	var report Report

	switch {
	case math.IsNaN(state.Resource) || math.IsInf(state.Resource, 0):
		report.Violations = append(report.Violations, ViolationResourceNaN)
	case state.Resource < 0 || state.Resource > game.ResourceCapacity+resourceTolerance:
		report.Violations = append(report.Violations, ViolationResourceRange)
	}

	if state.Reward > state.ActionCount/game.ActionsPerReward {
		report.Violations = append(report.Violations, ViolationRewardOverrun)
	}

	if !state.DigestTrusted() {
		report.Violations = append(report.Violations, ViolationDigestMismatch)
	}

	if state.LastObservedAt.After(now.Add(clockSkewTolerance)) {
		report.Suspicions = append(report.Suspicions, SuspicionFutureClock)
	}
	if !m.lastSeen.IsZero() && now.Sub(m.lastSeen) > m.maxGap() {
		report.Suspicions = append(report.Suspicions, SuspicionTimingGap)
	}
	m.lastSeen = now

	return report
}

func (m *Monitor) maxGap() time.Duration {
	if m.MaxGap > 0 {
		return m.MaxGap
	}
	return DefaultMaxGap
}
