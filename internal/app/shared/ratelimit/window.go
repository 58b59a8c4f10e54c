package ratelimit

import "time"

const (
	// Window bounds how far back submissions count against the limit.
	Window = 5 * time.Second

	// MaxPerWindow caps submissions per window; more than this is faster
	// than a human can tap.
	MaxPerWindow = 100

	// MinInterval is the exclusive floor between consecutive accepted taps.
	// Two taps spaced exactly MinInterval apart reject the second.
	MinInterval = 50 * time.Millisecond
)

const (
	ReasonTooFast        = "too_fast"
	ReasonWindowExceeded = "window_exceeded"
)

type Verdict struct {
	Allowed bool
	Reason  string
}

// SlidingWindow tracks every submitted tap for the volume cap and the
// accepted taps for the inter-tap gap check. It never touches the game
// state; it only answers accept or reject.
type SlidingWindow struct {
	submitted []time.Time
	accepted  []time.Time
}

func NewSlidingWindow() *SlidingWindow {
	return &SlidingWindow{}
}

// Observe evaluates a candidate tap at now. The candidate is recorded in
// the submission window whether or not it is accepted, so a burst keeps
// the volume cap saturated until it ages out.
func (w *SlidingWindow) Observe(now time.Time) Verdict {
	cutoff := now.Add(-Window)
	w.submitted = pruneBefore(w.submitted, cutoff)
	w.accepted = pruneBefore(w.accepted, cutoff)

	w.submitted = append(w.submitted, now)
	if len(w.submitted) > MaxPerWindow {
		return Verdict{Reason: ReasonWindowExceeded}
	}
	if len(w.accepted) > 0 {
		prev := w.accepted[len(w.accepted)-1]
		if now.Sub(prev) <= MinInterval {
			return Verdict{Reason: ReasonTooFast}
		}
	}

	w.accepted = append(w.accepted, now)
	return Verdict{Allowed: true}
}

// Recent returns up to n most recent accepted timestamps, oldest first.
func (w *SlidingWindow) Recent(n int) []time.Time {
	if n <= 0 || len(w.accepted) == 0 {
		return nil
	}
	start := len(w.accepted) - n
	if start < 0 {
		start = 0
	}
	out := make([]time.Time, len(w.accepted)-start)
	copy(out, w.accepted[start:])
	return out
}

func pruneBefore(entries []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(entries) && !entries[i].After(cutoff) {
		i++
	}
	if i == 0 {
		return entries
	}
	return append(entries[:0], entries[i:]...)
}
