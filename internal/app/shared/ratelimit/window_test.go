package ratelimit

import (
	"testing"
	"time"
)

func TestHundredSpacedTapsAllAccepted(t *testing.T) {
	w := NewSlidingWindow()
	base := time.Unix(1700000000, 0)

	for i := 0; i < 100; i++ {
		now := base.Add(time.Duration(i) * 51 * time.Millisecond)
		if v := w.Observe(now); !v.Allowed {
			t.Fatalf("tap %d unexpectedly rejected: %s", i+1, v.Reason)
		}
	}
}

func TestBurstSaturatesVolumeCap(t *testing.T) {
	w := NewSlidingWindow()
	base := time.Unix(1700000000, 0)

	// A 10ms burst: most taps fail the gap check, but every submission
	// still lands in the window, so the volume cap takes over at the
	// 101st submission and stays saturated.
	for i := 0; i < 120; i++ {
		v := w.Observe(base.Add(time.Duration(i) * 10 * time.Millisecond))
		if i == 0 && !v.Allowed {
			t.Fatalf("first tap rejected: %s", v.Reason)
		}
		if i >= 100 {
			if v.Allowed {
				t.Fatalf("tap %d past the cap was accepted", i+1)
			}
			if v.Reason != ReasonWindowExceeded {
				t.Fatalf("tap %d: expected %s, got %s", i+1, ReasonWindowExceeded, v.Reason)
			}
		}
	}
}

func TestMinIntervalBoundaryIsExclusive(t *testing.T) {
	base := time.Unix(1700000000, 0)

	w := NewSlidingWindow()
	if v := w.Observe(base); !v.Allowed {
		t.Fatalf("first tap rejected: %s", v.Reason)
	}
	if v := w.Observe(base.Add(MinInterval)); v.Allowed {
		t.Fatal("tap exactly MinInterval after the previous must be rejected")
	} else if v.Reason != ReasonTooFast {
		t.Fatalf("expected %s, got %s", ReasonTooFast, v.Reason)
	}
	if v := w.Observe(base.Add(2*MinInterval + time.Millisecond)); !v.Allowed {
		t.Fatalf("tap past MinInterval rejected: %s", v.Reason)
	}
}

func TestGapMeasuredAgainstAcceptedTap(t *testing.T) {
	base := time.Unix(1700000000, 0)

	w := NewSlidingWindow()
	w.Observe(base)
	w.Observe(base.Add(10 * time.Millisecond)) // rejected

	// 60ms after the accepted tap but only 50ms after the rejected one;
	// the rejected tap must not reset the gap clock.
	if v := w.Observe(base.Add(60 * time.Millisecond)); !v.Allowed {
		t.Fatalf("expected acceptance measured from the accepted tap: %s", v.Reason)
	}
	if got := len(w.accepted); got != 2 {
		t.Fatalf("expected 2 accepted taps, got %d", got)
	}
}

func TestWindowDrains(t *testing.T) {
	base := time.Unix(1700000000, 0)

	w := NewSlidingWindow()
	for i := 0; i < 150; i++ {
		w.Observe(base.Add(time.Duration(i) * 10 * time.Millisecond))
	}
	if v := w.Observe(base.Add(Window + 10*time.Second)); !v.Allowed {
		t.Fatalf("expected acceptance once the window drained: %s", v.Reason)
	}
}

func TestRecentReturnsBoundedOrderedSample(t *testing.T) {
	base := time.Unix(1700000000, 0)

	w := NewSlidingWindow()
	for i := 0; i < 30; i++ {
		w.Observe(base.Add(time.Duration(i) * 60 * time.Millisecond))
	}

	sample := w.Recent(20)
	if len(sample) != 20 {
		t.Fatalf("expected 20 samples, got %d", len(sample))
	}
	for i := 1; i < len(sample); i++ {
		if !sample[i].After(sample[i-1]) {
			t.Fatalf("samples must be ordered: %v then %v", sample[i-1], sample[i])
		}
	}
	if got := w.Recent(0); got != nil {
		t.Fatalf("expected nil for n=0, got %v", got)
	}
}
