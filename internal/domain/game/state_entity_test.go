package game

import (
	"testing"
	"time"
)

func TestNewStateStartsFullAndStamped(t *testing.T) {
	s := NewState(time.Unix(1700000000, 0), "tok-fresh")

	if s.ActionCount != 0 || s.Reward != 0 {
		t.Fatalf("fresh state must start at zero: %+v", s)
	}
	if s.Resource != ResourceCapacity {
		t.Fatalf("fresh state must start with a full bar, got %v", s.Resource)
	}
	if !s.DigestTrusted() {
		t.Fatal("fresh state must carry a valid digest")
	}
}

func TestApplyActionRewardOnlyAtThreshold(t *testing.T) {
	s := NewState(time.Unix(1700000000, 0), "tok")
	s.ActionCount = ActionsPerReward - 2
	s.Resource = ResourceCapacity

	if crossed := s.ApplyAction(); crossed {
		t.Fatalf("action #%d must not cross", s.ActionCount)
	}
	if s.Reward != 0 {
		t.Fatalf("reward incremented early: %d", s.Reward)
	}

	if crossed := s.ApplyAction(); !crossed {
		t.Fatalf("action #%d must cross the threshold", s.ActionCount)
	}
	if s.Reward != 1 {
		t.Fatalf("expected exactly one reward, got %d", s.Reward)
	}

	if crossed := s.ApplyAction(); crossed {
		t.Fatal("the action after a crossing must not cross again")
	}
	if s.Reward != 1 {
		t.Fatalf("reward must stay at 1, got %d", s.Reward)
	}
}

func TestApplyActionConsumesResource(t *testing.T) {
	s := NewState(time.Unix(1700000000, 0), "tok")
	before := s.Resource
	s.ApplyAction()
	if s.Resource != before-1 {
		t.Fatalf("expected one energy consumed, got %v -> %v", before, s.Resource)
	}

	s.Resource = 0.5
	if s.HasResource() {
		t.Fatal("fractional energy below 1 must not permit an action")
	}
	s.ApplyAction()
	if s.Resource != 0 {
		t.Fatalf("resource must clamp at zero, got %v", s.Resource)
	}
}

func TestRotateTokenInvalidatesOldDigest(t *testing.T) {
	s := NewState(time.Unix(1700000000, 0), "tok-a")
	old := s.Digest

	s.RotateToken("tok-b")
	if s.Digest == old {
		t.Fatal("token rotation must change the digest")
	}
	if !s.DigestTrusted() {
		t.Fatal("restamped state must verify")
	}
}

func TestProgressTowardNextReward(t *testing.T) {
	s := GameState{ActionCount: ActionsPerReward + 2500}
	if got := s.TowardNextReward(); got != 2500 {
		t.Fatalf("expected 2500 toward next reward, got %d", got)
	}
	if got := s.ProgressPercent(); got != 25 {
		t.Fatalf("expected 25%%, got %v", got)
	}
}
