package game

import "time"

// NewState builds a fresh aggregate: zero counters, a full energy bar and
// a stamped digest over the supplied token.
func NewState(now time.Time, token string) GameState {
	s := GameState{
		Resource:       ResourceCapacity,
		LastObservedAt: now,
		IntegrityToken: token,
	}
	s.Stamp()
	return s
}

// ApplyAction consumes one unit of energy for one accepted tap and reports
// whether the tap crossed a reward threshold. The caller is expected to
// have checked HasResource first and to Stamp and persist afterwards.
func (s *GameState) ApplyAction() (crossedThreshold bool) {
	s.Resource -= 1
	if s.Resource < 0 {
		s.Resource = 0
	}
	s.ActionCount++
	if s.ActionCount%ActionsPerReward == 0 {
		s.Reward++
		return true
	}
	return false
}

func (s *GameState) HasResource() bool {
	return s.Resource >= 1
}

// Stamp recomputes the digest over the current field values.
func (s *GameState) Stamp() {
	s.Digest = Digest(s.ActionCount, s.Resource, s.Reward, s.IntegrityToken)
}

// RotateToken swaps in a fresh integrity token and restamps, invalidating
// any replayed copy of the previous record.
func (s *GameState) RotateToken(token string) {
	s.IntegrityToken = token
	s.Stamp()
}

func (s *GameState) DigestTrusted() bool {
	return VerifyDigest(s.ActionCount, s.Resource, s.Reward, s.IntegrityToken, s.Digest)
}

// TowardNextReward counts taps accumulated since the last threshold.
func (s *GameState) TowardNextReward() uint64 {
	return s.ActionCount % ActionsPerReward
}

func (s *GameState) ProgressPercent() float64 {
	return float64(s.TowardNextReward()) / float64(ActionsPerReward) * 100
}
