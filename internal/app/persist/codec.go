package persist

import (
	"encoding/json"
	"fmt"
	"time"

	"tapvault/internal/domain/game"
)

// Record is the wire form of the persisted aggregate. Absent fields
// decode to defaults (zero counters, full bar, fresh token) instead of
// failing, which keeps old records loadable across format drift.
type Record struct {
	ActionCount    uint64   `json:"action_count"`
	Reward         uint64   `json:"reward"`
	Resource       *float64 `json:"resource,omitempty"`
	LastObservedAt int64    `json:"last_observed_at,omitempty"`
	IntegrityToken string   `json:"integrity_token,omitempty"`
	Digest         string   `json:"digest,omitempty"`
}

func Encode(state game.GameState) ([]byte, error) {
	resource := state.Resource
	rec := Record{
		ActionCount:    state.ActionCount,
		Reward:         state.Reward,
		Resource:       &resource,
		LastObservedAt: state.LastObservedAt.UnixMilli(),
		IntegrityToken: state.IntegrityToken,
		Digest:         state.Digest,
	}
	payload, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	return payload, nil
}

// Decode parses a stored payload into an aggregate. freshToken and now
// fill the gaps an older record may leave.
func Decode(payload []byte, now time.Time, freshToken string) (game.GameState, error) {
	var rec Record
	if err := json.Unmarshal(payload, &rec); err != nil {
		return game.GameState{}, fmt.Errorf("decode record: %w", err)
	}

	state := game.GameState{
		ActionCount:    rec.ActionCount,
		Reward:         rec.Reward,
		Resource:       game.ResourceCapacity,
		LastObservedAt: now,
		IntegrityToken: rec.IntegrityToken,
		Digest:         rec.Digest,
	}
	if rec.Resource != nil {
		state.Resource = *rec.Resource
	}
	if rec.LastObservedAt > 0 {
		state.LastObservedAt = time.UnixMilli(rec.LastObservedAt)
	}
	if state.IntegrityToken == "" {
		state.IntegrityToken = freshToken
	}
	return state, nil
}
