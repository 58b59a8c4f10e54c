package persist

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"tapvault/internal/app/ports"
	"tapvault/internal/domain/game"

	"github.com/tidwall/gjson"
)

// AnonymousUser keys records when the host supplies no user identity.
const AnonymousUser = "anonymous"

func RecordKey(userID string) string {
	if userID == "" {
		userID = AnonymousUser
	}
	return "progress:" + userID
}

type RecoveryMode string

const (
	// RecoveryNone: payload parsed and the digest verified.
	RecoveryNone RecoveryMode = "none"
	// RecoveryRotated: parseable but mismatched digest on non-trivial
	// progress; fields accepted, token rotated, record restamped.
	RecoveryRotated RecoveryMode = "digest_rotated"
	// RecoveryScavenged: unparseable payload, numeric fields pulled out of
	// the raw text.
	RecoveryScavenged RecoveryMode = "scavenged"
	// RecoveryFresh: nothing usable anywhere, defaults issued.
	RecoveryFresh RecoveryMode = "fresh"
)

type LoadResult struct {
	State    game.GameState
	Recovery RecoveryMode
	Backend  string
}

// Chain runs an ordered list of storage backends behind one save/load
// contract. Save is best effort across every backend; load takes the
// first backend that yields a recoverable record.
type Chain struct {
	Backends []ports.Backend
	Log      ports.Logger
	Metrics  ports.SessionMetrics
	NewToken func() string
	Now      func() time.Time
}

// Save writes the encoded record to every backend. A backend failure is
// logged and skipped; Save fails only when no backend accepted the write.
func (c Chain) Save(ctx context.Context, userID string, state game.GameState) error {
	payload, err := Encode(state)
	if err != nil {
		return err
	}
	key := RecordKey(userID)

	wrote := 0
	for _, b := range c.Backends {
		if err := b.Save(ctx, key, payload); err != nil {
			c.Log.Warnf("persist: save to %s failed: %v", b.Name(), err)
			if c.Metrics != nil {
				c.Metrics.RecordSaveFailure(b.Name())
			}
			continue
		}
		wrote++
	}
	if wrote == 0 {
		return fmt.Errorf("persist: no backend accepted key %s", key)
	}
	return nil
}

// Load walks the backend chain and applies the recovery policy:
// digest-verified records are trusted; mismatched-but-parseable records
// with real progress are accepted with a rotated token; unparseable
// payloads go through raw-text scavenging; only when every backend comes
// up empty is a fresh default state issued.
func (c Chain) Load(ctx context.Context, userID string) LoadResult {
	key := RecordKey(userID)
	now := c.Now()

	for _, b := range c.Backends {
		payload, err := b.Load(ctx, key)
		if err != nil {
			if !errors.Is(err, ports.ErrNotFound) {
				c.Log.Warnf("persist: load from %s failed: %v", b.Name(), err)
			}
			continue
		}

		if result, ok := c.recover(ctx, userID, b.Name(), payload, now); ok {
			return result
		}
	}

	return LoadResult{State: game.NewState(now, c.NewToken()), Recovery: RecoveryFresh}
}

func (c Chain) recover(ctx context.Context, userID, backend string, payload []byte, now time.Time) (LoadResult, bool) {
	state, err := Decode(payload, now, c.NewToken())
	if err != nil {
		state, ok := scavenge(payload, now)
		if !ok {
			c.Log.Warnf("persist: %s payload for %s unrecoverable", backend, userID)
			return LoadResult{}, false
		}
		c.Log.Warnf("persist: scavenged fields from corrupt %s payload for %s", backend, userID)
		state.RotateToken(c.NewToken())
		c.resave(ctx, userID, state)
		return LoadResult{State: state, Recovery: RecoveryScavenged, Backend: backend}, true
	}

	if state.DigestTrusted() {
		return LoadResult{State: state, Recovery: RecoveryNone, Backend: backend}, true
	}

	if state.ActionCount == 0 && state.Reward == 0 {
		// Trivial record with a bad digest carries nothing worth keeping.
		c.Log.Warnf("persist: discarding trivial mismatched record from %s", backend)
		return LoadResult{}, false
	}

	// A mismatched digest alone is evidence, not proof: favor keeping the
	// user's progress, rotate the token so the old record cannot replay,
	// and restamp immediately.
	c.Log.Warnf("persist: digest mismatch on %s record for %s, rotating token", backend, userID)
	state.RotateToken(c.NewToken())
	c.resave(ctx, userID, state)
	return LoadResult{State: state, Recovery: RecoveryRotated, Backend: backend}, true
}

func (c Chain) resave(ctx context.Context, userID string, state game.GameState) {
	if err := c.Save(ctx, userID, state); err != nil {
		c.Log.Errorf("persist: re-persist after recovery failed: %v", err)
	}
}

var scavengePatterns = map[string]*regexp.Regexp{
	"action_count":     regexp.MustCompile(`"action_count"\s*:\s*([0-9]+)`),
	"reward":           regexp.MustCompile(`"reward"\s*:\s*([0-9]+)`),
	"resource":         regexp.MustCompile(`"resource"\s*:\s*([0-9]+(?:\.[0-9]+)?)`),
	"last_observed_at": regexp.MustCompile(`"last_observed_at"\s*:\s*([0-9]+)`),
}

// scavenge pulls the numeric fields of interest out of a payload that no
// longer parses as JSON. Each field is probed with gjson first and the
// raw-text regexp second. Success means at least the action count was
// found somewhere.
func scavenge(payload []byte, now time.Time) (game.GameState, bool) {
	state := game.GameState{
		Resource:       game.ResourceCapacity,
		LastObservedAt: now,
	}

	count, found := scavengeNumber(payload, "action_count")
	if !found || count < 0 {
		return game.GameState{}, false
	}
	state.ActionCount = uint64(count)

	if reward, ok := scavengeNumber(payload, "reward"); ok && reward >= 0 {
		state.Reward = uint64(reward)
	}
	if resource, ok := scavengeNumber(payload, "resource"); ok {
		state.Resource = clampResource(resource)
	}
	if ms, ok := scavengeNumber(payload, "last_observed_at"); ok && ms > 0 {
		at := time.UnixMilli(int64(ms))
		if at.Before(now) {
			state.LastObservedAt = at
		}
	}
	if state.Reward == 0 && state.ActionCount >= game.ActionsPerReward {
		state.Reward = state.ActionCount / game.ActionsPerReward
	}
	return state, true
}

func scavengeNumber(payload []byte, field string) (float64, bool) {
	if v := gjson.GetBytes(payload, field); v.Exists() && v.Type == gjson.Number {
		return v.Float(), true
	}
	if m := scavengePatterns[field].FindSubmatch(payload); m != nil {
		if f, err := strconv.ParseFloat(string(m[1]), 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

func clampResource(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > game.ResourceCapacity {
		return game.ResourceCapacity
	}
	return v
}
