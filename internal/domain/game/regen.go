package game

import (
	"fmt"
	"math"
	"time"
)

// refillMillis makes an empty bar refill in exactly RefillDuration.
const refillMillis = float64(3600 * 1000)

// Reconcile credits regenerated energy for the wall-clock time elapsed
// since the state was last observed. A clock that moved backwards credits
// nothing; LastObservedAt only ever advances.
func Reconcile(state GameState, now time.Time) GameState {
	elapsed := now.Sub(state.LastObservedAt)
	if elapsed <= 0 {
		return state
	}
	// Multiply before dividing so a full-hour gap lands on the capacity
	// exactly instead of a rounding hair under it.
	regained := float64(elapsed.Milliseconds()) * ResourceCapacity / refillMillis
	state.Resource = math.Min(ResourceCapacity, state.Resource+regained)
	state.LastObservedAt = now
	return state
}

const FullSentinel = "full"

// TimeToFull reports the remaining refill time as M:SS, or FullSentinel
// once the bar is at capacity.
func TimeToFull(resource float64) string {
	if resource >= ResourceCapacity {
		return FullSentinel
	}
	remainingMillis := (ResourceCapacity - resource) * refillMillis / ResourceCapacity
	totalSeconds := int(math.Ceil(remainingMillis / 1000))
	return fmt.Sprintf("%d:%02d", totalSeconds/60, totalSeconds%60)
}
