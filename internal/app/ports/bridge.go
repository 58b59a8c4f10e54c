package ports

import "context"

// SyncPayload is what the engine reports to the host counterpart on
// reward-earning transitions and explicit sync requests. Delivery is
// fire-and-forget; a failed publish never blocks or rolls back a tap.
type SyncPayload struct {
	Event            string  `json:"event"`
	ActionCount      uint64  `json:"action_count"`
	Reward           uint64  `json:"reward"`
	Resource         float64 `json:"resource"`
	Digest           string  `json:"digest"`
	IntegrityToken   string  `json:"integrity_token"`
	RecentActions    []int64 `json:"recent_actions"`
	PendingChallenge string  `json:"pending_challenge,omitempty"`
}

type HostBridge interface {
	Publish(ctx context.Context, payload SyncPayload) error
}
