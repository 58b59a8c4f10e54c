package session

type Phase string

const (
	PhaseUninitialized Phase = "uninitialized"
	PhaseLoading       Phase = "loading"
	PhaseReady         Phase = "ready"
	PhaseResetting     Phase = "resetting"
)

const (
	RejectNotReady       = "not_ready"
	RejectNoResource     = "no_resource"
	RejectIntegrityReset = "integrity_reset"
)

// TapResult reports the outcome of one tap attempt. A rejection carries
// the reason; an acceptance carries the post-mutation snapshot.
type TapResult struct {
	Accepted     bool     `json:"accepted"`
	RejectReason string   `json:"reject_reason,omitempty"`
	RewardEarned bool     `json:"reward_earned"`
	State        Snapshot `json:"state"`
}

// Snapshot is the render-ready view of the aggregate published to the
// host surface.
type Snapshot struct {
	Phase            Phase   `json:"phase"`
	ActionCount      uint64  `json:"action_count"`
	Reward           uint64  `json:"reward"`
	Resource         float64 `json:"resource"`
	ResourceCapacity float64 `json:"resource_capacity"`
	TowardNextReward uint64  `json:"toward_next_reward"`
	ProgressPercent  float64 `json:"progress_percent"`
	TimeToFull       string  `json:"time_to_full"`
}
