package game

import "time"

const (
	// ActionsPerReward is the tap count that earns one unit of currency.
	ActionsPerReward = 10000

	// ResourceCapacity is the energy ceiling; a full bar refills in one hour.
	ResourceCapacity = 1000.0

	RefillDuration = time.Hour
)

// GameState is the single persisted aggregate. It is owned exclusively by
// the session controller; every other component receives it by value and
// returns either a new value or a verdict.
type GameState struct {
	ActionCount    uint64    `json:"action_count"`
	Reward         uint64    `json:"reward"`
	Resource       float64   `json:"resource"`
	LastObservedAt time.Time `json:"last_observed_at"`
	IntegrityToken string    `json:"integrity_token"`
	Digest         string    `json:"digest"`
}

type NoticeKind string

const (
	NoticeNoResource   NoticeKind = "no_resource"
	NoticeRateLimited  NoticeKind = "rate_limited"
	NoticeTamperReset  NoticeKind = "tamper_reset"
	NoticeRewardEarned NoticeKind = "reward_earned"
	NoticeChallenge    NoticeKind = "challenge"
)

type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Message string     `json:"message"`
}
