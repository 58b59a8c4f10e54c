package session

import (
	"context"
	"sync"
	"time"

	"tapvault/internal/app/integrity"
	"tapvault/internal/app/persist"
	"tapvault/internal/app/ports"
	"tapvault/internal/app/shared/ratelimit"
	"tapvault/internal/domain/game"

	"github.com/google/uuid"
)

// SaveInterval bounds how much progress an abrupt teardown can lose
// between explicit per-action saves.
const SaveInterval = 5 * time.Second

// recentSampleSize bounds the action-timestamp sample in bridge payloads.
const recentSampleSize = 20

type Config struct {
	UserID   string
	Store    persist.Chain
	Bridge   ports.HostBridge
	Notifier ports.Notifier
	Metrics  ports.SessionMetrics
	Log      ports.Logger
	NewToken func() string
	Now      func() time.Time
}

// Controller owns the GameState aggregate and orders every mutation:
// load -> validate -> regenerate -> (on action) validate-and-apply ->
// persist. Handlers run to completion under one lock, so mutations are
// linearizable in arrival order.
type Controller struct {
	cfg     Config
	monitor *integrity.Monitor
	limiter *ratelimit.SlidingWindow

	mu               sync.Mutex
	phase            Phase
	state            game.GameState
	pendingChallenge string
	lastSaved        time.Time
}

func New(cfg Config) *Controller {
	if cfg.NewToken == nil {
		cfg.NewToken = uuid.NewString
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Store.NewToken == nil {
		cfg.Store.NewToken = cfg.NewToken
	}
	if cfg.Store.Now == nil {
		cfg.Store.Now = cfg.Now
	}
	if cfg.Store.Metrics == nil {
		cfg.Store.Metrics = cfg.Metrics
	}
	return &Controller{
		cfg:     cfg,
		monitor: integrity.NewMonitor(),
		limiter: ratelimit.NewSlidingWindow(),
		phase:   PhaseUninitialized,
	}
}

// Start loads the persisted record through the fallback chain, verifies
// it, credits elapsed regeneration and marks the session ready.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.phase = PhaseLoading
	now := c.cfg.Now()

	result := c.cfg.Store.Load(ctx, c.cfg.UserID)
	if result.Recovery != persist.RecoveryNone && c.cfg.Metrics != nil {
		c.cfg.Metrics.RecordRecovery(string(result.Recovery))
	}
	c.state = result.State

	if report := c.monitor.Inspect(c.state, now); report.HardReset() {
		c.cfg.Log.Warnf("session: loaded state failed integrity (%v), resetting", report.Violations)
		c.hardReset(ctx, now)
		c.publish(ctx, "session_ready")
		return nil
	} else if report.Suspicious() {
		c.cfg.Log.Infof("session: integrity suspicions on load: %v", report.Suspicions)
	}

	c.state = game.Reconcile(c.state, now)
	c.state.Stamp()
	c.save(ctx, now)
	c.phase = PhaseReady
	c.publish(ctx, "session_ready")
	return nil
}

// Tap runs the full acceptance pipeline for one user action. Rejections
// leave the aggregate untouched; mutation and persistence happen only
// after every validation stage passes.
func (c *Controller) Tap(ctx context.Context) TapResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.cfg.Now()
	if c.phase != PhaseReady {
		return c.reject(RejectNotReady)
	}

	report := c.monitor.Inspect(c.state, now)
	if report.HardReset() {
		c.cfg.Log.Warnf("session: integrity violations %v, resetting", report.Violations)
		c.hardReset(ctx, now)
		return c.reject(RejectIntegrityReset)
	}
	if report.Suspicious() {
		c.cfg.Log.Infof("session: integrity suspicions: %v", report.Suspicions)
	}

	c.state = game.Reconcile(c.state, now)
	c.state.Stamp()

	if verdict := c.limiter.Observe(now); !verdict.Allowed {
		c.notify(game.NoticeRateLimited, "tapping too fast")
		if c.cfg.Metrics != nil {
			c.cfg.Metrics.RecordRejected(verdict.Reason)
		}
		return c.reject(verdict.Reason)
	}

	if !c.state.HasResource() {
		c.notify(game.NoticeNoResource, "energy depleted, wait for it to refill")
		if c.cfg.Metrics != nil {
			c.cfg.Metrics.RecordRejected(RejectNoResource)
		}
		return c.reject(RejectNoResource)
	}

	crossed := c.state.ApplyAction()
	c.state.Stamp()
	if crossed {
		// Report the crossing under the token the reward was earned with,
		// then rotate so the pre-reward record cannot replay.
		c.publish(ctx, "currency_earned")
		c.state.RotateToken(c.cfg.NewToken())
		c.notify(game.NoticeRewardEarned, "you earned 1 currency")
	}

	c.save(ctx, now)
	if c.cfg.Metrics != nil {
		c.cfg.Metrics.RecordAccepted()
	}
	return TapResult{Accepted: true, RewardEarned: crossed, State: c.snapshotLocked()}
}

// Tick is the 1-second cadence: regeneration catch-up, an integrity
// sweep, and the periodic autosave.
func (c *Controller) Tick(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase != PhaseReady {
		return
	}
	now := c.cfg.Now()

	report := c.monitor.Inspect(c.state, now)
	if report.HardReset() {
		c.cfg.Log.Warnf("session: tick integrity violations %v, resetting", report.Violations)
		c.hardReset(ctx, now)
		return
	}
	if report.Suspicious() {
		c.cfg.Log.Infof("session: tick suspicions: %v", report.Suspicions)
	}

	c.state = game.Reconcile(c.state, now)
	c.state.Stamp()

	if now.Sub(c.lastSaved) >= SaveInterval {
		c.save(ctx, now)
	}
}

// Suspend persists immediately; it substitutes for a clean shutdown on
// hide/unload signals.
func (c *Controller) Suspend(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase == PhaseUninitialized || c.phase == PhaseLoading {
		return
	}
	c.save(ctx, c.cfg.Now())
}

// Resume re-checks integrity and credits suspended regeneration when the
// process regains visibility.
func (c *Controller) Resume(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase != PhaseReady {
		return
	}
	now := c.cfg.Now()

	if report := c.monitor.Inspect(c.state, now); report.HardReset() {
		c.cfg.Log.Warnf("session: resume integrity violations %v, resetting", report.Violations)
		c.hardReset(ctx, now)
		return
	}
	c.state = game.Reconcile(c.state, now)
	c.state.Stamp()
	c.save(ctx, now)
}

// Sync publishes the current counters, digest, token and a bounded
// sample of recent accepted taps to the host bridge.
func (c *Controller) Sync(ctx context.Context) ports.SyncPayload {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.publish(ctx, "sync")
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// SetChallenge records a host-delivered verification code; the transport
// that carried it is not the engine's concern.
func (c *Controller) SetChallenge(code string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pendingChallenge = code
	c.notify(game.NoticeChallenge, "verification required")
}

// VerifyChallenge compares user input against the pending challenge. A
// match consumes the challenge; a mismatch keeps it pending.
func (c *Controller) VerifyChallenge(input string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pendingChallenge == "" || input != c.pendingChallenge {
		return false
	}
	c.pendingChallenge = ""
	return true
}

func (c *Controller) reject(reason string) TapResult {
	return TapResult{RejectReason: reason, State: c.snapshotLocked()}
}

// hardReset is the structural-failure response: everything back to
// defaults under a fresh token, persisted at once. Partial correction is
// the persistence chain's job, never the monitor's.
func (c *Controller) hardReset(ctx context.Context, now time.Time) {
	c.phase = PhaseResetting
	c.state = game.NewState(now, c.cfg.NewToken())
	c.limiter = ratelimit.NewSlidingWindow()
	c.save(ctx, now)
	if c.cfg.Metrics != nil {
		c.cfg.Metrics.RecordReset()
	}
	c.notify(game.NoticeTamperReset, "progress was invalid and has been reset")
	c.phase = PhaseReady
}

// save is fire-and-forget: a failed write is logged and never blocks the
// action that triggered it.
func (c *Controller) save(ctx context.Context, now time.Time) {
	if err := c.cfg.Store.Save(ctx, c.cfg.UserID, c.state); err != nil {
		c.cfg.Log.Errorf("session: save failed: %v", err)
		return
	}
	c.lastSaved = now
}

func (c *Controller) publish(ctx context.Context, event string) ports.SyncPayload {
	recent := c.limiter.Recent(recentSampleSize)
	samples := make([]int64, len(recent))
	for i, at := range recent {
		samples[i] = at.UnixMilli()
	}
	payload := ports.SyncPayload{
		Event:            event,
		ActionCount:      c.state.ActionCount,
		Reward:           c.state.Reward,
		Resource:         c.state.Resource,
		Digest:           c.state.Digest,
		IntegrityToken:   c.state.IntegrityToken,
		RecentActions:    samples,
		PendingChallenge: c.pendingChallenge,
	}
	if c.cfg.Bridge != nil {
		if err := c.cfg.Bridge.Publish(ctx, payload); err != nil {
			c.cfg.Log.Warnf("session: bridge publish failed: %v", err)
		}
	}
	return payload
}

func (c *Controller) notify(kind game.NoticeKind, message string) {
	if c.cfg.Notifier == nil {
		return
	}
	c.cfg.Notifier.Notify(game.Notice{Kind: kind, Message: message})
}

func (c *Controller) snapshotLocked() Snapshot {
	return Snapshot{
		Phase:            c.phase,
		ActionCount:      c.state.ActionCount,
		Reward:           c.state.Reward,
		Resource:         c.state.Resource,
		ResourceCapacity: game.ResourceCapacity,
		TowardNextReward: c.state.TowardNextReward(),
		ProgressPercent:  c.state.ProgressPercent(),
		TimeToFull:       game.TimeToFull(c.state.Resource),
	}
}
