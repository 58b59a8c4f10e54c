package httpadapter

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	memoryrepo "tapvault/internal/adapter/repo/memory"
	"tapvault/internal/app/persist"
	"tapvault/internal/app/ports"
	"tapvault/internal/app/session"
	"tapvault/internal/app/shared/ratelimit"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

type nopLogger struct{}

func (nopLogger) Infof(string, ...any)  {}
func (nopLogger) Warnf(string, ...any)  {}
func (nopLogger) Errorf(string, ...any) {}

func newTestController(t *testing.T) *session.Controller {
	t.Helper()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	current := base
	ctrl := session.New(session.Config{
		UserID: "handler-test",
		Store: persist.Chain{
			Backends: []ports.Backend{memoryrepo.NewStore()},
			Log:      nopLogger{},
		},
		Log: nopLogger{},
		Now: func() time.Time {
			current = current.Add(time.Second)
			return current
		},
	})
	if err := ctrl.Start(context.Background()); err != nil {
		t.Fatalf("start controller: %v", err)
	}
	return ctrl
}

func TestStateEndpoint(t *testing.T) {
	h := Handler{Session: newTestController(t)}
	ctx := &app.RequestContext{}

	h.state(context.Background(), ctx)

	if got := ctx.Response.StatusCode(); got != consts.StatusOK {
		t.Fatalf("unexpected status: %d", got)
	}
	var snap session.Snapshot
	if err := json.Unmarshal(ctx.Response.Body(), &snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if snap.Phase != session.PhaseReady {
		t.Fatalf("expected ready phase, got %q", snap.Phase)
	}
}

func TestTapEndpoint_Accepted(t *testing.T) {
	h := Handler{Session: newTestController(t)}
	ctx := &app.RequestContext{}

	h.tap(context.Background(), ctx)

	if got := ctx.Response.StatusCode(); got != consts.StatusOK {
		t.Fatalf("unexpected status: %d", got)
	}
	var result session.TapResult
	if err := json.Unmarshal(ctx.Response.Body(), &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if !result.Accepted {
		t.Fatalf("expected accepted tap, got rejection %q", result.RejectReason)
	}
	if result.State.ActionCount != 1 {
		t.Fatalf("unexpected action count: %d", result.State.ActionCount)
	}
}

func TestTapStatusMapping(t *testing.T) {
	cases := []struct {
		result session.TapResult
		want   int
	}{
		{session.TapResult{Accepted: true}, consts.StatusOK},
		{session.TapResult{RejectReason: ratelimit.ReasonTooFast}, consts.StatusTooManyRequests},
		{session.TapResult{RejectReason: ratelimit.ReasonWindowExceeded}, consts.StatusTooManyRequests},
		{session.TapResult{RejectReason: session.RejectNotReady}, consts.StatusServiceUnavailable},
		{session.TapResult{RejectReason: session.RejectNoResource}, consts.StatusConflict},
		{session.TapResult{RejectReason: session.RejectIntegrityReset}, consts.StatusConflict},
	}
	for _, tc := range cases {
		if got := tapStatus(tc.result); got != tc.want {
			t.Fatalf("tapStatus(%q) = %d, want %d", tc.result.RejectReason, got, tc.want)
		}
	}
}

func TestSyncEndpoint(t *testing.T) {
	h := Handler{Session: newTestController(t)}
	ctx := &app.RequestContext{}

	h.sync(context.Background(), ctx)

	if got := ctx.Response.StatusCode(); got != consts.StatusOK {
		t.Fatalf("unexpected status: %d", got)
	}
	var payload ports.SyncPayload
	if err := json.Unmarshal(ctx.Response.Body(), &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload.Event != "sync" {
		t.Fatalf("unexpected event: %q", payload.Event)
	}
	if payload.Digest == "" {
		t.Fatalf("sync payload missing digest")
	}
}

func TestChallengeFlow(t *testing.T) {
	h := Handler{Session: newTestController(t)}

	setCtx := &app.RequestContext{}
	setCtx.Request.SetBody([]byte(`{"code":"7-3-9"}`))
	h.setChallenge(context.Background(), setCtx)
	if got := setCtx.Response.StatusCode(); got != consts.StatusOK {
		t.Fatalf("set challenge status: %d", got)
	}

	wrongCtx := &app.RequestContext{}
	wrongCtx.Request.SetBody([]byte(`{"input":"1-1-1"}`))
	h.verifyChallenge(context.Background(), wrongCtx)
	var wrong map[string]bool
	if err := json.Unmarshal(wrongCtx.Response.Body(), &wrong); err != nil {
		t.Fatalf("decode verify response: %v", err)
	}
	if wrong["match"] {
		t.Fatalf("mismatched input should not verify")
	}

	rightCtx := &app.RequestContext{}
	rightCtx.Request.SetBody([]byte(`{"input":"7-3-9"}`))
	h.verifyChallenge(context.Background(), rightCtx)
	var right map[string]bool
	if err := json.Unmarshal(rightCtx.Response.Body(), &right); err != nil {
		t.Fatalf("decode verify response: %v", err)
	}
	if !right["match"] {
		t.Fatalf("matching input should verify")
	}
}

func TestSetChallenge_MissingCode(t *testing.T) {
	h := Handler{Session: newTestController(t)}
	ctx := &app.RequestContext{}
	ctx.Request.SetBody([]byte(`{"code":"  "}`))

	h.setChallenge(context.Background(), ctx)

	if got := ctx.Response.StatusCode(); got != consts.StatusBadRequest {
		t.Fatalf("unexpected status: %d", got)
	}
}

func TestKPIEndpoint_NotConfigured(t *testing.T) {
	h := Handler{}
	ctx := &app.RequestContext{}

	h.kpi(context.Background(), ctx)

	if got := ctx.Response.StatusCode(); got != consts.StatusNotFound {
		t.Fatalf("unexpected status: %d", got)
	}
}
