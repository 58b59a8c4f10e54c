package httpadapter

import (
	"context"
	"encoding/json"
	"strings"

	"tapvault/internal/app/session"
	"tapvault/internal/app/shared/ratelimit"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

type Handler struct {
	Session *session.Controller
	KPI     kpiSnapshotProvider
}

func (h Handler) RegisterRoutes(s *server.Hertz) {
	s.Use(corsMiddleware())

	api := s.Group("/api/session")
	api.GET("/state", h.state)
	api.POST("/tap", h.tap)
	api.POST("/sync", h.sync)
	api.POST("/suspend", h.suspend)
	api.POST("/resume", h.resume)
	api.POST("/challenge", h.setChallenge)
	api.POST("/challenge/verify", h.verifyChallenge)

	s.GET("/ops/kpi", h.kpi)
}

type challengeRequest struct {
	Code string `json:"code"`
}

type challengeVerifyRequest struct {
	Input string `json:"input"`
}

func (h Handler) state(_ context.Context, ctx *app.RequestContext) {
	ctx.JSON(consts.StatusOK, h.Session.Snapshot())
}

func (h Handler) tap(c context.Context, ctx *app.RequestContext) {
	result := h.Session.Tap(c)
	ctx.JSON(tapStatus(result), result)
}

// tapStatus maps a rejection reason onto the HTTP status the host
// surface keys its retry behavior off.
func tapStatus(result session.TapResult) int {
	if result.Accepted {
		return consts.StatusOK
	}
	switch result.RejectReason {
	case ratelimit.ReasonTooFast, ratelimit.ReasonWindowExceeded:
		return consts.StatusTooManyRequests
	case session.RejectNotReady:
		return consts.StatusServiceUnavailable
	default:
		return consts.StatusConflict
	}
}

func (h Handler) sync(c context.Context, ctx *app.RequestContext) {
	ctx.JSON(consts.StatusOK, h.Session.Sync(c))
}

func (h Handler) suspend(c context.Context, ctx *app.RequestContext) {
	h.Session.Suspend(c)
	ctx.JSON(consts.StatusOK, h.Session.Snapshot())
}

func (h Handler) resume(c context.Context, ctx *app.RequestContext) {
	h.Session.Resume(c)
	ctx.JSON(consts.StatusOK, h.Session.Snapshot())
}

func (h Handler) setChallenge(_ context.Context, ctx *app.RequestContext) {
	var body challengeRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	code := strings.TrimSpace(body.Code)
	if code == "" {
		writeErrorBody(ctx, consts.StatusBadRequest, "missing_code", "challenge code is required")
		return
	}
	h.Session.SetChallenge(code)
	ctx.JSON(consts.StatusOK, map[string]string{"status": "challenge_set"})
}

func (h Handler) verifyChallenge(_ context.Context, ctx *app.RequestContext) {
	var body challengeVerifyRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	ctx.JSON(consts.StatusOK, map[string]bool{
		"match": h.Session.VerifyChallenge(body.Input),
	})
}

type kpiSnapshotProvider interface {
	SnapshotAny() any
}

func (h Handler) kpi(_ context.Context, ctx *app.RequestContext) {
	if h.KPI == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "kpi provider not configured")
		return
	}
	ctx.JSON(consts.StatusOK, h.KPI.SnapshotAny())
}

func decodeJSON(ctx *app.RequestContext, out any) error {
	body := ctx.Request.Body()
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

func writeErrorBody(ctx *app.RequestContext, status int, code, message string) {
	ctx.JSON(status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
