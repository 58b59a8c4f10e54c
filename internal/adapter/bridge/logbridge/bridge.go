package logbridge

import (
	"context"

	"tapvault/internal/app/ports"
)

// Bridge is the default host bridge when no websocket endpoint is
// configured: outbound events just land in the log.
type Bridge struct {
	Log ports.Logger
}

func (b Bridge) Publish(_ context.Context, payload ports.SyncPayload) error {
	b.Log.Infof("bridge: %s actions=%d reward=%d digest=%s", payload.Event, payload.ActionCount, payload.Reward, payload.Digest)
	return nil
}
