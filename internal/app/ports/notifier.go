package ports

import "tapvault/internal/domain/game"

// Notifier delivers user-facing notices. Rendering belongs to the UI
// collaborator; the engine only raises the signal.
type Notifier interface {
	Notify(notice game.Notice)
}
