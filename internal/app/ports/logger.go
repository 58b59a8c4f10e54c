package ports

// Logger is the narrow logging collaborator shared by the engine
// components; persistence failures and integrity events go through it.
type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}
