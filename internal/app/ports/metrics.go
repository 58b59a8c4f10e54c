package ports

type SessionMetrics interface {
	RecordAccepted()
	RecordRejected(reason string)
	RecordRecovery(mode string)
	RecordReset()
	RecordSaveFailure(backend string)
}
