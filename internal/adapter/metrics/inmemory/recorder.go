package inmemory

import "sync"

type Snapshot struct {
	TapTotal     uint64            `json:"tap_total"`
	TapAccepted  uint64            `json:"tap_accepted"`
	TapRejected  uint64            `json:"tap_rejected"`
	ByReason     map[string]uint64 `json:"by_reason"`
	Recoveries   map[string]uint64 `json:"recoveries"`
	Resets       uint64            `json:"resets"`
	SaveFailures map[string]uint64 `json:"save_failures"`
}

type Recorder struct {
	mu           sync.Mutex
	accepted     uint64
	rejected     uint64
	byReason     map[string]uint64
	recoveries   map[string]uint64
	resets       uint64
	saveFailures map[string]uint64
}

func NewRecorder() *Recorder {
	return &Recorder{
		byReason:     map[string]uint64{},
		recoveries:   map[string]uint64{},
		saveFailures: map[string]uint64{},
	}
}

func (r *Recorder) RecordAccepted() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.accepted++
}

func (r *Recorder) RecordRejected(reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rejected++
	r.byReason[reason]++
}

func (r *Recorder) RecordRecovery(mode string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recoveries[mode]++
}

func (r *Recorder) RecordReset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resets++
}

func (r *Recorder) RecordSaveFailure(backend string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saveFailures[backend]++
}

func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := Snapshot{
		TapAccepted:  r.accepted,
		TapRejected:  r.rejected,
		TapTotal:     r.accepted + r.rejected,
		ByReason:     make(map[string]uint64, len(r.byReason)),
		Recoveries:   make(map[string]uint64, len(r.recoveries)),
		Resets:       r.resets,
		SaveFailures: make(map[string]uint64, len(r.saveFailures)),
	}
	for k, v := range r.byReason {
		out.ByReason[k] = v
	}
	for k, v := range r.recoveries {
		out.Recoveries[k] = v
	}
	for k, v := range r.saveFailures {
		out.SaveFailures[k] = v
	}
	return out
}

func (r *Recorder) SnapshotAny() any {
	return r.Snapshot()
}
