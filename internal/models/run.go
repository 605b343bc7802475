package models

// RunStatus represents the lifecycle state of a remote assistant run.
type RunStatus string

const (
	RunStatusQueued     RunStatus = "queued"
	RunStatusInProgress RunStatus = "in_progress"
	RunStatusCompleted  RunStatus = "completed"
	RunStatusFailed     RunStatus = "failed"
	RunStatusCancelled  RunStatus = "cancelled"
	RunStatusExpired    RunStatus = "expired"
	RunStatusUnknown    RunStatus = "unknown"
)

// Terminal reports whether a run in this status no longer blocks the thread.
// Only completed and expired runs are left alone during preemption; everything
// else (including failed or cancelling runs reported by the remote system) is
// cancelled best-effort.
func (s RunStatus) Terminal() bool {
	return s == RunStatusCompleted || s == RunStatusExpired
}

// Run is one in-flight request/response cycle against a thread. It is never
// persisted; it exists only for the duration of a turn.
type Run struct {
	ID       string    `json:"id"`
	ThreadID string    `json:"thread_id"`
	Status   RunStatus `json:"status"`
}
