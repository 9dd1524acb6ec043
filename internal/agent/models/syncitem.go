package models

// SyncAction is the kind of remote mutation a queue entry carries.
type SyncAction string

const (
	ActionCreate SyncAction = "create"
	ActionUpdate SyncAction = "update"
	ActionDelete SyncAction = "delete"
)

// SyncItem is one pending remote write, recorded when a remote attempt
// failed or was skipped while offline. Entries are drained FIFO by ID and
// deleted only after the corresponding remote write succeeds.
type SyncItem struct {
	// ID is assigned by the local store on enqueue (auto-increment).
	ID       int64      `json:"id"`
	ReportID string     `json:"report_id"`
	Action   SyncAction `json:"action"`
	// Payload is the full report for create/update, nil for delete. The
	// queued form is the self-contained (pre-externalization) report.
	Payload    *Report `json:"payload,omitempty"`
	EnqueuedAt int64   `json:"enqueued_at"`
}
