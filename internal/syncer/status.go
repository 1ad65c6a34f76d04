package syncer

import "time"

// Status is a point-in-time snapshot of the sync engine. Subscribers get
// one immediately on subscription and another after every state change:
// connectivity flips, pass start and end, queue growth.
type Status struct {
	// Online reports whether the last connectivity probe reached the
	// backend.
	Online bool

	// Syncing is true while a pass is running.
	Syncing bool

	// LastSync is the completion time of the last successful pass, zero
	// when no pass has completed yet.
	LastSync time.Time

	// PendingChanges is the current change-queue length.
	PendingChanges int
}
