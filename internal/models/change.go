package models

import (
	"encoding/json"
	"time"
)

// Operation classifies a queued mutation.
type Operation string

const (
	OpCreate Operation = "create"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// Change is one pending mutation awaiting transmission to the backend.
// Seq is assigned by the queue table and defines the global replay order
// across all collections: a later operation on a record depends on the
// earlier ones having been applied.
type Change struct {
	Seq        int64
	Table      string
	RecordID   string
	Op         Operation
	Data       json.RawMessage
	CreatedAt  time.Time
	RetryCount int
}
