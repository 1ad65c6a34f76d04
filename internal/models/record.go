package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Record is one row of a local collection. Fields holds the entity-specific
// payload as JSON; the remaining members are the bookkeeping columns every
// collection shares.
//
// Synced=false means the record has local changes not yet confirmed applied
// remotely. Deleted marks a tombstone: the row is hidden from listings but
// kept until its delete operation has been applied on the server.
type Record struct {
	ID        string
	UserID    string
	Fields    json.RawMessage
	CreatedAt time.Time
	UpdatedAt time.Time
	Synced    bool
	Deleted   bool
}

// Decode unmarshals the entity payload into v.
func (r *Record) Decode(v any) error {
	if len(r.Fields) == 0 {
		return nil
	}
	return json.Unmarshal(r.Fields, v)
}

// WireRow flattens the record into the row shape the remote collection API
// expects: the entity fields plus id, user_id and timestamps. The synced
// and deleted markers are local bookkeeping and never leave the device.
func (r *Record) WireRow() (map[string]any, error) {
	row, err := decodeFields(r.Fields)
	if err != nil {
		return nil, fmt.Errorf("failed to decode record fields: %w", err)
	}
	row["id"] = r.ID
	row["user_id"] = r.UserID
	row["created_at"] = r.CreatedAt.UTC().Format(time.RFC3339)
	row["updated_at"] = r.UpdatedAt.UTC().Format(time.RFC3339)
	return row, nil
}

// RecordFromWireRow rebuilds a Record from a remote row. Bookkeeping keys
// are pulled out of the map; whatever remains becomes the entity payload.
func RecordFromWireRow(row map[string]any) (*Record, error) {
	id, _ := row["id"].(string)
	if id == "" {
		return nil, fmt.Errorf("remote row has no id")
	}

	rec := &Record{ID: id}
	rec.UserID, _ = row["user_id"].(string)
	rec.CreatedAt = parseWireTime(row["created_at"])
	rec.UpdatedAt = parseWireTime(row["updated_at"])

	fields := make(map[string]any, len(row))
	for k, v := range row {
		switch k {
		case "id", "user_id", "created_at", "updated_at", "synced", "deleted":
		default:
			fields[k] = v
		}
	}
	b, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("failed to encode record fields: %w", err)
	}
	rec.Fields = b
	return rec, nil
}

// FieldsOf flattens a typed payload into the partial-field map accepted by
// update operations. Numbers stay json.Number so monetary values keep
// their precision through the round trip.
func FieldsOf(v any) (map[string]any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return decodeFields(b)
}

func decodeFields(b []byte) (map[string]any, error) {
	if len(b) == 0 {
		return map[string]any{}, nil
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return nil, err
	}
	if m == nil {
		m = map[string]any{}
	}
	return m, nil
}

func parseWireTime(v any) time.Time {
	s, ok := v.(string)
	if !ok {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
