// Package sync keeps an append-only event log of the milestones other
// systems care about: an exam entering the store, a submission being
// graded. Rows are write-once; consumers poll by offset.
package sync

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"
)

const (
	EventExamImported     = "ExamImported"
	EventSubmissionGraded = "SubmissionGraded"
	EventRoomStatus       = "RoomStatusChanged"
)

type Event struct {
	Offset    int64           `json:"offset"`
	Type      string          `json:"type"`
	Key       string          `json:"key"`
	Data      json.RawMessage `json:"data"`
	CreatedAt int64           `json:"created_at"`
}

type EventLog struct{ db *sql.DB }

func NewEventLog(db *sql.DB) *EventLog { return &EventLog{db: db} }

// Append records one event. Payload must marshal to JSON.
func (l *EventLog) Append(ctx context.Context, typ, key string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = l.db.ExecContext(ctx,
		`INSERT INTO event_log (typ, key, data, created_at) VALUES ($1,$2,$3,$4)`,
		typ, key, string(data), time.Now().Unix())
	return err
}

// After returns up to limit events past the given offset, oldest first.
func (l *EventLog) After(ctx context.Context, offset int64, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := l.db.QueryContext(ctx,
		`SELECT "offset", typ, key, data, created_at FROM event_log WHERE "offset" > $1 ORDER BY "offset" LIMIT $2`,
		offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Event
	for rows.Next() {
		var e Event
		var data string
		if err := rows.Scan(&e.Offset, &e.Type, &e.Key, &data, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Data = json.RawMessage(data)
		out = append(out, e)
	}
	return out, rows.Err()
}
