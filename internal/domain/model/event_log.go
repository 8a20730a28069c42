package model

import "time"

type EventLevel string

const (
	EventLevelInfo  EventLevel = "info"
	EventLevelWarn  EventLevel = "warn"
	EventLevelError EventLevel = "error"
)

// EventLogEntry is an append-only telemetry record. Entries are never
// updated or deleted, and writing one must never fail the main flow.
type EventLogEntry struct {
	Level     EventLevel
	Source    string
	Message   string
	Meta      map[string]any
	UserID    string
	CreatedAt time.Time
}
