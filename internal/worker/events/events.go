package events

import "time"

const (
	EventSyncRequested   = "sync.requested"
	EventImportRequested = "import.requested"
)

// Event is a sync trigger carried on the catalog-sync topic.
type Event struct {
	Type        string    `json:"type"`
	Offset      int       `json:"offset,omitempty"`
	RequestedBy string    `json:"requested_by,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}
