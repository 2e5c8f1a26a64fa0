// Package queue defines message payloads exchanged over the message broker
// plus the publisher and background consumer that move them.
package queue

// VacationBookedEvent is published when a vacation record is created. It
// carries enough information for downstream consumers to log or notify
// without querying the primary database.
type VacationBookedEvent struct {
	RecordID  int64  `json:"record_id"`
	UserID    int64  `json:"user_id"`
	Email     string `json:"email"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	DaysCount int    `json:"days_count"`
	Year      int    `json:"year"`
	BookedAt  string `json:"booked_at"`
}

// ImportCompletedEvent is published after a bulk import run finishes,
// whether or not every row made it in.
type ImportCompletedEvent struct {
	Kind        string `json:"kind"` // "users", "vacations" or "entitlements"
	Imported    int    `json:"imported"`
	Processed   int    `json:"total_processed"`
	ErrorCount  int    `json:"error_count"`
	CompletedAt string `json:"completed_at"`
}
