package database

import (
	"time"

	"github.com/zapponejosh/perpetual-calendar/internal/calendar"
)

// Run is one cached simulation: the query, its statistics and, when loaded
// with GetRun, every reported match in sequence order.
type Run struct {
	ID        int64            `json:"id"`
	Query     calendar.Query   `json:"query"`
	Stats     calendar.Stats   `json:"stats"`
	Matches   []calendar.Match `json:"matches,omitempty"`
	CreatedAt *time.Time       `json:"created_at,omitempty"`
}

// RunSummary is a Run without its matches, used for listings.
type RunSummary struct {
	ID        int64          `json:"id"`
	Query     calendar.Query `json:"query"`
	Stats     calendar.Stats `json:"stats"`
	CreatedAt *time.Time     `json:"created_at,omitempty"`
}

// boolToInt stores a bool in an INTEGER column.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
