package notify

import (
	"context"
	"strconv"
	"time"
)

// Payload is the content of a recall reminder. RecallIndex is 1-based
// in the user-facing payload ("recall 2 of 5").
type Payload struct {
	Title        string `json:"title"`
	Body         string `json:"body"`
	ProblemID    string `json:"problem_id"`
	RecallIndex  int    `json:"recall_index"`
	TotalRecalls int    `json:"total_recalls"`
}

// Scheduled is a pending reminder.
type Scheduled struct {
	Handle  string    `json:"handle"`
	Tag     string    `json:"tag"`
	At      time.Time `json:"at"`
	Payload Payload   `json:"payload"`
}

// Notifier abstracts local reminder delivery. Implementations are
// best-effort collaborators: the recall store stays authoritative
// whether or not a reminder fires.
type Notifier interface {
	// ScheduleAt arms a reminder and returns its handle.
	ScheduleAt(ctx context.Context, tag string, at time.Time, payload Payload) (string, error)
	// CancelByTag cancels every reminder whose tag equals tag or
	// starts with tag + ":", so a problem-level tag sweeps all of a
	// problem's reminders.
	CancelByTag(ctx context.Context, tag string) error
	// CancelAll cancels every pending reminder.
	CancelAll(ctx context.Context) error
	// ListScheduled returns pending reminders ordered by fire time.
	ListScheduled(ctx context.Context) ([]Scheduled, error)
}

// RecallTag tags one reminder: "recall:<problemID>:<sequenceIndex>".
func RecallTag(problemID string, sequenceIndex int) string {
	return ProblemTag(problemID) + ":" + strconv.Itoa(sequenceIndex)
}

// ProblemTag tags every reminder of a problem: "recall:<problemID>".
func ProblemTag(problemID string) string {
	return "recall:" + problemID
}
