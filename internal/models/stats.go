package models

// RecallStats aggregates the recall store for the dashboard.
// CompletionRate is a fraction in [0, 1], 0 when nothing is scheduled.
type RecallStats struct {
	TotalScheduled int     `json:"total_scheduled"`
	TotalCompleted int     `json:"total_completed"`
	CompletionRate float64 `json:"completion_rate"`
	UpcomingCount  int     `json:"upcoming_count"`
}
