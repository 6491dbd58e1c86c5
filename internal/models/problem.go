package models

import "time"

// Problem is an algorithm problem in the local catalog.
type Problem struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Category    string    `json:"category"`
	Difficulty  string    `json:"difficulty"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// ProblemSummary is the slice of problem metadata joined onto recalls.
type ProblemSummary struct {
	Title      string `json:"title"`
	Category   string `json:"category"`
	Difficulty string `json:"difficulty"`
}

// UnknownProblemTitle is substituted when a problem lookup fails or the
// problem no longer exists; the recall itself is still shown.
const UnknownProblemTitle = "Unknown Problem"

// PlaceholderSummary returns the summary used when a lookup yields
// nothing for a problem ID.
func PlaceholderSummary() ProblemSummary {
	return ProblemSummary{
		Title:      UnknownProblemTitle,
		Category:   "Unknown",
		Difficulty: "Unknown",
	}
}

// ProblemFilter narrows catalog listings.
type ProblemFilter struct {
	Category   string
	Difficulty string
	Query      string // matches title or description
	Limit      int
	Offset     int
}
