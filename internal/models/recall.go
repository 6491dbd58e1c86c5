package models

import (
	"fmt"
	"strings"
	"time"
)

// Plan identifies a pacing strategy for spaced recalls.
type Plan string

const (
	// PlanBaseline spaces recalls at 1, 3, 7, 14 and 30 days.
	PlanBaseline Plan = "baseline"
	// PlanTimeCrunch compresses recalls into 1, 2, 5 and 10 days.
	PlanTimeCrunch Plan = "time_crunch"
)

// RecallItem is one scheduled review of one problem at one plan offset.
// The (ProblemID, DueAt) pair is the natural key; SequenceIndex is the
// 0-based position within the plan's offset list.
type RecallItem struct {
	ProblemID     string     `json:"problem_id"`
	DueAt         time.Time  `json:"due_at"`
	SequenceIndex int        `json:"sequence_index"`
	Completed     bool       `json:"completed"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
}

// Key returns the natural key of the item.
func (it RecallItem) Key() RecallKey {
	return RecallKey{ProblemID: it.ProblemID, DueAt: it.DueAt}
}

// RecallKey is the natural key of a RecallItem. Its string encoding is
// the single place the key layout is defined; nothing else in the
// codebase re-derives it.
type RecallKey struct {
	ProblemID string
	DueAt     time.Time
}

// recallKeySep separates the problem ID from the due timestamp. Problem
// IDs are UUIDs or slugs and never contain it; the timestamp does not
// either, so ParseRecallKey can split on the last occurrence.
const recallKeySep = "@"

// String encodes the key as "<problemID>@<RFC3339Nano UTC>".
func (k RecallKey) String() string {
	return k.ProblemID + recallKeySep + k.DueAt.UTC().Format(time.RFC3339Nano)
}

// ParseRecallKey decodes a key produced by RecallKey.String.
func ParseRecallKey(s string) (RecallKey, error) {
	idx := strings.LastIndex(s, recallKeySep)
	if idx <= 0 || idx == len(s)-1 {
		return RecallKey{}, fmt.Errorf("malformed recall key: %q", s)
	}
	due, err := time.Parse(time.RFC3339Nano, s[idx+1:])
	if err != nil {
		return RecallKey{}, fmt.Errorf("malformed recall key %q: %w", s, err)
	}
	return RecallKey{ProblemID: s[:idx], DueAt: due}, nil
}

// UpcomingRecall is a RecallItem joined with the problem summary shown
// on the recall dashboard.
type UpcomingRecall struct {
	RecallItem
	Problem ProblemSummary `json:"problem"`
}
