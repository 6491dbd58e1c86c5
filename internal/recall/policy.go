package recall

import (
	"time"

	"github.com/Aditya-k24/AlgoPulse/internal/errors"
	"github.com/Aditya-k24/AlgoPulse/internal/models"
)

// planOffsetsDays maps each plan to its day offsets from the solve
// instant. Offsets are strictly increasing and every plan has at least
// one; addPlan enforces both at init.
var planOffsetsDays = map[models.Plan][]int{}

func init() {
	addPlan(models.PlanBaseline, []int{1, 3, 7, 14, 30})
	addPlan(models.PlanTimeCrunch, []int{1, 2, 5, 10})
}

func addPlan(plan models.Plan, offsets []int) {
	if len(offsets) == 0 {
		panic("recall: plan " + string(plan) + " has no offsets")
	}
	prev := 0
	for _, d := range offsets {
		if d <= prev {
			panic("recall: plan " + string(plan) + " offsets are not strictly increasing")
		}
		prev = d
	}
	planOffsetsDays[plan] = offsets
}

// ParsePlan validates a plan identifier coming from config or a request.
func ParsePlan(s string) (models.Plan, error) {
	plan := models.Plan(s)
	if _, ok := planOffsetsDays[plan]; !ok {
		return "", errors.NewConfigurationError("plan", "unknown plan "+s)
	}
	return plan, nil
}

// Offsets returns the day offsets for a plan, or a configuration error
// for an unknown plan identifier.
func Offsets(plan models.Plan) ([]int, error) {
	offsets, ok := planOffsetsDays[plan]
	if !ok {
		return nil, errors.NewConfigurationError("plan", "unknown plan "+string(plan))
	}
	return offsets, nil
}

// DueDates computes the review timestamps for a solve at solvedAt under
// the given plan: one per offset, solvedAt + offset*24h. Offsets are
// wall-clock durations, not calendar days; there is no timezone or DST
// adjustment. Pure and safe for concurrent use.
func DueDates(solvedAt time.Time, plan models.Plan) ([]time.Time, error) {
	offsets, err := Offsets(plan)
	if err != nil {
		return nil, err
	}
	dates := make([]time.Time, len(offsets))
	for i, d := range offsets {
		dates[i] = solvedAt.Add(time.Duration(d) * 24 * time.Hour)
	}
	return dates, nil
}

// IsDue reports whether a recall is eligible for review at now.
func IsDue(now, dueAt time.Time) bool {
	return !now.Before(dueAt)
}
