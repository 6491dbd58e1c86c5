package models_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aditya-k24/AlgoPulse/internal/models"
)

func TestRecallKey_RoundTrip(t *testing.T) {
	key := models.RecallKey{
		ProblemID: "two-sum",
		DueAt:     time.Date(2026, 3, 2, 10, 30, 0, 123456789, time.UTC),
	}

	parsed, err := models.ParseRecallKey(key.String())
	require.NoError(t, err)
	assert.Equal(t, key.ProblemID, parsed.ProblemID)
	assert.True(t, key.DueAt.Equal(parsed.DueAt))
}

func TestRecallKey_NormalizesToUTC(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	local := models.RecallKey{ProblemID: "p1", DueAt: time.Date(2026, 3, 2, 12, 30, 0, 0, loc)}
	utc := models.RecallKey{ProblemID: "p1", DueAt: time.Date(2026, 3, 2, 10, 30, 0, 0, time.UTC)}

	assert.Equal(t, utc.String(), local.String(), "the same instant must encode identically")
}

func TestRecallKey_DistinctDueTimes(t *testing.T) {
	base := time.Date(2026, 3, 2, 10, 30, 0, 0, time.UTC)
	a := models.RecallKey{ProblemID: "p1", DueAt: base}
	b := models.RecallKey{ProblemID: "p1", DueAt: base.Add(24 * time.Hour)}

	assert.NotEqual(t, a.String(), b.String())
}

func TestParseRecallKey_Malformed(t *testing.T) {
	for _, s := range []string{"", "no-separator", "@2026-03-02T10:30:00Z", "p1@", "p1@not-a-time"} {
		_, err := models.ParseRecallKey(s)
		assert.Error(t, err, "input %q", s)
	}
}

func TestRecallItem_Key(t *testing.T) {
	due := time.Date(2026, 3, 2, 10, 30, 0, 0, time.UTC)
	it := models.RecallItem{ProblemID: "p1", DueAt: due, SequenceIndex: 2}

	key := it.Key()
	assert.Equal(t, "p1", key.ProblemID)
	assert.True(t, due.Equal(key.DueAt))
}
