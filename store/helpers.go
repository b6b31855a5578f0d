package store

import (
	"strings"
	"time"

	"pos-api/models"
)

const DayLayout = "2006-01-02"

// DayKey names the calendar day t falls on in loc.
func DayKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(DayLayout)
}

// BucketByDay folds SALE rows into per-day sums.
func BucketByDay(txs []models.Transaction, loc *time.Location) map[string]float64 {
	out := make(map[string]float64)
	for _, t := range txs {
		k := DayKey(t.CreatedAt, loc)
		out[k] = models.RoundMoney(out[k] + t.Amount)
	}
	return out
}

// ContainsFold is a case-insensitive substring match.
func ContainsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
