// Package alert contains the pure classification of tasks into dashboard
// alert buckets. Classification is computed on demand from a caller-supplied
// reference date; there is no background loop and no delivery guarantee.
package alert

import (
	"sort"
	"time"

	"github.com/example/upkeep/internal/models"
)

// Bucket is the alert classification of a task.
type Bucket string

const (
	BucketOverdue  Bucket = "overdue"
	BucketToday    Bucket = "today"
	BucketUpcoming Bucket = "upcoming"
)

// bucketRank orders buckets for display: overdue first, then today, then
// upcoming.
var bucketRank = map[Bucket]int{
	BucketOverdue:  0,
	BucketToday:    1,
	BucketUpcoming: 2,
}

// DefaultHorizonDays is the default upcoming-window width.
const DefaultHorizonDays = 3

// Alert is one classified task.
type Alert struct {
	TaskID        string `json:"taskId"`
	Bucket        Bucket `json:"bucket"`
	ScheduledDate string `json:"scheduledDate"`
}

// Classify buckets tasks into overdue / today / upcoming relative to
// referenceDate, date-only comparison.
//
// Completed and cancelled tasks are skipped (partial is still eligible),
// as are tasks whose scheduled date is missing or unparseable. A task
// exactly horizonDays out is excluded: the upcoming window is strictly
// before referenceDate + horizonDays.
//
// The result is ordered by bucket rank with the input order preserved
// within each bucket. Priority-based ordering inside a bucket is a
// presentation concern, not done here. Classify is pure: same inputs,
// same output.
func Classify(tasks []models.Task, referenceDate time.Time, horizonDays int) []Alert {
	if horizonDays <= 0 {
		horizonDays = DefaultHorizonDays
	}
	ref := truncateToDay(referenceDate)
	horizon := ref.AddDate(0, 0, horizonDays)

	alerts := make([]Alert, 0, len(tasks))
	for _, t := range tasks {
		if !t.IsOverdueCandidate() {
			continue
		}
		due, err := models.ParseDate(t.ScheduledDate)
		if err != nil {
			// No usable date means no scheduling alert.
			continue
		}

		var bucket Bucket
		switch {
		case due.Before(ref):
			bucket = BucketOverdue
		case due.Equal(ref):
			bucket = BucketToday
		case due.Before(horizon):
			bucket = BucketUpcoming
		default:
			continue
		}

		alerts = append(alerts, Alert{
			TaskID:        t.ID,
			Bucket:        bucket,
			ScheduledDate: t.ScheduledDate,
		})
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		return bucketRank[alerts[i].Bucket] < bucketRank[alerts[j].Bucket]
	})
	return alerts
}

// truncateToDay drops the time-of-day component, keeping the calendar day.
func truncateToDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
