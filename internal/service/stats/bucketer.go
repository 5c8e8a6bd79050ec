package stats

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-analytics/internal/domain/stats"
)

const daysPerWeekBucket = 7

type calendarBucketer struct{}

// NewTimeBucketer returns a bucketer that cuts local calendar days. Bucket bounds are computed
// in now's location and returned as UTC instants.
func NewTimeBucketer() stats.TimeBucketer {
	return calendarBucketer{}
}

// Buckets returns the chart buckets for mode, oldest first
func (calendarBucketer) Buckets(mode stats.RangeMode, now time.Time) ([]stats.Bucket, error) {
	switch mode {
	case stats.RangeWeek:
		return weekBuckets(now), nil
	case stats.RangeMonth:
		return monthBuckets(now), nil
	case stats.RangeYear:
		return yearBuckets(now), nil
	}
	return nil, fmt.Errorf("%w: %q", stats.ErrInvalidRange, mode)
}

// weekBuckets returns one bucket per day for [today-6 .. today]
func weekBuckets(now time.Time) []stats.Bucket {
	loc := now.Location()
	buckets := make([]stats.Bucket, 0, 7)
	for i := 6; i >= 0; i-- {
		day := time.Date(now.Year(), now.Month(), now.Day()-i, 0, 0, 0, 0, loc)
		buckets = append(buckets, stats.Bucket{
			Label: day.Weekday().String()[:3],
			Start: day.UTC(),
			End:   day.AddDate(0, 0, 1).UTC(),
		})
	}
	return buckets
}

// monthBuckets returns 7-day buckets from day 1 of the current month, the last one clamped to
// the first day of the next month
func monthBuckets(now time.Time) []stats.Bucket {
	loc := now.Location()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
	next := first.AddDate(0, 1, 0)
	daysInMonth := time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, loc).Day()

	buckets := make([]stats.Bucket, 0, 5)
	for day := 1; day <= daysInMonth; day += daysPerWeekBucket {
		start := time.Date(now.Year(), now.Month(), day, 0, 0, 0, 0, loc)
		end := start.AddDate(0, 0, daysPerWeekBucket)
		if end.After(next) {
			end = next
		}
		buckets = append(buckets, stats.Bucket{
			Label: fmt.Sprintf("M%d", len(buckets)+1),
			Start: start.UTC(),
			End:   end.UTC(),
		})
	}
	return buckets
}

// yearBuckets returns one bucket per calendar month of the current year
func yearBuckets(now time.Time) []stats.Bucket {
	loc := now.Location()
	buckets := make([]stats.Bucket, 0, 12)
	for m := time.January; m <= time.December; m++ {
		start := time.Date(now.Year(), m, 1, 0, 0, 0, 0, loc)
		buckets = append(buckets, stats.Bucket{
			Label: m.String()[:3],
			Start: start.UTC(),
			End:   start.AddDate(0, 1, 0).UTC(),
		})
	}
	return buckets
}
