package stats

import (
	"context"

	"github.com/cmlabs-hris/hris-analytics/internal/domain/stats"
	"golang.org/x/sync/errgroup"
)

const defaultQueryConcurrency = 4

type bucketAggregator struct {
	counter     stats.AttendanceCounter
	concurrency int
}

// NewMetricAggregator returns an aggregator issuing one count per bucket and status, at most
// concurrency at a time
func NewMetricAggregator(counter stats.AttendanceCounter, concurrency int) stats.MetricAggregator {
	if concurrency <= 0 {
		concurrency = defaultQueryConcurrency
	}
	return &bucketAggregator{counter: counter, concurrency: concurrency}
}

// CountByStatus counts bucket attendance. Missing data is 0, never an error.
func (a *bucketAggregator) CountByStatus(ctx context.Context, scope stats.Scope, bucket stats.Bucket, status stats.AttendanceStatus) (int64, error) {
	if !bucket.Start.Before(bucket.End) {
		return 0, stats.ErrInvalidBucketRange
	}
	return a.counter.CountAttendance(ctx, scope, bucket.Start, bucket.End, status)
}

// Chart returns present/late counts for every bucket, in bucket order
func (a *bucketAggregator) Chart(ctx context.Context, scope stats.Scope, buckets []stats.Bucket) ([]stats.ChartPoint, error) {
	points := make([]stats.ChartPoint, len(buckets))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)

	for i, b := range buckets {
		points[i].Date = b.Label

		g.Go(func() error {
			n, err := a.CountByStatus(gCtx, scope, b, stats.AttendancePresent)
			if err != nil {
				return err
			}
			points[i].Present = n
			return nil
		})

		g.Go(func() error {
			n, err := a.CountByStatus(gCtx, scope, b, stats.AttendanceLate)
			if err != nil {
				return err
			}
			points[i].Late = n
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return points, nil
}
