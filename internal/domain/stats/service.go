package stats

import (
	"context"
	"time"

	"github.com/cmlabs-hris/hris-analytics/internal/domain/user"
)

// ScopeResolver normalizes the caller role into a report scope
type ScopeResolver interface {
	Resolve(id user.Identity) (Scope, error)
}

// TimeBucketer splits a range mode into contiguous chart buckets
type TimeBucketer interface {
	Buckets(mode RangeMode, now time.Time) ([]Bucket, error)
}

// MetricAggregator counts attendance per bucket. Implementations may batch queries.
type MetricAggregator interface {
	CountByStatus(ctx context.Context, scope Scope, bucket Bucket, status AttendanceStatus) (int64, error)
	Chart(ctx context.Context, scope Scope, buckets []Bucket) ([]ChartPoint, error)
}

// StatsService defines the interface for the dashboard report
type StatsService interface {
	// GetStats builds the report for the caller stored in ctx
	GetStats(ctx context.Context, rangeMode string) (*Report, error)
}
