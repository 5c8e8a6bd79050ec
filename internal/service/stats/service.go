package stats

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-analytics/internal/domain/stats"
	"github.com/cmlabs-hris/hris-analytics/internal/domain/user"
	"github.com/cmlabs-hris/hris-analytics/internal/pkg/clock"
	"github.com/cmlabs-hris/hris-analytics/internal/pkg/metrics"
	"golang.org/x/sync/errgroup"
)

// Options tunes report assembly
type Options struct {
	Concurrency int           // Max concurrent sub-queries per fan-out
	Timeout     time.Duration // Per-report deadline, 0 disables
}

const unknownLabel = "unknown"

type StatsServiceImpl struct {
	repo     stats.StatsRepository
	clock    *clock.Clock
	resolver stats.ScopeResolver
	bucketer stats.TimeBucketer
	agg      stats.MetricAggregator
	derived  *DerivedCalculator
	metrics  *metrics.Metrics
	opts     Options
}

func NewStatsService(repo stats.StatsRepository, clk *clock.Clock, m *metrics.Metrics, opts Options) stats.StatsService {
	if opts.Concurrency <= 0 {
		opts.Concurrency = defaultQueryConcurrency
	}
	agg := NewMetricAggregator(repo, opts.Concurrency)
	return &StatsServiceImpl{
		repo:     repo,
		clock:    clk,
		resolver: NewScopeResolver(),
		bucketer: NewTimeBucketer(),
		agg:      agg,
		derived:  NewDerivedCalculator(repo, agg, clk),
		metrics:  m,
		opts:     opts,
	}
}

// getIdentity extracts the caller placed in ctx by the auth middleware
func (s *StatsServiceImpl) getIdentity(ctx context.Context) (user.Identity, error) {
	id, ok := user.IdentityFromContext(ctx)
	if !ok {
		return user.Identity{}, fmt.Errorf("%w: %w", stats.ErrUnauthorized, user.ErrIdentityMissing)
	}
	if id.CompanyID == "" {
		return user.Identity{}, fmt.Errorf("%w: %w", stats.ErrUnauthorized, user.ErrCompanyIDRequired)
	}
	return id, nil
}

// GetStats resolves the caller scope, then runs the chart and derived metrics concurrently.
// Any failed sub-query fails the whole report.
func (s *StatsServiceImpl) GetStats(ctx context.Context, rangeMode string) (report *stats.Report, err error) {
	start := time.Now()

	var (
		id    user.Identity
		mode  stats.RangeMode
		scope stats.Scope
	)
	defer func() {
		s.metrics.ObserveReport(scopeLabel(scope), rangeLabel(mode), err, start)
		if err != nil {
			slog.Log(ctx, failureLevel(err), "Failed to build stats report",
				"company_id", id.CompanyID,
				"role", id.Role,
				"range", rangeMode,
				"error", err,
			)
		}
	}()

	id, err = s.getIdentity(ctx)
	if err != nil {
		return nil, err
	}

	mode, err = stats.ParseRange(rangeMode)
	if err != nil {
		return nil, err
	}

	scope, err = s.resolver.Resolve(id)
	if err != nil {
		return nil, err
	}

	buckets, err := s.bucketer.Buckets(mode, s.clock.Now())
	if err != nil {
		return nil, err
	}

	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}

	if scope.IsPersonal() {
		personal, err := s.personalReport(ctx, scope, buckets)
		if err != nil {
			return nil, err
		}
		return &stats.Report{Scope: scope.Kind, Range: mode, Personal: personal}, nil
	}

	org, err := s.organizationReport(ctx, scope, buckets)
	if err != nil {
		return nil, err
	}
	return &stats.Report{Scope: scope.Kind, Range: mode, Organization: org}, nil
}

func (s *StatsServiceImpl) personalReport(ctx context.Context, scope stats.Scope, buckets []stats.Bucket) (*stats.PersonalReport, error) {
	emp, err := s.repo.GetEmployee(ctx, scope.CompanyID, scope.EmployeeID)
	if err != nil {
		return nil, err
	}

	var (
		chart           []stats.ChartPoint
		attendanceCount int64
		leaveBalance    int64
		todayStatus     stats.TodayStatus
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Concurrency)

	// 1. Attendance chart
	g.Go(func() error {
		points, err := s.agg.Chart(gCtx, scope, buckets)
		if err != nil {
			return err
		}
		chart = points
		return nil
	})

	// 2. Days with attendance this month
	g.Go(func() error {
		n, err := s.derived.MonthAttendanceDays(gCtx, emp.ID)
		if err != nil {
			return err
		}
		attendanceCount = n
		return nil
	})

	// 3. Annual leave balance
	g.Go(func() error {
		n, err := s.derived.LeaveBalance(gCtx, emp)
		if err != nil {
			return err
		}
		leaveBalance = n
		return nil
	})

	// 4. Today's status
	g.Go(func() error {
		st, err := s.derived.PersonalToday(gCtx, emp.ID)
		if err != nil {
			return err
		}
		todayStatus = st
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &stats.PersonalReport{
		PersonalStats: stats.PersonalStats{
			AttendanceCount: attendanceCount,
			LeaveBalance:    leaveBalance,
			TodayStatus:     todayStatus,
			BaseSalary:      emp.BaseSalary.InexactFloat64(),
		},
		AttendanceChart: chart,
	}, nil
}

func (s *StatsServiceImpl) organizationReport(ctx context.Context, scope stats.Scope, buckets []stats.Bucket) (*stats.OrganizationReport, error) {
	var (
		totals      *stats.EmployeeTotals
		departments *stats.UnitCounts
		positions   *stats.UnitCounts
		today       stats.TodayAttendance
		recent      []stats.RecentEmployeeItem
		chart       []stats.ChartPoint
		leaveStats  stats.LeaveStats
		events      []stats.CalendarEventItem
	)

	// Headcount feeds the absent count, so it is read before the fan-out
	totals, err := s.derived.EmployeeTotals(ctx, scope)
	if err != nil {
		return nil, err
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Concurrency)

	// 1. Departments
	g.Go(func() error {
		c, err := s.repo.CountDepartments(gCtx, scope)
		if err != nil {
			return err
		}
		departments = c
		return nil
	})

	// 2. Positions
	g.Go(func() error {
		c, err := s.repo.CountPositions(gCtx, scope)
		if err != nil {
			return err
		}
		positions = c
		return nil
	})

	// 3. Today's attendance snapshot
	g.Go(func() error {
		t, err := s.derived.TodaySnapshot(gCtx, scope, totals.Total)
		if err != nil {
			return err
		}
		today = t
		return nil
	})

	// 4. Recent hires
	g.Go(func() error {
		r, err := s.derived.RecentHires(gCtx, scope)
		if err != nil {
			return err
		}
		recent = r
		return nil
	})

	// 5. Attendance chart
	g.Go(func() error {
		points, err := s.agg.Chart(gCtx, scope, buckets)
		if err != nil {
			return err
		}
		chart = points
		return nil
	})

	// 6. Leave pipeline
	g.Go(func() error {
		l, err := s.derived.LeavePipeline(gCtx, scope)
		if err != nil {
			return err
		}
		leaveStats = l
		return nil
	})

	// 7. Calendar events
	g.Go(func() error {
		e, err := s.derived.CalendarEvents(gCtx, scope)
		if err != nil {
			return err
		}
		events = e
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &stats.OrganizationReport{
		TotalEmployees:  totals.Total,
		Departments:     stats.UnitStats{Total: departments.Total, Active: departments.Active},
		Positions:       stats.UnitStats{Total: positions.Total, Active: positions.Active},
		PresentToday:    today.OnTime + today.Late,
		TodayAttendance: today,
		TotalPayroll:    totals.Payroll.InexactFloat64(),
		RecentEmployees: recent,
		AttendanceChart: chart,
		LeaveStats:      leaveStats,
		EmployeeStats:   stats.EmployeeStats{Total: totals.Total, NewThisMonth: totals.NewThisMonth},
		CalendarEvents:  events,
	}, nil
}

// scopeLabel and rangeLabel keep metric labels bounded for reports rejected before resolution
func scopeLabel(scope stats.Scope) string {
	if scope.Kind == "" {
		return unknownLabel
	}
	return string(scope.Kind)
}

func rangeLabel(mode stats.RangeMode) string {
	if mode == "" {
		return unknownLabel
	}
	return string(mode)
}

// failureLevel logs caller mistakes and disconnects below storage failures
func failureLevel(err error) slog.Level {
	switch {
	case errors.Is(err, context.Canceled):
		return slog.LevelDebug
	case errors.Is(err, stats.ErrUnauthorized),
		errors.Is(err, stats.ErrEmployeeNotFound),
		errors.Is(err, stats.ErrInvalidRange):
		return slog.LevelInfo
	default:
		return slog.LevelError
	}
}
