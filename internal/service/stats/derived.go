package stats

import (
	"context"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/hris-analytics/internal/domain/stats"
	"github.com/cmlabs-hris/hris-analytics/internal/pkg/clock"
)

const dateLayout = "2006-01-02"

// AbsentCount floors at zero so a snapshot taken while headcount changes never goes negative
func AbsentCount(total, onTime, late int64) int64 {
	return max(0, total-(onTime+late))
}

// ClassifyToday maps today's record to its display state
func ClassifyToday(rec *stats.AttendanceRecord) stats.TodayStatus {
	switch {
	case rec == nil:
		return stats.TodayNotCheckedIn
	case rec.CheckOut != nil:
		return stats.TodayCheckedOut
	case rec.Status == stats.AttendanceLate:
		return stats.TodayLate
	default:
		return stats.TodayPresent
	}
}

// UsedLeaveDays sums inclusive day counts of approved annual requests. Overlapping requests
// are counted twice.
func UsedLeaveDays(leaves []stats.LeaveRequest) int64 {
	var used int64
	for _, l := range leaves {
		if l.Status != stats.LeaveApproved || l.Type != stats.LeaveAnnual {
			continue
		}
		used += int64(l.Days())
	}
	return used
}

// LeaveBalance is quota minus used days. It goes negative when leave exceeds the quota.
func LeaveBalance(quota int, leaves []stats.LeaveRequest) int64 {
	return int64(quota) - UsedLeaveDays(leaves)
}

// DerivedCalculator computes the report values that are not bucketed counts
type DerivedCalculator struct {
	repo  stats.StatsRepository
	agg   stats.MetricAggregator
	clock *clock.Clock
}

func NewDerivedCalculator(repo stats.StatsRepository, agg stats.MetricAggregator, clk *clock.Clock) *DerivedCalculator {
	return &DerivedCalculator{repo: repo, agg: agg, clock: clk}
}

// todayBucket spans local today as [midnight, next midnight)
func (c *DerivedCalculator) todayBucket() stats.Bucket {
	return stats.Bucket{Label: "today", Start: c.clock.LocalDayStart(0), End: c.clock.LocalDayStart(-1)}
}

// TodaySnapshot counts distinct on-time and late employees today against total headcount
func (c *DerivedCalculator) TodaySnapshot(ctx context.Context, scope stats.Scope, total int64) (stats.TodayAttendance, error) {
	today := c.todayBucket()

	onTime, err := c.agg.CountByStatus(ctx, scope, today, stats.AttendancePresent)
	if err != nil {
		return stats.TodayAttendance{}, err
	}
	late, err := c.agg.CountByStatus(ctx, scope, today, stats.AttendanceLate)
	if err != nil {
		return stats.TodayAttendance{}, err
	}

	return stats.TodayAttendance{
		OnTime: onTime,
		Late:   late,
		Absent: AbsentCount(total, onTime, late),
		Total:  total,
	}, nil
}

// PersonalToday classifies the caller's record keyed by local midnight of today
func (c *DerivedCalculator) PersonalToday(ctx context.Context, employeeID string) (stats.TodayStatus, error) {
	rec, err := c.repo.GetAttendanceOnDate(ctx, employeeID, c.clock.LocalDayStart(0))
	if err != nil {
		return "", err
	}
	return ClassifyToday(rec), nil
}

// LeaveBalance returns the remaining annual leave of the employee
func (c *DerivedCalculator) LeaveBalance(ctx context.Context, emp *stats.Employee) (int64, error) {
	leaves, err := c.repo.ListApprovedLeaves(ctx, emp.ID, stats.LeaveAnnual)
	if err != nil {
		return 0, err
	}
	return LeaveBalance(emp.Quota(), leaves), nil
}

// MonthAttendanceDays counts days with any record in the current local month
func (c *DerivedCalculator) MonthAttendanceDays(ctx context.Context, employeeID string) (int64, error) {
	start, end := c.clock.MonthRange()
	return c.repo.CountAttendanceDays(ctx, employeeID, start, end)
}

// EmployeeTotals returns headcount, payroll and new hires for the current local month
func (c *DerivedCalculator) EmployeeTotals(ctx context.Context, scope stats.Scope) (*stats.EmployeeTotals, error) {
	first, next := c.clock.CalendarMonth()
	return c.repo.GetEmployeeTotals(ctx, scope, first, next)
}

// RecentHires lists the most recently joined employees in scope
func (c *DerivedCalculator) RecentHires(ctx context.Context, scope stats.Scope) ([]stats.RecentEmployeeItem, error) {
	recent, err := c.repo.ListRecentEmployees(ctx, scope, stats.RecentEmployeeLimit)
	if err != nil {
		return nil, err
	}

	items := make([]stats.RecentEmployeeItem, 0, len(recent))
	for _, e := range recent {
		items = append(items, stats.RecentEmployeeItem{
			ID:       e.ID,
			Name:     e.FullName,
			Position: e.Position,
			JoinDate: e.JoinDate.Format(dateLayout),
		})
	}
	return items, nil
}

// LeavePipeline returns pending (all-time), approved and rejected counts for the current month
func (c *DerivedCalculator) LeavePipeline(ctx context.Context, scope stats.Scope) (stats.LeaveStats, error) {
	first, next := c.clock.CalendarMonth()
	from, to := c.clock.MonthRange()

	counts, err := c.repo.GetLeaveCounts(ctx, scope, first, next, from, to)
	if err != nil {
		return stats.LeaveStats{}, err
	}
	return stats.LeaveStats{
		Pending:  counts.Pending,
		Approved: counts.Approved,
		Rejected: counts.Rejected,
	}, nil
}

// CalendarEvents lists approved leave intersecting the current month
func (c *DerivedCalculator) CalendarEvents(ctx context.Context, scope stats.Scope) ([]stats.CalendarEventItem, error) {
	first, next := c.clock.CalendarMonth()

	leaves, err := c.repo.ListCalendarLeaves(ctx, scope, first, next)
	if err != nil {
		return nil, err
	}

	events := make([]stats.CalendarEventItem, 0, len(leaves))
	for _, l := range leaves {
		events = append(events, stats.CalendarEventItem{
			Title: eventTitle(l),
			Start: l.StartDate.Format(dateLayout),
			End:   l.EndDate.Format(dateLayout),
			Type:  "leave",
		})
	}
	return events, nil
}

// eventTitle renders "Jane Doe - Annual Leave"
func eventTitle(l stats.CalendarLeave) string {
	kind := strings.ReplaceAll(strings.ToLower(string(l.Type)), "_", " ")
	if kind == "" {
		return l.EmployeeName
	}
	return fmt.Sprintf("%s - %s%s Leave", l.EmployeeName, strings.ToUpper(kind[:1]), kind[1:])
}
