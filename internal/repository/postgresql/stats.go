package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-analytics/internal/domain/stats"
	"github.com/cmlabs-hris/hris-analytics/internal/pkg/database"
	"github.com/cmlabs-hris/hris-analytics/internal/pkg/metrics"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type statsRepositoryImpl struct {
	db      database.Querier
	metrics *metrics.Metrics
}

func NewStatsRepository(db database.Querier, m *metrics.Metrics) stats.StatsRepository {
	return &statsRepositoryImpl{db: db, metrics: m}
}

// CountAttendance counts rows for a personal scope and distinct employees for an organization
func (r *statsRepositoryImpl) CountAttendance(ctx context.Context, scope stats.Scope, start, end time.Time, status stats.AttendanceStatus) (int64, error) {
	defer r.metrics.ObserveQuery("count_attendance", time.Now())

	var row pgx.Row
	switch scope.Kind {
	case stats.ScopePersonal:
		row = r.db.QueryRow(ctx, CountPersonalAttendanceSQL, scope.EmployeeID, scope.CompanyID, string(status), start, end)
	case stats.ScopeOrganization:
		row = r.db.QueryRow(ctx, CountOrganizationAttendanceSQL, scope.CompanyID, scope.ExcludeSuperadmin, string(status), start, end)
	default:
		return 0, stats.ErrUnknownScope
	}

	var count int64
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count attendance: %w", err)
	}
	return count, nil
}

func (r *statsRepositoryImpl) GetEmployee(ctx context.Context, companyID, employeeID string) (*stats.Employee, error) {
	defer r.metrics.ObserveQuery("get_employee", time.Now())

	var (
		emp    stats.Employee
		salary string
	)
	err := r.db.QueryRow(ctx, GetEmployeeSQL, employeeID, companyID).Scan(
		&emp.ID, &emp.CompanyID, &emp.FullName, &emp.AnnualLeaveQuota, &salary, &emp.JoinDate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, stats.ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}

	emp.BaseSalary, err = decimal.NewFromString(salary)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base salary %q: %w", salary, err)
	}
	return &emp, nil
}

func (r *statsRepositoryImpl) CountAttendanceDays(ctx context.Context, employeeID string, start, end time.Time) (int64, error) {
	defer r.metrics.ObserveQuery("count_attendance_days", time.Now())

	var count int64
	if err := r.db.QueryRow(ctx, CountAttendanceDaysSQL, employeeID, start, end).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count attendance days: %w", err)
	}
	return count, nil
}

// GetAttendanceOnDate returns nil, nil when the employee has no record for date
func (r *statsRepositoryImpl) GetAttendanceOnDate(ctx context.Context, employeeID string, date time.Time) (*stats.AttendanceRecord, error) {
	defer r.metrics.ObserveQuery("get_attendance_on_date", time.Now())

	var (
		rec    stats.AttendanceRecord
		status string
	)
	err := r.db.QueryRow(ctx, GetAttendanceOnDateSQL, employeeID, date).Scan(
		&rec.EmployeeID, &rec.Date, &status, &rec.CheckIn, &rec.CheckOut,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance: %w", err)
	}
	rec.Status = stats.AttendanceStatus(status)
	return &rec, nil
}

func (r *statsRepositoryImpl) ListApprovedLeaves(ctx context.Context, employeeID string, leaveType stats.LeaveType) ([]stats.LeaveRequest, error) {
	defer r.metrics.ObserveQuery("list_approved_leaves", time.Now())

	rows, err := r.db.Query(ctx, ListApprovedLeavesSQL, employeeID, string(leaveType))
	if err != nil {
		return nil, fmt.Errorf("failed to query leave requests: %w", err)
	}
	defer rows.Close()

	var leaves []stats.LeaveRequest
	for rows.Next() {
		var (
			l            stats.LeaveRequest
			kind, status string
		)
		if err := rows.Scan(&l.EmployeeID, &kind, &l.StartDate, &l.EndDate, &status, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan leave request: %w", err)
		}
		l.Type = stats.LeaveType(kind)
		l.Status = stats.LeaveStatus(status)
		leaves = append(leaves, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate leave requests: %w", err)
	}
	return leaves, nil
}

func (r *statsRepositoryImpl) GetEmployeeTotals(ctx context.Context, scope stats.Scope, monthStart, monthEnd time.Time) (*stats.EmployeeTotals, error) {
	defer r.metrics.ObserveQuery("employee_totals", time.Now())

	var (
		totals  stats.EmployeeTotals
		payroll string
	)
	err := r.db.QueryRow(ctx, GetEmployeeTotalsSQL, scope.CompanyID, scope.ExcludeSuperadmin, monthStart, monthEnd).Scan(
		&totals.Total, &payroll, &totals.NewThisMonth,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get employee totals: %w", err)
	}

	totals.Payroll, err = decimal.NewFromString(payroll)
	if err != nil {
		return nil, fmt.Errorf("failed to parse payroll %q: %w", payroll, err)
	}
	return &totals, nil
}

func (r *statsRepositoryImpl) CountDepartments(ctx context.Context, scope stats.Scope) (*stats.UnitCounts, error) {
	defer r.metrics.ObserveQuery("count_departments", time.Now())
	return r.countUnits(ctx, CountDepartmentsSQL, scope, "departments")
}

func (r *statsRepositoryImpl) CountPositions(ctx context.Context, scope stats.Scope) (*stats.UnitCounts, error) {
	defer r.metrics.ObserveQuery("count_positions", time.Now())
	return r.countUnits(ctx, CountPositionsSQL, scope, "positions")
}

func (r *statsRepositoryImpl) countUnits(ctx context.Context, query string, scope stats.Scope, unit string) (*stats.UnitCounts, error) {
	var counts stats.UnitCounts
	if err := r.db.QueryRow(ctx, query, scope.CompanyID, scope.ExcludeSuperadmin).Scan(&counts.Total, &counts.Active); err != nil {
		return nil, fmt.Errorf("failed to count %s: %w", unit, err)
	}
	return &counts, nil
}

func (r *statsRepositoryImpl) ListRecentEmployees(ctx context.Context, scope stats.Scope, limit int) ([]stats.RecentEmployee, error) {
	defer r.metrics.ObserveQuery("list_recent_employees", time.Now())

	rows, err := r.db.Query(ctx, ListRecentEmployeesSQL, scope.CompanyID, scope.ExcludeSuperadmin, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent employees: %w", err)
	}
	defer rows.Close()

	recent := make([]stats.RecentEmployee, 0, limit)
	for rows.Next() {
		var e stats.RecentEmployee
		if err := rows.Scan(&e.ID, &e.FullName, &e.Position, &e.JoinDate); err != nil {
			return nil, fmt.Errorf("failed to scan recent employee: %w", err)
		}
		recent = append(recent, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate recent employees: %w", err)
	}
	return recent, nil
}

func (r *statsRepositoryImpl) GetLeaveCounts(ctx context.Context, scope stats.Scope, monthStart, monthEnd, updatedFrom, updatedTo time.Time) (*stats.LeaveCounts, error) {
	defer r.metrics.ObserveQuery("leave_counts", time.Now())

	var counts stats.LeaveCounts
	err := r.db.QueryRow(ctx, GetLeaveCountsSQL,
		scope.CompanyID, scope.ExcludeSuperadmin, monthStart, monthEnd, updatedFrom, updatedTo,
	).Scan(&counts.Pending, &counts.Approved, &counts.Rejected)
	if err != nil {
		return nil, fmt.Errorf("failed to get leave counts: %w", err)
	}
	return &counts, nil
}

func (r *statsRepositoryImpl) ListCalendarLeaves(ctx context.Context, scope stats.Scope, monthStart, monthEnd time.Time) ([]stats.CalendarLeave, error) {
	defer r.metrics.ObserveQuery("list_calendar_leaves", time.Now())

	rows, err := r.db.Query(ctx, ListCalendarLeavesSQL, scope.CompanyID, scope.ExcludeSuperadmin, monthStart, monthEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to query calendar leaves: %w", err)
	}
	defer rows.Close()

	var leaves []stats.CalendarLeave
	for rows.Next() {
		var (
			l    stats.CalendarLeave
			kind string
		)
		if err := rows.Scan(&l.EmployeeName, &kind, &l.StartDate, &l.EndDate); err != nil {
			return nil, fmt.Errorf("failed to scan calendar leave: %w", err)
		}
		l.Type = stats.LeaveType(kind)
		leaves = append(leaves, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate calendar leaves: %w", err)
	}
	return leaves, nil
}
