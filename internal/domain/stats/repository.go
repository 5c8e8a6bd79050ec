package stats

import (
	"context"
	"time"
)

// AttendanceCounter is the read path of the bucketed chart
type AttendanceCounter interface {
	// CountAttendance counts records with the given status and date in [start, end).
	// Personal scope counts rows; organization scope counts distinct employees.
	CountAttendance(ctx context.Context, scope Scope, start, end time.Time, status AttendanceStatus) (int64, error)
}

// StatsRepository defines the interface for report data access. All methods are read-only.
type StatsRepository interface {
	AttendanceCounter

	// GetEmployee returns the employee within the tenant, or ErrEmployeeNotFound
	GetEmployee(ctx context.Context, companyID, employeeID string) (*Employee, error)

	// CountAttendanceDays returns the number of distinct days with any record in [start, end)
	CountAttendanceDays(ctx context.Context, employeeID string, start, end time.Time) (int64, error)

	// GetAttendanceOnDate returns the record keyed by the exact local-midnight instant, or nil
	GetAttendanceOnDate(ctx context.Context, employeeID string, date time.Time) (*AttendanceRecord, error)

	// ListApprovedLeaves returns the employee's approved requests of the given type
	ListApprovedLeaves(ctx context.Context, employeeID string, leaveType LeaveType) ([]LeaveRequest, error)

	// GetEmployeeTotals returns headcount, payroll and hires with join date in [monthStart, monthEnd)
	GetEmployeeTotals(ctx context.Context, scope Scope, monthStart, monthEnd time.Time) (*EmployeeTotals, error)

	// CountDepartments returns total departments and those with at least one employee in scope
	CountDepartments(ctx context.Context, scope Scope) (*UnitCounts, error)

	// CountPositions returns total positions and those with at least one employee in scope
	CountPositions(ctx context.Context, scope Scope) (*UnitCounts, error)

	// ListRecentEmployees returns the most recently joined employees in scope
	ListRecentEmployees(ctx context.Context, scope Scope, limit int) ([]RecentEmployee, error)

	// GetLeaveCounts returns pending (all-time), approved starting in [monthStart, monthEnd)
	// and rejected updated in [updatedFrom, updatedTo)
	GetLeaveCounts(ctx context.Context, scope Scope, monthStart, monthEnd, updatedFrom, updatedTo time.Time) (*LeaveCounts, error)

	// ListCalendarLeaves returns approved requests whose interval intersects [monthStart, monthEnd)
	ListCalendarLeaves(ctx context.Context, scope Scope, monthStart, monthEnd time.Time) ([]CalendarLeave, error)
}
