package stats

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-analytics/internal/domain/stats"
	"github.com/cmlabs-hris/hris-analytics/internal/domain/user"
	"github.com/shopspring/decimal"
)

type fakeEmployee struct {
	stats.Employee
	Role         user.Role
	DepartmentID string
	PositionID   string
}

// fakeRepository is an in-memory StatsRepository with the same filters as the SQL one
type fakeRepository struct {
	mu          sync.Mutex
	employees   []fakeEmployee
	attendances []stats.AttendanceRecord
	leaves      []stats.LeaveRequest
	departments map[string]string // id -> company
	positions   map[string]string // id -> title
	positionCo  map[string]string // id -> company
	failOn      string
	failErr     error
	calls       map[string]int
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		departments: map[string]string{},
		positions:   map[string]string{},
		positionCo:  map[string]string{},
		calls:       map[string]int{},
	}
}

func (r *fakeRepository) track(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls[name]++
	if r.failOn == name {
		return r.failErr
	}
	return nil
}

func (r *fakeRepository) inScope(e fakeEmployee, scope stats.Scope) bool {
	if e.CompanyID != scope.CompanyID {
		return false
	}
	if scope.IsPersonal() {
		return e.ID == scope.EmployeeID
	}
	return !(scope.ExcludeSuperadmin && e.Role == user.RoleSuperAdmin)
}

func (r *fakeRepository) employeeByID(id string) (fakeEmployee, bool) {
	for _, e := range r.employees {
		if e.ID == id {
			return e, true
		}
	}
	return fakeEmployee{}, false
}

func (r *fakeRepository) CountAttendance(ctx context.Context, scope stats.Scope, start, end time.Time, status stats.AttendanceStatus) (int64, error) {
	if err := r.track("CountAttendance"); err != nil {
		return 0, err
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	rows := int64(0)
	distinct := map[string]bool{}
	for _, a := range r.attendances {
		e, ok := r.employeeByID(a.EmployeeID)
		if !ok || !r.inScope(e, scope) || a.Status != status {
			continue
		}
		if a.Date.Before(start) || !a.Date.Before(end) {
			continue
		}
		rows++
		distinct[a.EmployeeID] = true
	}
	if scope.IsPersonal() {
		return rows, nil
	}
	return int64(len(distinct)), nil
}

func (r *fakeRepository) GetEmployee(ctx context.Context, companyID, employeeID string) (*stats.Employee, error) {
	if err := r.track("GetEmployee"); err != nil {
		return nil, err
	}
	e, ok := r.employeeByID(employeeID)
	if !ok || e.CompanyID != companyID {
		return nil, stats.ErrEmployeeNotFound
	}
	emp := e.Employee
	return &emp, nil
}

func (r *fakeRepository) CountAttendanceDays(ctx context.Context, employeeID string, start, end time.Time) (int64, error) {
	if err := r.track("CountAttendanceDays"); err != nil {
		return 0, err
	}
	days := map[time.Time]bool{}
	for _, a := range r.attendances {
		if a.EmployeeID == employeeID && !a.Date.Before(start) && a.Date.Before(end) {
			days[a.Date] = true
		}
	}
	return int64(len(days)), nil
}

func (r *fakeRepository) GetAttendanceOnDate(ctx context.Context, employeeID string, date time.Time) (*stats.AttendanceRecord, error) {
	if err := r.track("GetAttendanceOnDate"); err != nil {
		return nil, err
	}
	for _, a := range r.attendances {
		if a.EmployeeID == employeeID && a.Date.Equal(date) {
			rec := a
			return &rec, nil
		}
	}
	return nil, nil
}

func (r *fakeRepository) ListApprovedLeaves(ctx context.Context, employeeID string, leaveType stats.LeaveType) ([]stats.LeaveRequest, error) {
	if err := r.track("ListApprovedLeaves"); err != nil {
		return nil, err
	}
	var out []stats.LeaveRequest
	for _, l := range r.leaves {
		if l.EmployeeID == employeeID && l.Status == stats.LeaveApproved && l.Type == leaveType {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *fakeRepository) GetEmployeeTotals(ctx context.Context, scope stats.Scope, monthStart, monthEnd time.Time) (*stats.EmployeeTotals, error) {
	if err := r.track("GetEmployeeTotals"); err != nil {
		return nil, err
	}
	totals := &stats.EmployeeTotals{Payroll: decimal.Zero}
	for _, e := range r.employees {
		if !r.inScope(e, scope) {
			continue
		}
		totals.Total++
		totals.Payroll = totals.Payroll.Add(e.BaseSalary)
		if !e.JoinDate.Before(monthStart) && e.JoinDate.Before(monthEnd) {
			totals.NewThisMonth++
		}
	}
	return totals, nil
}

func (r *fakeRepository) countUnits(scope stats.Scope, units map[string]string, key func(fakeEmployee) string) *stats.UnitCounts {
	counts := &stats.UnitCounts{}
	for id, company := range units {
		if company != scope.CompanyID {
			continue
		}
		counts.Total++
		for _, e := range r.employees {
			if key(e) == id && r.inScope(e, scope) {
				counts.Active++
				break
			}
		}
	}
	return counts
}

func (r *fakeRepository) CountDepartments(ctx context.Context, scope stats.Scope) (*stats.UnitCounts, error) {
	if err := r.track("CountDepartments"); err != nil {
		return nil, err
	}
	return r.countUnits(scope, r.departments, func(e fakeEmployee) string { return e.DepartmentID }), nil
}

func (r *fakeRepository) CountPositions(ctx context.Context, scope stats.Scope) (*stats.UnitCounts, error) {
	if err := r.track("CountPositions"); err != nil {
		return nil, err
	}
	return r.countUnits(scope, r.positionCo, func(e fakeEmployee) string { return e.PositionID }), nil
}

func (r *fakeRepository) ListRecentEmployees(ctx context.Context, scope stats.Scope, limit int) ([]stats.RecentEmployee, error) {
	if err := r.track("ListRecentEmployees"); err != nil {
		return nil, err
	}
	var out []stats.RecentEmployee
	for _, e := range r.employees {
		if r.inScope(e, scope) {
			out = append(out, stats.RecentEmployee{
				ID:       e.ID,
				FullName: e.FullName,
				Position: r.positions[e.PositionID],
				JoinDate: e.JoinDate,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].JoinDate.Equal(out[j].JoinDate) {
			return out[i].ID > out[j].ID
		}
		return out[i].JoinDate.After(out[j].JoinDate)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeRepository) GetLeaveCounts(ctx context.Context, scope stats.Scope, monthStart, monthEnd, updatedFrom, updatedTo time.Time) (*stats.LeaveCounts, error) {
	if err := r.track("GetLeaveCounts"); err != nil {
		return nil, err
	}
	counts := &stats.LeaveCounts{}
	for _, l := range r.leaves {
		e, ok := r.employeeByID(l.EmployeeID)
		if !ok || !r.inScope(e, scope) {
			continue
		}
		switch l.Status {
		case stats.LeavePending:
			counts.Pending++
		case stats.LeaveApproved:
			if !l.StartDate.Before(monthStart) && l.StartDate.Before(monthEnd) {
				counts.Approved++
			}
		case stats.LeaveRejected:
			if !l.UpdatedAt.Before(updatedFrom) && l.UpdatedAt.Before(updatedTo) {
				counts.Rejected++
			}
		}
	}
	return counts, nil
}

func (r *fakeRepository) ListCalendarLeaves(ctx context.Context, scope stats.Scope, monthStart, monthEnd time.Time) ([]stats.CalendarLeave, error) {
	if err := r.track("ListCalendarLeaves"); err != nil {
		return nil, err
	}
	var out []stats.CalendarLeave
	for _, l := range r.leaves {
		e, ok := r.employeeByID(l.EmployeeID)
		if !ok || !r.inScope(e, scope) || l.Status != stats.LeaveApproved {
			continue
		}
		if l.StartDate.Before(monthEnd) && !l.EndDate.Before(monthStart) {
			out = append(out, stats.CalendarLeave{
				EmployeeName: e.FullName,
				Type:         l.Type,
				StartDate:    l.StartDate,
				EndDate:      l.EndDate,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartDate.Equal(out[j].StartDate) {
			return out[i].EmployeeName < out[j].EmployeeName
		}
		return out[i].StartDate.Before(out[j].StartDate)
	})
	return out, nil
}
