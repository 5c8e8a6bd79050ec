package stats

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultAnnualLeaveQuota applies when an employee has no quota set
const DefaultAnnualLeaveQuota = 12

// RecentEmployeeLimit is the size of the recent hires listing
const RecentEmployeeLimit = 5

type RangeMode string

const (
	RangeWeek  RangeMode = "week"
	RangeMonth RangeMode = "month"
	RangeYear  RangeMode = "year"
)

// ParseRange maps the range query parameter to a mode. An empty value defaults to week.
func ParseRange(s string) (RangeMode, error) {
	switch RangeMode(s) {
	case "":
		return RangeWeek, nil
	case RangeWeek, RangeMonth, RangeYear:
		return RangeMode(s), nil
	}
	return "", ErrInvalidRange
}

// Bucket is a half-open [Start, End) interval of UTC instants
type Bucket struct {
	Label string
	Start time.Time
	End   time.Time
}

// Days returns the bucket width in whole calendar days
func (b Bucket) Days() int {
	return int(b.End.Sub(b.Start) / (24 * time.Hour))
}

type ScopeKind string

const (
	ScopePersonal     ScopeKind = "personal"
	ScopeOrganization ScopeKind = "organization"
)

// Scope is the normalized visibility context every query of a report runs under
type Scope struct {
	Kind              ScopeKind
	CompanyID         string
	EmployeeID        string // Personal only
	ExcludeSuperadmin bool   // Organization only
}

func PersonalScope(companyID, employeeID string) Scope {
	return Scope{Kind: ScopePersonal, CompanyID: companyID, EmployeeID: employeeID}
}

func OrganizationScope(companyID string, excludeSuperadmin bool) Scope {
	return Scope{Kind: ScopeOrganization, CompanyID: companyID, ExcludeSuperadmin: excludeSuperadmin}
}

func (s Scope) IsPersonal() bool {
	return s.Kind == ScopePersonal
}

type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "PRESENT"
	AttendanceLate    AttendanceStatus = "LATE"
)

type LeaveType string

const (
	LeaveAnnual LeaveType = "ANNUAL"
	LeaveSick   LeaveType = "SICK"
)

type LeaveStatus string

const (
	LeavePending  LeaveStatus = "PENDING"
	LeaveApproved LeaveStatus = "APPROVED"
	LeaveRejected LeaveStatus = "REJECTED"
)

type TodayStatus string

const (
	TodayNotCheckedIn TodayStatus = "Not Checked In"
	TodayCheckedOut   TodayStatus = "Checked Out"
	TodayLate         TodayStatus = "Late"
	TodayPresent      TodayStatus = "Present"
)

type Employee struct {
	ID               string
	CompanyID        string
	FullName         string
	AnnualLeaveQuota *int
	BaseSalary       decimal.Decimal
	JoinDate         time.Time
}

// Quota returns the annual leave quota, falling back to the default
func (e *Employee) Quota() int {
	if e.AnnualLeaveQuota == nil {
		return DefaultAnnualLeaveQuota
	}
	return *e.AnnualLeaveQuota
}

// AttendanceRecord is one employee-day. Date is local midnight as a UTC instant.
type AttendanceRecord struct {
	EmployeeID string
	Date       time.Time
	Status     AttendanceStatus
	CheckIn    *time.Time
	CheckOut   *time.Time
}

// LeaveRequest dates are inclusive calendar dates
type LeaveRequest struct {
	EmployeeID string
	Type       LeaveType
	StartDate  time.Time
	EndDate    time.Time
	Status     LeaveStatus
	UpdatedAt  time.Time
}

// Days returns the inclusive calendar day count of the request
func (l LeaveRequest) Days() int {
	start := time.Date(l.StartDate.Year(), l.StartDate.Month(), l.StartDate.Day(), 0, 0, 0, 0, time.UTC)
	end := time.Date(l.EndDate.Year(), l.EndDate.Month(), l.EndDate.Day(), 0, 0, 0, 0, time.UTC)
	return int(end.Sub(start)/(24*time.Hour)) + 1
}

// EmployeeTotals combines headcount, payroll and new hires in a single query
type EmployeeTotals struct {
	Total        int64
	Payroll      decimal.Decimal
	NewThisMonth int64
}

// UnitCounts is a total/active pair for departments or positions
type UnitCounts struct {
	Total  int64
	Active int64
}

// LeaveCounts is the leave request pipeline for the current month
type LeaveCounts struct {
	Pending  int64
	Approved int64
	Rejected int64
}

type RecentEmployee struct {
	ID       string
	FullName string
	Position string
	JoinDate time.Time
}

type CalendarLeave struct {
	EmployeeName string
	Type         LeaveType
	StartDate    time.Time
	EndDate      time.Time
}
