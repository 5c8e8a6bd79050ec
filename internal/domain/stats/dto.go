package stats

import (
	"encoding/json"
	"strings"

	"github.com/cmlabs-hris/hris-analytics/internal/pkg/validator"
)

// ========== REQUEST ==========

// StatsQuery is the query string of the stats endpoints
type StatsQuery struct {
	Range string `query:"range" validate:"omitempty,oneof=week month year"`
}

// Validate normalizes the range to lower case before checking it
func (q *StatsQuery) Validate() error {
	q.Range = strings.ToLower(strings.TrimSpace(q.Range))
	return validator.Struct(q)
}

// ========== ATTENDANCE CHART ==========

// ChartPoint is one bucket of the attendance chart
type ChartPoint struct {
	Date    string `json:"date"` // Bucket label
	Present int64  `json:"present"`
	Late    int64  `json:"late"`
}

// ========== PERSONAL SCOPE ==========

type PersonalReport struct {
	PersonalStats   PersonalStats `json:"personalStats"`
	AttendanceChart []ChartPoint  `json:"attendanceChart"`
}

type PersonalStats struct {
	AttendanceCount int64       `json:"attendanceCount"` // Days with any record this local month
	LeaveBalance    int64       `json:"leaveBalance"`
	TodayStatus     TodayStatus `json:"todayStatus"`
	BaseSalary      float64     `json:"baseSalary"`
}

// ========== ORGANIZATION SCOPE ==========

type OrganizationReport struct {
	TotalEmployees  int64                `json:"totalEmployees"`
	Departments     UnitStats            `json:"departments"`
	Positions       UnitStats            `json:"positions"`
	PresentToday    int64                `json:"presentToday"`
	TodayAttendance TodayAttendance      `json:"todayAttendance"`
	TotalPayroll    float64              `json:"totalPayroll"`
	RecentEmployees []RecentEmployeeItem `json:"recentEmployees"`
	AttendanceChart []ChartPoint         `json:"attendanceChart"`
	LeaveStats      LeaveStats           `json:"leaveStats"`
	EmployeeStats   EmployeeStats        `json:"employeeStats"`
	CalendarEvents  []CalendarEventItem  `json:"calendarEvents"`
}

type UnitStats struct {
	Total  int64 `json:"total"`
	Active int64 `json:"active"` // Units with at least one employee
}

type TodayAttendance struct {
	OnTime int64 `json:"onTime"`
	Late   int64 `json:"late"`
	Absent int64 `json:"absent"`
	Total  int64 `json:"total"`
}

type RecentEmployeeItem struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Position string `json:"position"`
	JoinDate string `json:"joinDate"` // Format: "YYYY-MM-DD"
}

type LeaveStats struct {
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
}

type EmployeeStats struct {
	Total        int64 `json:"total"`
	NewThisMonth int64 `json:"newThisMonth"`
}

type CalendarEventItem struct {
	Title string `json:"title"`
	Start string `json:"start"` // Format: "YYYY-MM-DD"
	End   string `json:"end"`   // Format: "YYYY-MM-DD", inclusive
	Type  string `json:"type"`
}

// ========== COMBINED ==========

// Report carries exactly one of the scoped report bodies
type Report struct {
	Scope        ScopeKind
	Range        RangeMode
	Personal     *PersonalReport
	Organization *OrganizationReport
}

// Chart returns the attendance chart of whichever body is set
func (r *Report) Chart() []ChartPoint {
	if r.Personal != nil {
		return r.Personal.AttendanceChart
	}
	if r.Organization != nil {
		return r.Organization.AttendanceChart
	}
	return nil
}

// MarshalJSON renders the scoped body as the top-level document
func (r *Report) MarshalJSON() ([]byte, error) {
	switch r.Scope {
	case ScopePersonal:
		return json.Marshal(r.Personal)
	case ScopeOrganization:
		return json.Marshal(r.Organization)
	}
	return nil, ErrUnknownScope
}
