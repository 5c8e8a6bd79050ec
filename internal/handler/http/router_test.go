package http_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-analytics/internal/domain/stats"
	"github.com/cmlabs-hris/hris-analytics/internal/domain/user"
	handler "github.com/cmlabs-hris/hris-analytics/internal/handler/http"
	"github.com/cmlabs-hris/hris-analytics/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-analytics/internal/pkg/spreadsheet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const (
	handlerTestSecret    = "test-secret-key-for-jwt"
	handlerTestAccessExp = "1h"

	testUserID     = "0190a1b2-0000-7000-8000-000000000001"
	testCompanyID  = "0190a1b2-0000-7000-8000-0000000000c1"
	testEmployeeID = "0190a1b2-0000-7000-8000-0000000000e1"
)

type stubStatsService struct {
	report *stats.Report
	err    error

	calls       int
	gotRange    string
	gotIdentity user.Identity
}

func (s *stubStatsService) GetStats(ctx context.Context, rangeMode string) (*stats.Report, error) {
	s.calls++
	s.gotRange = rangeMode
	s.gotIdentity, _ = user.IdentityFromContext(ctx)
	if s.err != nil {
		return nil, s.err
	}
	return s.report, nil
}

func personalReport() *stats.Report {
	return &stats.Report{
		Scope: stats.ScopePersonal,
		Range: stats.RangeWeek,
		Personal: &stats.PersonalReport{
			PersonalStats: stats.PersonalStats{
				AttendanceCount: 3,
				LeaveBalance:    9,
				TodayStatus:     stats.TodayPresent,
				BaseSalary:      7500000.5,
			},
			AttendanceChart: []stats.ChartPoint{
				{Date: "Tue", Present: 1},
				{Date: "Wed", Late: 1},
			},
		},
	}
}

func organizationReport() *stats.Report {
	return &stats.Report{
		Scope: stats.ScopeOrganization,
		Range: stats.RangeMonth,
		Organization: &stats.OrganizationReport{
			TotalEmployees:  10,
			PresentToday:    8,
			TodayAttendance: stats.TodayAttendance{OnTime: 6, Late: 2, Absent: 2, Total: 10},
			AttendanceChart: []stats.ChartPoint{
				{Date: "M1", Present: 4, Late: 1},
				{Date: "M2", Present: 6, Late: 2},
			},
			RecentEmployees: []stats.RecentEmployeeItem{},
			CalendarEvents:  []stats.CalendarEventItem{},
		},
	}
}

type testServer struct {
	router  http.Handler
	jwt     jwt.Service
	service *stubStatsService
}

func newTestServer(t *testing.T, service *stubStatsService) *testServer {
	t.Helper()

	jwtService := jwt.NewJWTService(handlerTestSecret, handlerTestAccessExp)
	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "# metrics\n")
	})

	router := handler.NewRouter(jwtService, handler.NewStatsHandler(service), handler.RouterOptions{
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		Metrics: metrics,
	})
	return &testServer{router: router, jwt: jwtService, service: service}
}

func (s *testServer) token(t *testing.T, id user.Identity) string {
	t.Helper()
	token, _, err := s.jwt.GenerateAccessToken(id)
	require.NoError(t, err)
	return token
}

func (s *testServer) rawToken(t *testing.T, claims map[string]interface{}) string {
	t.Helper()
	_, token, err := s.jwt.JWTAuth().Encode(claims)
	require.NoError(t, err)
	return token
}

func (s *testServer) get(t *testing.T, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func employeeIdentity() user.Identity {
	employeeID := testEmployeeID
	return user.Identity{
		UserID:     testUserID,
		CompanyID:  testCompanyID,
		EmployeeID: &employeeID,
		Role:       user.RoleEmployee,
	}
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestStatsHandler_Get_Personal(t *testing.T) {
	srv := newTestServer(t, &stubStatsService{report: personalReport()})

	rec := srv.get(t, "/api/v1/stats", srv.token(t, employeeIdentity()))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{
		"personalStats": {
			"attendanceCount": 3,
			"leaveBalance": 9,
			"todayStatus": "Present",
			"baseSalary": 7500000.5
		},
		"attendanceChart": [
			{"date": "Tue", "present": 1, "late": 0},
			{"date": "Wed", "present": 0, "late": 1}
		]
	}`, rec.Body.String())

	assert.Equal(t, 1, srv.service.calls)
	assert.Equal(t, "", srv.service.gotRange)
	assert.Equal(t, employeeIdentity(), srv.service.gotIdentity)
}

func TestStatsHandler_Get_RangeNormalized(t *testing.T) {
	srv := newTestServer(t, &stubStatsService{report: organizationReport()})

	rec := srv.get(t, "/api/v1/stats?range=%20MONTH%20", srv.token(t, employeeIdentity()))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "month", srv.service.gotRange)
}

func TestStatsHandler_Get_InvalidRange(t *testing.T) {
	srv := newTestServer(t, &stubStatsService{report: personalReport()})

	rec := srv.get(t, "/api/v1/stats?range=decade", srv.token(t, employeeIdentity()))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "Validation failed", body["error"])
	assert.Equal(t, map[string]interface{}{"range": "must be one of week, month, year"}, body["details"])
	assert.Zero(t, srv.service.calls)
}

func TestStatsHandler_Get_ServiceErrors(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"employee missing", stats.ErrEmployeeNotFound, http.StatusNotFound, "Employee record not found"},
		{"unauthorized", stats.ErrUnauthorized, http.StatusUnauthorized, "Unauthorized"},
		{"storage", assert.AnError, http.StatusInternalServerError, "Internal server error"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			srv := newTestServer(t, &stubStatsService{err: c.err})

			rec := srv.get(t, "/api/v1/stats?range=week", srv.token(t, employeeIdentity()))

			assert.Equal(t, c.status, rec.Code)
			assert.Equal(t, c.msg, decodeError(t, rec)["error"])
		})
	}
}

func TestIdentity_RoleNormalized(t *testing.T) {
	srv := newTestServer(t, &stubStatsService{report: organizationReport()})

	token := srv.rawToken(t, map[string]interface{}{
		jwt.ClaimUserID:     testUserID,
		jwt.ClaimCompanyID:  testCompanyID,
		jwt.ClaimEmployeeID: nil,
		jwt.ClaimRole:       "superadmin",
		jwt.ClaimType:       jwt.TokenTypeAccess,
		"exp":               time.Now().Add(time.Hour).Unix(),
	})
	rec := srv.get(t, "/api/v1/stats", token)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, user.Identity{
		UserID:    testUserID,
		CompanyID: testCompanyID,
		Role:      user.RoleSuperAdmin,
	}, srv.service.gotIdentity)
}

func TestIdentity_Unauthorized(t *testing.T) {
	valid := func() map[string]interface{} {
		return map[string]interface{}{
			jwt.ClaimUserID:     testUserID,
			jwt.ClaimCompanyID:  testCompanyID,
			jwt.ClaimEmployeeID: testEmployeeID,
			jwt.ClaimRole:       "ADMIN",
			jwt.ClaimType:       jwt.TokenTypeAccess,
			"exp":               time.Now().Add(time.Hour).Unix(),
		}
	}
	with := func(key string, value interface{}) map[string]interface{} {
		claims := valid()
		if value == nil {
			delete(claims, key)
		} else {
			claims[key] = value
		}
		return claims
	}

	cases := map[string]map[string]interface{}{
		"refresh token":       with(jwt.ClaimType, jwt.TokenTypeRefresh),
		"missing type":        with(jwt.ClaimType, nil),
		"missing tenant":      with(jwt.ClaimCompanyID, nil),
		"tenant not a uuid":   with(jwt.ClaimCompanyID, "acme"),
		"user not a uuid":     with(jwt.ClaimUserID, "42"),
		"employee not a uuid": with(jwt.ClaimEmployeeID, "e-1"),
		"employee not string": with(jwt.ClaimEmployeeID, 7),
		"unknown role":        with(jwt.ClaimRole, "MANAGER"),
		"missing role":        with(jwt.ClaimRole, nil),
		"expired":             with("exp", time.Now().Add(-time.Hour).Unix()),
	}

	for name, claims := range cases {
		t.Run(name, func(t *testing.T) {
			srv := newTestServer(t, &stubStatsService{report: personalReport()})

			rec := srv.get(t, "/api/v1/stats", srv.rawToken(t, claims))

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "Unauthorized", decodeError(t, rec)["error"])
			assert.Zero(t, srv.service.calls)
		})
	}

	t.Run("no token", func(t *testing.T) {
		srv := newTestServer(t, &stubStatsService{report: personalReport()})

		rec := srv.get(t, "/api/v1/stats", "")

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Unauthorized", decodeError(t, rec)["error"])
	})

	t.Run("wrong signature", func(t *testing.T) {
		srv := newTestServer(t, &stubStatsService{report: personalReport()})
		other := jwt.NewJWTService("another-secret", handlerTestAccessExp)
		token, _, err := other.GenerateAccessToken(employeeIdentity())
		require.NoError(t, err)

		rec := srv.get(t, "/api/v1/stats", token)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestStatsHandler_Export(t *testing.T) {
	srv := newTestServer(t, &stubStatsService{report: organizationReport()})

	rec := srv.get(t, "/api/v1/stats/export?range=month", srv.token(t, employeeIdentity()))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, spreadsheet.ContentType, rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="attendance-month.xlsx"`, rec.Header().Get("Content-Disposition"))

	f, err := excelize.OpenReader(rec.Body)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{spreadsheet.SheetAttendance, spreadsheet.SheetToday}, f.GetSheetList())
	rows, err := f.GetRows(spreadsheet.SheetAttendance)
	require.NoError(t, err)
	assert.Equal(t, []string{"M2", "6", "2"}, rows[2])
}

func TestStatsHandler_Export_ServiceError(t *testing.T) {
	srv := newTestServer(t, &stubStatsService{err: stats.ErrEmployeeNotFound})

	rec := srv.get(t, "/api/v1/stats/export", srv.token(t, employeeIdentity()))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_Ambient(t *testing.T) {
	srv := newTestServer(t, &stubStatsService{})

	t.Run("heartbeat", func(t *testing.T) {
		rec := srv.get(t, "/", "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("metrics", func(t *testing.T) {
		rec := srv.get(t, "/metrics", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "# metrics\n", rec.Body.String())
	})

	t.Run("cors preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/v1/stats", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		req.Header.Set("Access-Control-Request-Method", http.MethodGet)
		rec := httptest.NewRecorder()
		srv.router.ServeHTTP(rec, req)

		assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	})
}
