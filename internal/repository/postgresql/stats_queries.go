package postgresql

// scopedEmployeesCTE restricts employees to the tenant ($1), optionally hiding superadmin
// accounts ($2). Soft-deleted employees are never in scope.
const scopedEmployeesCTE = `
WITH scoped AS (
    SELECT e.id, e.full_name, e.department_id, e.position_id, e.base_salary, e.join_date
    FROM employees e
    LEFT JOIN users u ON u.id = e.user_id
    WHERE e.company_id = $1
        AND e.deleted_at IS NULL
        AND ($2::boolean = FALSE OR UPPER(u.role) IS DISTINCT FROM 'SUPERADMIN')
)
`

const CountPersonalAttendanceSQL = `
SELECT COUNT(*)
FROM attendances a
JOIN employees e ON e.id = a.employee_id
WHERE a.employee_id = $1
    AND e.company_id = $2
    AND a.status = $3
    AND a.date >= $4
    AND a.date < $5
`

const CountOrganizationAttendanceSQL = scopedEmployeesCTE + `
SELECT COUNT(DISTINCT a.employee_id)
FROM attendances a
JOIN scoped s ON s.id = a.employee_id
WHERE a.status = $3
    AND a.date >= $4
    AND a.date < $5
`

const GetEmployeeSQL = `
SELECT
    e.id::text,
    e.company_id::text,
    e.full_name,
    e.annual_leave_quota,
    COALESCE(e.base_salary, 0)::text,
    e.join_date
FROM employees e
WHERE e.id = $1
    AND e.company_id = $2
    AND e.deleted_at IS NULL
`

const CountAttendanceDaysSQL = `
SELECT COUNT(DISTINCT a.date)
FROM attendances a
WHERE a.employee_id = $1
    AND a.date >= $2
    AND a.date < $3
`

const GetAttendanceOnDateSQL = `
SELECT a.employee_id::text, a.date, a.status, a.check_in, a.check_out
FROM attendances a
WHERE a.employee_id = $1
    AND a.date = $2
LIMIT 1
`

const ListApprovedLeavesSQL = `
SELECT lr.employee_id::text, lr.type, lr.start_date, lr.end_date, lr.status, lr.updated_at
FROM leave_requests lr
WHERE lr.employee_id = $1
    AND lr.type = $2
    AND lr.status = 'APPROVED'
ORDER BY lr.start_date
`

const GetEmployeeTotalsSQL = scopedEmployeesCTE + `
SELECT
    COUNT(*),
    COALESCE(SUM(s.base_salary), 0)::text,
    COUNT(*) FILTER (WHERE s.join_date >= $3 AND s.join_date < $4)
FROM scoped s
`

const CountDepartmentsSQL = scopedEmployeesCTE + `
SELECT
    COUNT(*),
    COUNT(*) FILTER (WHERE EXISTS (SELECT 1 FROM scoped s WHERE s.department_id = d.id))
FROM departments d
WHERE d.company_id = $1
`

const CountPositionsSQL = scopedEmployeesCTE + `
SELECT
    COUNT(*),
    COUNT(*) FILTER (WHERE EXISTS (SELECT 1 FROM scoped s WHERE s.position_id = p.id))
FROM positions p
WHERE p.company_id = $1
`

const ListRecentEmployeesSQL = scopedEmployeesCTE + `
SELECT s.id::text, s.full_name, COALESCE(p.title, ''), s.join_date
FROM scoped s
LEFT JOIN positions p ON p.id = s.position_id
ORDER BY s.join_date DESC, s.id DESC
LIMIT $3
`

const GetLeaveCountsSQL = scopedEmployeesCTE + `
SELECT
    COUNT(*) FILTER (WHERE lr.status = 'PENDING'),
    COUNT(*) FILTER (WHERE lr.status = 'APPROVED' AND lr.start_date >= $3 AND lr.start_date < $4),
    COUNT(*) FILTER (WHERE lr.status = 'REJECTED' AND lr.updated_at >= $5 AND lr.updated_at < $6)
FROM leave_requests lr
JOIN scoped s ON s.id = lr.employee_id
`

const ListCalendarLeavesSQL = scopedEmployeesCTE + `
SELECT s.full_name, lr.type, lr.start_date, lr.end_date
FROM leave_requests lr
JOIN scoped s ON s.id = lr.employee_id
WHERE lr.status = 'APPROVED'
    AND lr.start_date < $4
    AND lr.end_date >= $3
ORDER BY lr.start_date, s.full_name
`
