package access

import "github.com/dolluzcorp/dtime-backend-go/internal/domain/employee"

// Page is a screen of the application guarded by the access matrix.
type Page string

const (
	PageDashboard      Page = "Dashboard"
	PageTimesheet      Page = "Timesheet"
	PageLeave          Page = "Leave"
	PageLeaveApprovals Page = "Leave Approvals"
	PageLeaveAdmin     Page = "Leave Admin"
	PageHoliday        Page = "Holiday"
	PageEmployee       Page = "Employee"
	PageConfiguration  Page = "Configuration"
	PageAccessControl  Page = "Access Control"
	PageTimesheetAdmin Page = "Timesheet Admin"
)

// AccessLevel is one row of the role/page matrix.
type AccessLevel struct {
	ID             int64
	PageName       Page
	Category       string
	AdminAccess    bool
	SubAdminAccess bool
	ManagerAccess  bool
	UserAccess     bool
}

// Allows reports whether role may open the page.
func (a AccessLevel) Allows(role employee.Role) bool {
	switch role {
	case employee.RoleAdmin:
		return a.AdminAccess
	case employee.RoleSubAdmin:
		return a.SubAdminAccess
	case employee.RoleManager:
		return a.ManagerAccess
	case employee.RoleUser:
		return a.UserAccess
	}
	return false
}
