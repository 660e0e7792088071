package employee

import (
	"strconv"
	"strings"
	"time"
)

// Role is an employee access level.
type Role string

const (
	RoleAdmin    Role = "Admin"
	RoleSubAdmin Role = "Sub Admin"
	RoleManager  Role = "Manager"
	RoleUser     Role = "User"
)

var Roles = []Role{RoleAdmin, RoleSubAdmin, RoleManager, RoleUser}

func (r Role) Valid() bool {
	for _, role := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

type Employee struct {
	AutoID              int64
	EmpID               string
	FirstName           string
	LastName            string
	DOB                 *time.Time
	BloodGroup          *string
	Email               string
	PasswordHash        *string
	MobileNo            *string
	AlternateMobileNo   *string
	DepartmentID        *int64
	DepartmentName      *string
	EmpType             *string
	CareerLevel         *string
	JobPosition         *string
	Location            *string
	AccessLevel         Role
	IsActive            bool
	CreatedBy           *string
	CreatedTime         time.Time
	UpdatedBy           *string
	UpdatedTime         *time.Time
	DeletedBy           *string
	DeletedTime         *time.Time
	IsActiveUpdatedBy   *string
	IsActiveUpdatedTime *time.Time
}

func (e Employee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

// DepartmentKey is the department identifier as used in scope values.
func (e Employee) DepartmentKey() string {
	if e.DepartmentID == nil {
		return ""
	}
	return strconv.FormatInt(*e.DepartmentID, 10)
}

func (e Employee) Deleted() bool {
	return e.DeletedTime != nil
}

type Department struct {
	ID          int64
	Name        string
	CreatedBy   *string
	CreatedTime time.Time
}
