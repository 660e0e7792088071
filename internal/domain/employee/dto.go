package employee

import (
	"strings"
	"time"

	"github.com/dolluzcorp/dtime-backend-go/internal/pkg/validator"
)

type CreateEmployeeRequest struct {
	FirstName         string  `json:"emp_first_name" validate:"required,max=100"`
	LastName          string  `json:"emp_last_name" validate:"max=100"`
	DOB               *string `json:"dob,omitempty"`
	BloodGroup        *string `json:"blood_group,omitempty" validate:"omitempty,max=5"`
	Email             string  `json:"emp_mail_id" validate:"required,email,max=255"`
	Password          string  `json:"account_pass,omitempty"`
	MobileNo          *string `json:"emp_mobile_no,omitempty" validate:"omitempty,max=20"`
	AlternateMobileNo *string `json:"emp_alternate_mobile_no,omitempty" validate:"omitempty,max=20"`
	DepartmentID      *int64  `json:"emp_department,omitempty"`
	EmpType           *string `json:"emp_type,omitempty"`
	CareerLevel       *string `json:"carrier_level,omitempty"`
	JobPosition       *string `json:"job_position,omitempty"`
	Location          *string `json:"emp_location,omitempty"`
	AccessLevel       Role    `json:"emp_access_level" validate:"required"`
	CreatedBy         string  `json:"-"`
}

func (r *CreateEmployeeRequest) Validate() error {
	r.Email = strings.TrimSpace(strings.ToLower(r.Email))
	errs := validator.Struct(r)

	if r.AccessLevel != "" && !r.AccessLevel.Valid() {
		errs.Add("emp_access_level", ErrInvalidAccessLevel.Error())
	}
	if r.Password != "" && len(r.Password) < 6 {
		errs.Add("account_pass", "account_pass must be at least 6 characters")
	}
	validateDOB(&errs, r.DOB)

	return errs.Err()
}

// ParsedDOB returns the parsed date of birth. Call after Validate.
func (r *CreateEmployeeRequest) ParsedDOB() *time.Time {
	return parseOptionalDate(r.DOB)
}

type UpdateEmployeeRequest struct {
	EmpID             string  `json:"-"`
	FirstName         string  `json:"emp_first_name" validate:"required,max=100"`
	LastName          string  `json:"emp_last_name" validate:"max=100"`
	DOB               *string `json:"dob,omitempty"`
	BloodGroup        *string `json:"blood_group,omitempty" validate:"omitempty,max=5"`
	Email             string  `json:"emp_mail_id" validate:"required,email,max=255"`
	MobileNo          *string `json:"emp_mobile_no,omitempty" validate:"omitempty,max=20"`
	AlternateMobileNo *string `json:"emp_alternate_mobile_no,omitempty" validate:"omitempty,max=20"`
	DepartmentID      *int64  `json:"emp_department,omitempty"`
	EmpType           *string `json:"emp_type,omitempty"`
	CareerLevel       *string `json:"carrier_level,omitempty"`
	JobPosition       *string `json:"job_position,omitempty"`
	Location          *string `json:"emp_location,omitempty"`
	AccessLevel       Role    `json:"emp_access_level" validate:"required"`
	UpdatedBy         string  `json:"-"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	r.Email = strings.TrimSpace(strings.ToLower(r.Email))
	errs := validator.Struct(r)

	if validator.IsEmpty(r.EmpID) {
		errs.Add("emp_id", "emp_id is required")
	}
	if r.AccessLevel != "" && !r.AccessLevel.Valid() {
		errs.Add("emp_access_level", ErrInvalidAccessLevel.Error())
	}
	validateDOB(&errs, r.DOB)

	return errs.Err()
}

func (r *UpdateEmployeeRequest) ParsedDOB() *time.Time {
	return parseOptionalDate(r.DOB)
}

type SetActiveRequest struct {
	EmpID     string `json:"-"`
	IsActive  *bool  `json:"is_active" validate:"required"`
	UpdatedBy string `json:"-"`
}

func (r *SetActiveRequest) Validate() error {
	errs := validator.Struct(r)
	if validator.IsEmpty(r.EmpID) {
		errs.Add("emp_id", "emp_id is required")
	}
	return errs.Err()
}

type DepartmentRequest struct {
	ID        int64  `json:"-"`
	Name      string `json:"department_name" validate:"required,max=100"`
	CreatedBy string `json:"-"`
}

func (r *DepartmentRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	return validator.Struct(r).Err()
}

type EmployeeResponse struct {
	AutoID              int64      `json:"auto_id"`
	EmpID               string     `json:"emp_id"`
	FirstName           string     `json:"emp_first_name"`
	LastName            string     `json:"emp_last_name"`
	FullName            string     `json:"emp_name"`
	DOB                 *string    `json:"dob,omitempty"`
	BloodGroup          *string    `json:"blood_group,omitempty"`
	Email               string     `json:"emp_mail_id"`
	MobileNo            *string    `json:"emp_mobile_no,omitempty"`
	AlternateMobileNo   *string    `json:"emp_alternate_mobile_no,omitempty"`
	DepartmentID        *int64     `json:"emp_department,omitempty"`
	DepartmentName      *string    `json:"department_name,omitempty"`
	EmpType             *string    `json:"emp_type,omitempty"`
	CareerLevel         *string    `json:"carrier_level,omitempty"`
	JobPosition         *string    `json:"job_position,omitempty"`
	Location            *string    `json:"emp_location,omitempty"`
	AccessLevel         Role       `json:"emp_access_level"`
	IsActive            bool       `json:"is_active"`
	PasswordSet         bool       `json:"password_set"`
	CreatedBy           *string    `json:"created_by,omitempty"`
	CreatedTime         time.Time  `json:"created_time"`
	UpdatedTime         *time.Time `json:"updated_time,omitempty"`
	IsActiveUpdatedBy   *string    `json:"is_active_updated_by,omitempty"`
	IsActiveUpdatedTime *time.Time `json:"is_active_updated_time,omitempty"`
}

func NewEmployeeResponse(e Employee) EmployeeResponse {
	var dob *string
	if e.DOB != nil {
		s := e.DOB.Format(validator.DateLayout)
		dob = &s
	}
	return EmployeeResponse{
		AutoID:              e.AutoID,
		EmpID:               e.EmpID,
		FirstName:           e.FirstName,
		LastName:            e.LastName,
		FullName:            e.FullName(),
		DOB:                 dob,
		BloodGroup:          e.BloodGroup,
		Email:               e.Email,
		MobileNo:            e.MobileNo,
		AlternateMobileNo:   e.AlternateMobileNo,
		DepartmentID:        e.DepartmentID,
		DepartmentName:      e.DepartmentName,
		EmpType:             e.EmpType,
		CareerLevel:         e.CareerLevel,
		JobPosition:         e.JobPosition,
		Location:            e.Location,
		AccessLevel:         e.AccessLevel,
		IsActive:            e.IsActive,
		PasswordSet:         e.PasswordHash != nil && *e.PasswordHash != "",
		CreatedBy:           e.CreatedBy,
		CreatedTime:         e.CreatedTime,
		UpdatedTime:         e.UpdatedTime,
		IsActiveUpdatedBy:   e.IsActiveUpdatedBy,
		IsActiveUpdatedTime: e.IsActiveUpdatedTime,
	}
}

type DepartmentResponse struct {
	ID          int64     `json:"department_id"`
	Name        string    `json:"department_name"`
	CreatedTime time.Time `json:"created_time"`
}

func NewDepartmentResponse(d Department) DepartmentResponse {
	return DepartmentResponse{ID: d.ID, Name: d.Name, CreatedTime: d.CreatedTime}
}

func validateDOB(errs *validator.ValidationErrors, dob *string) {
	if dob == nil || validator.IsEmpty(*dob) {
		return
	}
	d, ok := validator.IsValidDate(*dob)
	if !ok {
		errs.Add("dob", "dob must be in YYYY-MM-DD format")
		return
	}
	if d.After(time.Now()) {
		errs.Add("dob", "dob cannot be in the future")
	}
}

func parseOptionalDate(s *string) *time.Time {
	if s == nil || validator.IsEmpty(*s) {
		return nil
	}
	d, ok := validator.IsValidDate(*s)
	if !ok {
		return nil
	}
	return &d
}
