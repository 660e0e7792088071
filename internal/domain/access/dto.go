package access

import "github.com/dolluzcorp/dtime-backend-go/internal/pkg/validator"

type UpdateAccessLevelRequest struct {
	ID             int64 `json:"-"`
	AdminAccess    *bool `json:"admin_access" validate:"required"`
	SubAdminAccess *bool `json:"subadmin_access" validate:"required"`
	ManagerAccess  *bool `json:"manager_access" validate:"required"`
	UserAccess     *bool `json:"user_access" validate:"required"`
}

func (r *UpdateAccessLevelRequest) Validate() error {
	errs := validator.Struct(r)
	if r.ID <= 0 {
		errs.Add("id", "id must be a positive integer")
	}
	return errs.Err()
}

type AccessLevelResponse struct {
	ID             int64  `json:"id"`
	PageName       Page   `json:"page_name"`
	Category       string `json:"category"`
	AdminAccess    bool   `json:"admin_access"`
	SubAdminAccess bool   `json:"subadmin_access"`
	ManagerAccess  bool   `json:"manager_access"`
	UserAccess     bool   `json:"user_access"`
}

func NewAccessLevelResponse(a AccessLevel) AccessLevelResponse {
	return AccessLevelResponse{
		ID:             a.ID,
		PageName:       a.PageName,
		Category:       a.Category,
		AdminAccess:    a.AdminAccess,
		SubAdminAccess: a.SubAdminAccess,
		ManagerAccess:  a.ManagerAccess,
		UserAccess:     a.UserAccess,
	}
}
