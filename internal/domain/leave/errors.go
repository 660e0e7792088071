package leave

import "errors"

var (
	ErrLeaveTypeNotFound            = errors.New("leave type not found")
	ErrLeaveRequestNotFound         = errors.New("leave request not found")
	ErrLeaveRequestAlreadyProcessed = errors.New("leave request already processed")
	ErrInsufficientBalance          = errors.New("insufficient leave balance")
	ErrInvalidDateRange             = errors.New("end_date must be on or after start_date")
	ErrNotRequestOwner              = errors.New("leave request belongs to another employee")
	ErrNotCurrentApprover           = errors.New("you are not the current approver of this leave request")
	ErrApprovalChainNotFound        = errors.New("approval chain not configured for department")
	ErrInvalidAttachment            = errors.New("attachment type not allowed")
	ErrAttachmentTooLarge           = errors.New("attachment exceeds the maximum size")
	ErrNoWorkingDays                = errors.New("requested range contains no leave days")
)
