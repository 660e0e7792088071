package project

import (
	"fmt"
	"time"
)

type Project struct {
	AutoID      int64
	ProjectID   string
	Name        string
	CreatedBy   string
	CreatedTime time.Time
	UpdatedBy   *string
	UpdatedTime *time.Time
	DeletedBy   *string
	DeletedTime *time.Time
}

type Task struct {
	AutoID      int64
	ProjectID   string
	Description string
	CreatedBy   string
	CreatedTime time.Time
	UpdatedBy   *string
	UpdatedTime *time.Time
	DeletedBy   *string
	DeletedTime *time.Time
}

// FormatProjectID renders the public project identifier for an inserted row.
func FormatProjectID(autoID int64) string {
	return fmt.Sprintf("PRJ-%04d", autoID)
}
