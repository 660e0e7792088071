package leave

import (
	"fmt"
	"io"

	"github.com/dolluzcorp/dtime-backend-go/internal/domain/leave"
	"github.com/xuri/excelize/v2"
)

const queueSheet = "Leave Approvals"

var queueHeaders = []string{
	"Request ID", "Employee ID", "Employee", "Department", "Leave Type",
	"Start Date", "Start Breakdown", "End Date", "End Breakdown",
	"Requested Days", "Status", "Days Pending", "Level", "Description",
}

func writeQueueWorkbook(items []leave.QueueItemResponse, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), queueSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]any, len(queueHeaders))
	for i, h := range queueHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(queueSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, item := range items {
		row := []any{
			item.ID, item.EmpID, item.EmployeeName, deref(item.DepartmentName), item.LeaveType,
			item.StartDate, string(item.StartBreakdown), item.EndDate, string(item.EndBreakdown),
			item.RequestedDays, string(item.Status), item.DaysPending, int(item.VisibleTo), deref(item.Description),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(queueSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SetPanes(queueSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return fmt.Errorf("failed to freeze header: %w", err)
	}
	_, err := f.WriteTo(w)
	return err
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
