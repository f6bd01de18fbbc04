// Package report renders the maintenance ledger and current alert buckets
// into an Excel workbook for dashboard export.
package report

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/example/upkeep/internal/core/alert"
	"github.com/example/upkeep/internal/models"
)

// ErrNoTasks is returned when there is nothing to report on.
var ErrNoTasks = errors.New("failed to generate report, 0 tasks were provided")

const ledgerSheet = "Tasks"

var taskHeaders = []string{
	"Task ID", "Equipment", "Title", "Type", "Priority", "Status",
	"Scheduled", "Completed", "Frequency", "Est. Hours", "Actual Hours", "Assigned To",
}

var alertHeaders = []string{"Task ID", "Equipment", "Title", "Priority", "Scheduled"}

// Generator holds the state for the Excel report generation process.
type Generator struct {
	file *excelize.File
}

// NewGenerator creates a new report generator.
func NewGenerator() *Generator {
	return &Generator{
		file: excelize.NewFile(),
	}
}

// GenerateExcelReport builds a workbook with one "Tasks" ledger sheet and
// one sheet per non-empty alert bucket (overdue, today, upcoming), in that
// order. It returns a bytes.Buffer containing the workbook, or ErrNoTasks
// when the ledger is empty.
func GenerateExcelReport(tasks []*models.Task, alerts []alert.Alert) (*bytes.Buffer, error) {
	if len(tasks) == 0 {
		return nil, ErrNoTasks
	}

	byID := make(map[string]*models.Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}

	gen := NewGenerator()
	defer gen.file.Close()

	if err := gen.addLedgerSheet(tasks); err != nil {
		return nil, fmt.Errorf("failed to add ledger sheet: %w", err)
	}
	if err := gen.addAlertSheets(alerts, byID); err != nil {
		return nil, fmt.Errorf("failed to add alert sheets: %w", err)
	}

	// setup first sheet as active
	gen.file.SetActiveSheet(0)

	// delete default sheet
	if sheetIndex, _ := gen.file.GetSheetIndex("Sheet1"); sheetIndex != -1 {
		if err := gen.file.DeleteSheet("Sheet1"); err != nil {
			return nil, fmt.Errorf("failed to delete default sheet 'Sheet1': %w", err)
		}
	}

	buffer, err := gen.file.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write report to buffer: %w", err)
	}

	return buffer, nil
}

func (g *Generator) addLedgerSheet(tasks []*models.Task) error {
	if _, err := g.file.NewSheet(ledgerSheet); err != nil {
		return err
	}
	if err := g.writeHeaders(ledgerSheet, taskHeaders); err != nil {
		return err
	}

	for i, t := range tasks {
		row := []any{
			t.ID, t.EquipmentID, t.Title, string(t.Type), string(t.Priority), string(t.Status),
			t.ScheduledDate, t.CompletionDate, string(t.Frequency),
			t.EstimatedDuration, t.ActualDuration, t.AssignedTo,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := g.file.SetSheetRow(ledgerSheet, cell, &row); err != nil {
			return err
		}
	}

	return nil
}

func (g *Generator) addAlertSheets(alerts []alert.Alert, byID map[string]*models.Task) error {
	byBucket := make(map[alert.Bucket][]alert.Alert)
	for _, a := range alerts {
		byBucket[a.Bucket] = append(byBucket[a.Bucket], a)
	}

	for _, bucket := range []alert.Bucket{alert.BucketOverdue, alert.BucketToday, alert.BucketUpcoming} {
		bucketAlerts := byBucket[bucket]
		if len(bucketAlerts) == 0 {
			continue
		}

		sheet := sheetName(bucket)
		if _, err := g.file.NewSheet(sheet); err != nil {
			return err
		}
		if err := g.writeHeaders(sheet, alertHeaders); err != nil {
			return err
		}

		for i, a := range bucketAlerts {
			row := []any{a.TaskID, "", "", "", a.ScheduledDate}
			if t, ok := byID[a.TaskID]; ok {
				row[1] = t.EquipmentID
				row[2] = t.Title
				row[3] = string(t.Priority)
			}
			cell, err := excelize.CoordinatesToCellName(1, i+2)
			if err != nil {
				return err
			}
			if err := g.file.SetSheetRow(sheet, cell, &row); err != nil {
				return err
			}
		}
	}

	return nil
}

func (g *Generator) writeHeaders(sheet string, headers []string) error {
	style, err := g.file.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return err
	}

	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := g.file.SetCellValue(sheet, cell, header); err != nil {
			return err
		}
		if err := g.file.SetCellStyle(sheet, cell, cell, style); err != nil {
			return err
		}
	}

	return nil
}

// sheetName maps a bucket to its worksheet title.
func sheetName(b alert.Bucket) string {
	switch b {
	case alert.BucketOverdue:
		return "Overdue"
	case alert.BucketToday:
		return "Due Today"
	default:
		return "Upcoming"
	}
}
