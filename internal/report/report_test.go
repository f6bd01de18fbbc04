package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/example/upkeep/internal/core/alert"
	"github.com/example/upkeep/internal/models"
)

func testTasks() []*models.Task {
	return []*models.Task{
		{
			ID:             "MT-0001",
			EquipmentID:    "EQ-001",
			Title:          "grease bearings",
			Priority:       models.PriorityHigh,
			Status:         models.StatusScheduled,
			ScheduledDate:  "2024-06-01",
			Frequency:      models.FrequencyWeekly,
			ActualDuration: 0,
		},
		{
			ID:             "MT-0002",
			EquipmentID:    "EQ-002",
			Title:          "replace filter",
			Priority:       models.PriorityLow,
			Status:         models.StatusCompleted,
			ScheduledDate:  "2024-05-20",
			CompletionDate: "2024-05-21",
			ActualDuration: 2.5,
		},
		{
			ID:            "MT-0003",
			EquipmentID:   "EQ-001",
			Title:         "inspect belt",
			Status:        models.StatusScheduled,
			ScheduledDate: "2024-06-05",
		},
	}
}

func TestGenerateExcelReport(t *testing.T) {
	alerts := []alert.Alert{
		{TaskID: "MT-0001", Bucket: alert.BucketOverdue, ScheduledDate: "2024-06-01"},
		{TaskID: "MT-0003", Bucket: alert.BucketUpcoming, ScheduledDate: "2024-06-05"},
	}

	buffer, err := GenerateExcelReport(testTasks(), alerts)
	require.NoError(t, err)
	require.NotNil(t, buffer)

	file, err := excelize.OpenReader(buffer)
	require.NoError(t, err)
	defer file.Close()

	// Ledger plus the two non-empty buckets; no leftover default sheet.
	assert.Equal(t, []string{"Tasks", "Overdue", "Upcoming"}, file.GetSheetList())

	rows, err := file.GetRows("Tasks")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "Task ID", rows[0][0])
	assert.Equal(t, "MT-0001", rows[1][0])
	assert.Equal(t, "grease bearings", rows[1][2])
	assert.Equal(t, "scheduled", rows[1][5])
	assert.Equal(t, "2024-05-21", rows[2][7])
	assert.Equal(t, "2.5", rows[2][10])

	overdue, err := file.GetRows("Overdue")
	require.NoError(t, err)
	require.Len(t, overdue, 2)
	assert.Equal(t, []string{"Task ID", "Equipment", "Title", "Priority", "Scheduled"}, overdue[0])
	assert.Equal(t, "MT-0001", overdue[1][0])
	assert.Equal(t, "EQ-001", overdue[1][1])
	assert.Equal(t, "high", overdue[1][3])

	upcoming, err := file.GetRows("Upcoming")
	require.NoError(t, err)
	require.Len(t, upcoming, 2)
	assert.Equal(t, "MT-0003", upcoming[1][0])
}

func TestGenerateExcelReportNoAlerts(t *testing.T) {
	buffer, err := GenerateExcelReport(testTasks(), nil)
	require.NoError(t, err)

	file, err := excelize.OpenReader(buffer)
	require.NoError(t, err)
	defer file.Close()

	assert.Equal(t, []string{"Tasks"}, file.GetSheetList())
}

func TestGenerateExcelReportNoTasks(t *testing.T) {
	buffer, err := GenerateExcelReport(nil, nil)
	assert.ErrorIs(t, err, ErrNoTasks)
	assert.Nil(t, buffer)
}
