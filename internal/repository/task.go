package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/zentrixai8-sys/checklist-sub001/internal/config"
	"github.com/zentrixai8-sys/checklist-sub001/internal/dates"
	"github.com/zentrixai8-sys/checklist-sub001/internal/model"
	"github.com/zentrixai8-sys/checklist-sub001/internal/sheet"
)

const (
	defaultTitle     = "Untitled Task"
	defaultFrequency = "one-time"
)

// columnMap pins field names to column indexes for one sheet layout. An
// index of -1 means the sheet has no such column.
type columnMap struct {
	timestamp      int
	taskID         int
	department     int
	givenBy        int
	assignedTo     int
	title          int
	startDate      int
	frequency      int
	completionDate int
	rating         int
	status         int

	// requireTaskID selects the discard rule: rows without a task id are
	// dropped. The checklist page instead drops rows with neither an
	// assignee nor a title.
	requireTaskID bool
}

// The checklist page, the delegation page and the two dashboard views read
// sheets with different column layouts. The four tables are intentionally
// kept separate per call site; unifying them would silently shift fields on
// at least one view.
var checklistColumns = columnMap{
	timestamp: -1, taskID: 0, department: 1, givenBy: 2, assignedTo: 3,
	title: 4, startDate: 5, frequency: 6, completionDate: 7,
	rating: -1, status: -1,
}

var delegationColumns = columnMap{
	timestamp: 0, taskID: 1, department: -1, givenBy: 2, assignedTo: 3,
	title: 4, startDate: 5, frequency: -1, completionDate: 6,
	rating: 7, status: 8,
	requireTaskID: true,
}

var dashboardChecklistColumns = columnMap{
	timestamp: -1, taskID: 0, department: 1, givenBy: 2, assignedTo: 3,
	title: 5, startDate: 6, frequency: 7, completionDate: 10,
	rating: -1, status: -1,
	requireTaskID: true,
}

var dashboardDelegationColumns = columnMap{
	timestamp: 0, taskID: 1, department: -1, givenBy: 2, assignedTo: 3,
	title: 4, startDate: 6, frequency: -1, completionDate: 9,
	rating: 10, status: 11,
	requireTaskID: true,
}

// TaskRepository maps raw sheet rows into task records. The remote feed is
// the only data source; nothing here is persisted.
type TaskRepository struct {
	client *sheet.Client
	cfg    config.UpstreamConfig
}

func NewTaskRepository(client *sheet.Client, cfg config.UpstreamConfig) *TaskRepository {
	return &TaskRepository{client: client, cfg: cfg}
}

// ChecklistTasks returns the checklist sheet mapped and deduplicated by
// (assignee, title); the first occurrence of a pair wins.
func (r *TaskRepository) ChecklistTasks(ctx context.Context) ([]model.Task, error) {
	table, err := r.client.FetchTable(ctx, r.cfg.ChecklistSheet)
	if err != nil {
		return nil, err
	}
	return mapRows(table, checklistColumns, model.ModeChecklist), nil
}

func (r *TaskRepository) DelegationTasks(ctx context.Context) ([]model.Task, error) {
	table, err := r.client.FetchTable(ctx, r.cfg.DelegationSheet)
	if err != nil {
		return nil, err
	}
	return mapRows(table, delegationColumns, model.ModeDelegation), nil
}

// DashboardChecklistTasks reads the checklist sheet through the dashboard
// column layout.
func (r *TaskRepository) DashboardChecklistTasks(ctx context.Context) ([]model.Task, error) {
	table, err := r.client.FetchTable(ctx, r.cfg.ChecklistSheet)
	if err != nil {
		return nil, err
	}
	return mapRows(table, dashboardChecklistColumns, model.ModeChecklist), nil
}

func (r *TaskRepository) DashboardDelegationTasks(ctx context.Context) ([]model.Task, error) {
	table, err := r.client.FetchTable(ctx, r.cfg.DelegationSheet)
	if err != nil {
		return nil, err
	}
	return mapRows(table, dashboardDelegationColumns, model.ModeDelegation), nil
}

// Invalidate evicts every cached sheet payload.
func (r *TaskRepository) Invalidate(ctx context.Context) error {
	return r.client.Invalidate(ctx)
}

// mapRows converts a decoded table into task records. The first row is
// always the header and is skipped. Each layout's discard rule drops rows
// missing their identifying field. Checklist-kind collections are
// deduplicated by normalized (assignee, title).
func mapRows(table *sheet.Table, cols columnMap, kind model.Mode) []model.Task {
	tasks := make([]model.Task, 0, len(table.Rows))
	seen := make(map[string]bool)

	for i, row := range table.Rows {
		if i == 0 {
			continue
		}

		assignedTo := row.Str(cols.assignedTo)
		title := row.Str(cols.title)

		if cols.requireTaskID {
			if row.Str(cols.taskID) == "" {
				continue
			}
		} else if assignedTo == "" && title == "" {
			continue
		}

		if kind == model.ModeChecklist {
			key := dedupKey(assignedTo, title)
			if seen[key] {
				continue
			}
			seen[key] = true
		}

		if assignedTo == "" {
			assignedTo = model.UnassignedName
		}
		if title == "" {
			title = defaultTitle
		}

		task := model.Task{
			ID:             uuid.NewString(),
			Kind:           kind,
			Title:          title,
			Department:     row.Str(cols.department),
			GivenBy:        row.Str(cols.givenBy),
			AssignedTo:     assignedTo,
			TaskID:         row.Str(cols.taskID),
			StartDate:      dates.Normalize(row.Str(cols.startDate)),
			CompletionDate: dates.Normalize(row.Str(cols.completionDate)),
		}

		if kind == model.ModeChecklist {
			task.Frequency = row.Str(cols.frequency)
			if task.Frequency == "" {
				task.Frequency = defaultFrequency
			}
		}

		if kind == model.ModeDelegation {
			task.Timestamp = dates.Normalize(row.Str(cols.timestamp))
			task.Rating = row.Int(cols.rating)
			task.RawStatus = row.Str(cols.status)
		}

		tasks = append(tasks, task)
	}

	return tasks
}

func dedupKey(assignedTo, title string) string {
	return strings.ToLower(strings.TrimSpace(assignedTo)) + "|" + strings.ToLower(strings.TrimSpace(title))
}
