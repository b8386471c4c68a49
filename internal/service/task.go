package service

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/zentrixai8-sys/checklist-sub001/internal/dates"
	"github.com/zentrixai8-sys/checklist-sub001/internal/model"
	"github.com/zentrixai8-sys/checklist-sub001/internal/repository"
)

var ErrInvalidMode = errors.New("invalid mode")
var ErrInvalidView = errors.New("invalid view")

// View tabs over the non-completed task set.
const (
	ViewRecent   = "recent"
	ViewUpcoming = "upcoming"
	ViewOverdue  = "overdue"
)

// TaskFilter carries the list-endpoint query surface: mode, optional view
// tab, free-text search and sort key.
type TaskFilter struct {
	Mode   model.Mode
	View   string
	Search string
	Sort   string
}

type TaskService struct {
	taskRepo *repository.TaskRepository
}

func NewTaskService(taskRepo *repository.TaskRepository) *TaskService {
	return &TaskService{taskRepo: taskRepo}
}

// List fetches one mode's tasks scoped to the viewer. The visibility filter
// runs before anything else; every later step only ever sees the viewer's
// own set.
func (s *TaskService) List(ctx context.Context, viewer model.Viewer, filter TaskFilter) (*model.TaskListResponse, error) {
	var tasks []model.Task
	var err error

	switch filter.Mode {
	case model.ModeChecklist:
		tasks, err = s.taskRepo.ChecklistTasks(ctx)
	case model.ModeDelegation:
		tasks, err = s.taskRepo.DelegationTasks(ctx)
	default:
		return nil, ErrInvalidMode
	}
	if err != nil {
		return nil, err
	}

	tasks = FilterForViewer(tasks, viewer)

	if filter.View != "" {
		day := dates.Today()
		tasks, err = FilterByView(tasks, filter.Mode, filter.View, day)
		if err != nil {
			return nil, err
		}
	}

	if filter.Search != "" {
		tasks = searchTasks(tasks, filter.Search)
	}
	sortTasks(tasks, filter.Sort)

	return &model.TaskListResponse{
		Data: tasks,
		Meta: model.ListMeta{
			Total: len(tasks),
			Mode:  filter.Mode,
			View:  filter.View,
		},
	}, nil
}

// Invalidate clears the cached sheet payloads so the next list or dashboard
// request refetches from the feed.
func (s *TaskService) Invalidate(ctx context.Context) error {
	return s.taskRepo.Invalidate(ctx)
}

// FilterForViewer reduces a task collection to what the viewer may see.
// Admins see everything. Staff see tasks assigned to them, plus tasks they
// gave out for delegation records. The filter is idempotent and must run
// before both table rendering and aggregation.
func FilterForViewer(tasks []model.Task, viewer model.Viewer) []model.Task {
	if viewer.IsAdmin() {
		return tasks
	}

	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if identityMatches(t.AssignedTo, viewer.Identity) {
			out = append(out, t)
			continue
		}
		if t.Kind == model.ModeDelegation && identityMatches(t.GivenBy, viewer.Identity) {
			out = append(out, t)
		}
	}
	return out
}

func identityMatches(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// FilterByView applies one of the recent/upcoming/overdue tabs. Completed
// tasks are always excluded. "Upcoming" is deliberately asymmetric: the
// checklist tab shows tomorrow only, the delegation tab any future day.
func FilterByView(tasks []model.Task, mode model.Mode, view string, day dates.Day) ([]model.Task, error) {
	var keep func(model.Task) bool

	switch view {
	case ViewRecent:
		keep = func(t model.Task) bool { return day.IsToday(t.StartDate) }
	case ViewUpcoming:
		if mode == model.ModeChecklist {
			keep = func(t model.Task) bool { return day.IsTomorrow(t.StartDate) }
		} else {
			keep = func(t model.Task) bool { return day.IsFuture(t.StartDate) }
		}
	case ViewOverdue:
		keep = func(t model.Task) bool { return day.IsPast(t.StartDate) }
	default:
		return nil, ErrInvalidView
	}

	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Completed() {
			continue
		}
		if keep(t) {
			out = append(out, t)
		}
	}
	return out, nil
}

func searchTasks(tasks []model.Task, query string) []model.Task {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return tasks
	}

	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		haystack := strings.ToLower(t.Title + " " + t.AssignedTo + " " + t.Department + " " + t.GivenBy)
		if strings.Contains(haystack, q) {
			out = append(out, t)
		}
	}
	return out
}

// sortTasks orders by start date ("date", unparseable dates last) or by
// assignee ("assignee"); any other key leaves the feed order alone.
func sortTasks(tasks []model.Task, key string) {
	switch key {
	case "date":
		sort.SliceStable(tasks, func(i, j int) bool {
			ti, oki := dates.ParseCanonical(tasks[i].StartDate)
			tj, okj := dates.ParseCanonical(tasks[j].StartDate)
			if oki != okj {
				return oki
			}
			return ti.Before(tj)
		})
	case "assignee":
		sort.SliceStable(tasks, func(i, j int) bool {
			return strings.ToLower(tasks[i].AssignedTo) < strings.ToLower(tasks[j].AssignedTo)
		})
	}
}
