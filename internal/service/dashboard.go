package service

import (
	"context"
	"math"
	"sort"
	"strings"

	"github.com/zentrixai8-sys/checklist-sub001/internal/dates"
	"github.com/zentrixai8-sys/checklist-sub001/internal/model"
	"github.com/zentrixai8-sys/checklist-sub001/internal/repository"
)

var monthNames = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// TierThresholds categorize a staff progress percentage. The dashboard table
// and the staff table ship different boundary sets for the same concept;
// they stay separate so neither view's labels shift.
type TierThresholds struct {
	High      int
	Mid       int
	HighLabel string
	MidLabel  string
	LowLabel  string
}

var (
	DashboardTiers  = TierThresholds{High: 80, Mid: 60, HighLabel: "Excellent", MidLabel: "Top Performer", LowLabel: "Average"}
	StaffTableTiers = TierThresholds{High: 70, Mid: 40, HighLabel: "Top Performer", MidLabel: "Average", LowLabel: "Needs Improvement"}
)

const tierNoTasks = "No Tasks Assigned"

// Label maps a progress percentage to the tier name, with a dedicated label
// for staff without any counted tasks.
func (tt TierThresholds) Label(progress, total int) string {
	if total == 0 {
		return tierNoTasks
	}
	switch {
	case progress >= tt.High:
		return tt.HighLabel
	case progress >= tt.Mid:
		return tt.MidLabel
	default:
		return tt.LowLabel
	}
}

type DashboardService struct {
	taskRepo *repository.TaskRepository
}

func NewDashboardService(taskRepo *repository.TaskRepository) *DashboardService {
	return &DashboardService{taskRepo: taskRepo}
}

// Summary fetches one mode's tasks through the dashboard column layout,
// scopes them to the viewer and folds them into aggregate statistics. The
// reference day is captured once so every comparison in the pass agrees on
// "today".
func (s *DashboardService) Summary(ctx context.Context, viewer model.Viewer, mode model.Mode) (*model.Summary, error) {
	var tasks []model.Task
	var err error

	switch mode {
	case model.ModeChecklist:
		tasks, err = s.taskRepo.DashboardChecklistTasks(ctx)
	case model.ModeDelegation:
		tasks, err = s.taskRepo.DashboardDelegationTasks(ctx)
	default:
		return nil, ErrInvalidMode
	}
	if err != nil {
		return nil, err
	}

	tasks = FilterForViewer(tasks, viewer)
	return Aggregate(tasks, mode, dates.Today()), nil
}

// Aggregate folds a visibility-filtered task collection into a Summary.
//
// Checklist mode counts only tasks whose start date is on or before the day;
// future-dated tasks stay out of every count (they remain visible in table
// views). Tasks without a parseable start date are counted as pending.
// Delegation mode counts every record and additionally tiers completed tasks
// by their completion-count rating.
//
// Pending absorbs overdue: pending = total - completed, with overdue
// reported separately for display. The per-staff rollup is built from the
// same counted set as the global totals.
func Aggregate(tasks []model.Task, mode model.Mode, day dates.Day) *model.Summary {
	counted := tasks
	if mode == model.ModeChecklist {
		counted = make([]model.Task, 0, len(tasks))
		for _, t := range tasks {
			if day.IsFuture(t.StartDate) {
				continue
			}
			counted = append(counted, t)
		}
	}

	summary := &model.Summary{Mode: mode}

	monthly := make(map[string]*model.MonthBucket, len(monthNames))
	for _, name := range monthNames {
		monthly[name] = &model.MonthBucket{Month: name}
	}

	staff := make(map[string]*model.StaffStats)
	var staffOrder []string

	for _, t := range counted {
		summary.Total++

		name := strings.TrimSpace(t.AssignedTo)
		if name == "" {
			name = model.UnassignedName
		}
		st, ok := staff[name]
		if !ok {
			st = &model.StaffStats{Name: name}
			staff[name] = st
			staffOrder = append(staffOrder, name)
		}
		st.Total++

		if t.Completed() {
			summary.Completed++
			st.Completed++
			monthly[day.MonthOf(t.CompletionDate)].Completed++

			if mode == model.ModeDelegation {
				switch {
				case t.Rating >= 3:
					summary.CompletedThreePlus++
				case t.Rating == 2:
					summary.CompletedTwice++
				case t.Rating == 1:
					summary.CompletedOnce++
				}
			}
			continue
		}

		// Pending tasks land in the month of their own start date, not the
		// current month; undated tasks fall back to the current month.
		monthly[day.MonthOf(t.StartDate)].Pending++

		if t.StartDate != "" && day.IsPast(t.StartDate) {
			summary.Overdue++
		}
	}

	summary.Pending = summary.Total - summary.Completed
	if summary.Total > 0 {
		rate := float64(summary.Completed) / float64(summary.Total) * 100
		summary.CompletionRate = math.Round(rate*10) / 10
	}

	summary.Monthly = make([]model.MonthBucket, 0, len(monthNames))
	for _, name := range monthNames {
		summary.Monthly = append(summary.Monthly, *monthly[name])
	}

	sort.Strings(staffOrder)
	summary.Staff = make([]model.StaffStats, 0, len(staffOrder))
	for _, name := range staffOrder {
		st := staff[name]
		st.Pending = st.Total - st.Completed
		if st.Total > 0 {
			st.Progress = int(math.Round(float64(st.Completed) / float64(st.Total) * 100))
		}
		st.DashboardTier = DashboardTiers.Label(st.Progress, st.Total)
		st.StaffTier = StaffTableTiers.Label(st.Progress, st.Total)
		summary.Staff = append(summary.Staff, *st)
	}

	return summary
}
