package model

import (
	"strings"

	"github.com/zentrixai8-sys/checklist-sub001/internal/dates"
)

type TaskStatus string

const (
	StatusCompleted TaskStatus = "completed"
	StatusPending   TaskStatus = "pending"
	StatusOverdue   TaskStatus = "overdue"
)

type Mode string

const (
	ModeChecklist  Mode = "checklist"
	ModeDelegation Mode = "delegation"
)

// delegationDoneMarker is the raw status value the delegation sheet uses to
// flag a finished task. Completion for delegation records is driven by this
// marker, not by the completion date column.
const delegationDoneMarker = "Done"

// UnassignedName is attributed to tasks whose assignee cell is blank.
const UnassignedName = "Unassigned"

// Task is a single normalized row from either the checklist or the
// delegation sheet. Dates are canonical DD/MM/YYYY strings or empty;
// unparseable raw values pass through unchanged.
type Task struct {
	ID             string `json:"id"`
	Kind           Mode   `json:"kind"`
	Title          string `json:"title"`
	Department     string `json:"department,omitempty"`
	GivenBy        string `json:"givenBy,omitempty"`
	AssignedTo     string `json:"assignedTo"`
	StartDate      string `json:"startDate,omitempty"`
	Frequency      string `json:"frequency,omitempty"`
	CompletionDate string `json:"completionDate,omitempty"`

	// Delegation-only columns.
	Timestamp string `json:"timestamp,omitempty"`
	TaskID    string `json:"taskId,omitempty"`
	Rating    int    `json:"rating,omitempty"`
	RawStatus string `json:"rawStatus,omitempty"`
}

// Status derives the task state relative to the given day. It is never
// stored: completed when a completion date is present, overdue when the
// start date lies strictly before the day, pending otherwise.
func (t Task) Status(day dates.Day) TaskStatus {
	if t.Completed() {
		return StatusCompleted
	}
	if t.StartDate != "" && day.IsPast(t.StartDate) {
		return StatusOverdue
	}
	return StatusPending
}

// Completed reports whether the task counts as finished. Checklist tasks are
// finished when a completion date is set; delegation tasks only when the
// sheet's raw status marker says so.
func (t Task) Completed() bool {
	if t.Kind == ModeDelegation {
		return strings.TrimSpace(t.RawStatus) == delegationDoneMarker
	}
	return strings.TrimSpace(t.CompletionDate) != ""
}

type Role string

const (
	RoleAdmin Role = "admin"
	RoleStaff Role = "staff"
)

// Viewer is the authenticated actor the dashboard is being rendered for.
type Viewer struct {
	Identity string `json:"identity"`
	Role     Role   `json:"role"`
}

func (v Viewer) IsAdmin() bool {
	return v.Role == RoleAdmin
}

// StaffStats is the per-assignee rollup shown in the staff tables.
type StaffStats struct {
	Name      string `json:"name"`
	Total     int    `json:"total"`
	Completed int    `json:"completed"`
	Pending   int    `json:"pending"`
	Progress  int    `json:"progress"`
	// The two views categorize the same progress number against different
	// threshold tables; both labels are carried so neither view recomputes.
	DashboardTier string `json:"dashboardTier"`
	StaffTier     string `json:"staffTier"`
}

// MonthBucket is one column of the monthly completed/pending histogram.
type MonthBucket struct {
	Month     string `json:"month"`
	Completed int    `json:"completed"`
	Pending   int    `json:"pending"`
}

// Summary is the aggregate view of one mode's task collection, recomputed on
// every fetch and never persisted.
type Summary struct {
	Mode           Mode          `json:"mode"`
	Total          int           `json:"total"`
	Completed      int           `json:"completed"`
	Pending        int           `json:"pending"`
	Overdue        int           `json:"overdue"`
	CompletionRate float64       `json:"completionRate"`
	Monthly        []MonthBucket `json:"monthly"`
	Staff          []StaffStats  `json:"staff"`

	// Delegation completion-count tiers, independent of the counts above.
	CompletedOnce      int `json:"completedOnce,omitempty"`
	CompletedTwice     int `json:"completedTwice,omitempty"`
	CompletedThreePlus int `json:"completedThreePlus,omitempty"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required,max=100"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type AuthResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	TokenType    string `json:"token_type"`
	Viewer       Viewer `json:"viewer"`
}

type TaskListResponse struct {
	Data []Task   `json:"data"`
	Meta ListMeta `json:"meta"`
}

type ListMeta struct {
	Total int    `json:"total"`
	Mode  Mode   `json:"mode"`
	View  string `json:"view,omitempty"`
}
