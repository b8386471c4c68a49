package service

import (
	"testing"

	"github.com/zentrixai8-sys/checklist-sub001/internal/model"
)

func TestTaskStatus_derivation(t *testing.T) {
	tests := []struct {
		name string
		task model.Task
		want model.TaskStatus
	}{
		{"completion date wins over past start", checklistTask("a", "t", "01/01/2020", "02/01/2020"), model.StatusCompleted},
		{"completion date wins over future start", checklistTask("a", "t", "01/01/2030", "02/01/2020"), model.StatusCompleted},
		{"past start without completion is overdue", checklistTask("a", "t", "03/07/2025", ""), model.StatusOverdue},
		{"today is pending", checklistTask("a", "t", "04/07/2025", ""), model.StatusPending},
		{"future is pending", checklistTask("a", "t", "10/07/2025", ""), model.StatusPending},
		{"no dates is pending", checklistTask("a", "t", "", ""), model.StatusPending},
		{"unparseable start is pending", checklistTask("a", "t", "soon", ""), model.StatusPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.task.Status(testDay); got != tt.want {
				t.Errorf("Status = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAggregate_checklistDateCeiling(t *testing.T) {
	tasks := []model.Task{
		checklistTask("Alice", "done", "01/07/2025", "02/07/2025"),
		checklistTask("Alice", "late", "01/07/2025", ""),
		checklistTask("Bob", "today", "04/07/2025", ""),
		// future-dated: visible in tables but excluded from every count
		checklistTask("Bob", "future", "10/07/2025", ""),
	}

	got := Aggregate(tasks, model.ModeChecklist, testDay)

	if got.Total != 3 {
		t.Errorf("Total = %d, want 3 (future task excluded)", got.Total)
	}
	if got.Completed != 1 || got.Pending != 2 || got.Overdue != 1 {
		t.Errorf("counts = %d/%d/%d, want 1/2/1", got.Completed, got.Pending, got.Overdue)
	}
	if got.CompletionRate != 33.3 {
		t.Errorf("CompletionRate = %v, want 33.3", got.CompletionRate)
	}
}

func TestAggregate_invariants(t *testing.T) {
	collections := map[string][]model.Task{
		"empty": nil,
		"mixed checklist": {
			checklistTask("Alice", "a", "01/07/2025", "02/07/2025"),
			checklistTask("Alice", "b", "01/07/2025", ""),
			checklistTask("Bob", "c", "", ""),
			checklistTask("Bob", "d", "garbage date", ""),
			checklistTask("Carol", "e", "04/07/2025", ""),
		},
		"mixed delegation": {
			delegationTask("Alice", "Boss", "01/07/2025", "Done", 1),
			delegationTask("Alice", "Boss", "01/07/2025", "Pending", 0),
			delegationTask("Bob", "Boss", "10/07/2025", "", 0),
		},
	}

	for name, tasks := range collections {
		mode := model.ModeChecklist
		if name == "mixed delegation" {
			mode = model.ModeDelegation
		}
		got := Aggregate(tasks, mode, testDay)

		if got.Completed+got.Pending != got.Total {
			t.Errorf("%s: completed(%d) + pending(%d) != total(%d)", name, got.Completed, got.Pending, got.Total)
		}
		if got.Overdue > got.Pending {
			t.Errorf("%s: overdue(%d) > pending(%d)", name, got.Overdue, got.Pending)
		}

		var staffTotal int
		for _, st := range got.Staff {
			if st.Completed+st.Pending != st.Total {
				t.Errorf("%s: staff %s counts inconsistent: %+v", name, st.Name, st)
			}
			staffTotal += st.Total
		}
		if staffTotal != got.Total {
			t.Errorf("%s: staff totals sum to %d, want %d", name, staffTotal, got.Total)
		}
	}
}

// One overdue checklist task, staff viewer: the smallest end-to-end
// aggregation case.
func TestAggregate_staffViewerSingleOverdueTask(t *testing.T) {
	yesterday := "03/07/2025"
	tasks := []model.Task{
		checklistTask("Alice", "File report", yesterday, ""),
		checklistTask("Bob", "Not hers", yesterday, ""),
	}

	visible := FilterForViewer(tasks, model.Viewer{Identity: "Alice", Role: model.RoleStaff})
	got := Aggregate(visible, model.ModeChecklist, testDay)

	if got.Total != 1 || got.Completed != 0 || got.Pending != 1 || got.Overdue != 1 {
		t.Errorf("counts = %d/%d/%d/%d, want 1/0/1/1", got.Total, got.Completed, got.Pending, got.Overdue)
	}
	if got.CompletionRate != 0 {
		t.Errorf("CompletionRate = %v, want 0", got.CompletionRate)
	}
	if len(got.Staff) != 1 || got.Staff[0].Name != "Alice" || got.Staff[0].Progress != 0 {
		t.Errorf("staff rollup = %+v", got.Staff)
	}
}

func TestAggregate_delegationDoneMarkerAndTiers(t *testing.T) {
	tasks := []model.Task{
		delegationTask("Alice", "Boss", "01/07/2025", "Done", 2),
		delegationTask("Alice", "Boss", "01/07/2025", "Done", 1),
		delegationTask("Alice", "Boss", "01/07/2025", "Done", 5),
		// completion date alone does not complete a delegation task
		func() model.Task {
			task := delegationTask("Bob", "Boss", "01/07/2025", "In Progress", 0)
			task.CompletionDate = "02/07/2025"
			return task
		}(),
	}

	got := Aggregate(tasks, model.ModeDelegation, testDay)

	if got.Total != 4 {
		t.Errorf("Total = %d, want 4 (no date ceiling in delegation mode)", got.Total)
	}
	if got.Completed != 3 {
		t.Errorf("Completed = %d, want 3 (only Done markers)", got.Completed)
	}
	if got.CompletedOnce != 1 || got.CompletedTwice != 1 || got.CompletedThreePlus != 1 {
		t.Errorf("tiers = %d/%d/%d, want 1/1/1", got.CompletedOnce, got.CompletedTwice, got.CompletedThreePlus)
	}
}

func TestAggregate_delegationRatingTwoIncrementsOnlyItsTier(t *testing.T) {
	base := Aggregate([]model.Task{
		delegationTask("Alice", "Boss", "", "Done", 1),
	}, model.ModeDelegation, testDay)

	withTwo := Aggregate([]model.Task{
		delegationTask("Alice", "Boss", "", "Done", 1),
		delegationTask("Alice", "Boss", "", "Done", 2),
	}, model.ModeDelegation, testDay)

	if withTwo.CompletedTwice != base.CompletedTwice+1 {
		t.Errorf("CompletedTwice = %d, want %d", withTwo.CompletedTwice, base.CompletedTwice+1)
	}
	if withTwo.CompletedOnce != base.CompletedOnce {
		t.Errorf("CompletedOnce moved: %d -> %d", base.CompletedOnce, withTwo.CompletedOnce)
	}
	if withTwo.CompletedThreePlus != base.CompletedThreePlus {
		t.Errorf("CompletedThreePlus moved: %d -> %d", base.CompletedThreePlus, withTwo.CompletedThreePlus)
	}
}

func TestAggregate_monthlyHistogram(t *testing.T) {
	tasks := []model.Task{
		checklistTask("Alice", "done in march", "01/03/2025", "15/03/2025"),
		checklistTask("Alice", "pending from may", "10/05/2025", ""),
		checklistTask("Alice", "pending undated", "", ""),
	}

	got := Aggregate(tasks, model.ModeChecklist, testDay)

	buckets := make(map[string]model.MonthBucket)
	for _, b := range got.Monthly {
		buckets[b.Month] = b
	}

	if buckets["Mar"].Completed != 1 {
		t.Errorf("Mar completed = %d, want 1", buckets["Mar"].Completed)
	}
	// pending tasks bucket by their own start month, undated ones by the
	// reference day's month
	if buckets["May"].Pending != 1 {
		t.Errorf("May pending = %d, want 1", buckets["May"].Pending)
	}
	if buckets["Jul"].Pending != 1 {
		t.Errorf("Jul pending = %d, want 1", buckets["Jul"].Pending)
	}
	if len(got.Monthly) != 12 {
		t.Errorf("histogram has %d buckets, want 12", len(got.Monthly))
	}
}

func TestAggregate_staffProgressAndTiers(t *testing.T) {
	var tasks []model.Task
	// Alice: 5 of 6 complete -> 83%; Bob: 2 of 3 -> 67%; Carol: 0 of 3 -> 0%
	for i := 0; i < 6; i++ {
		done := ""
		if i < 5 {
			done = "01/07/2025"
		}
		tasks = append(tasks, checklistTask("Alice", string(rune('a'+i)), "01/07/2025", done))
	}
	for i := 0; i < 3; i++ {
		done := ""
		if i < 2 {
			done = "01/07/2025"
		}
		tasks = append(tasks, checklistTask("Bob", string(rune('a'+i)), "01/07/2025", done))
	}
	for i := 0; i < 3; i++ {
		tasks = append(tasks, checklistTask("Carol", string(rune('a'+i)), "01/07/2025", ""))
	}

	got := Aggregate(tasks, model.ModeChecklist, testDay)

	byName := make(map[string]model.StaffStats)
	for _, st := range got.Staff {
		byName[st.Name] = st
	}

	alice := byName["Alice"]
	if alice.Progress != 83 || alice.DashboardTier != "Excellent" || alice.StaffTier != "Top Performer" {
		t.Errorf("Alice = %+v", alice)
	}
	bob := byName["Bob"]
	if bob.Progress != 67 || bob.DashboardTier != "Top Performer" || bob.StaffTier != "Average" {
		t.Errorf("Bob = %+v", bob)
	}
	carol := byName["Carol"]
	if carol.Progress != 0 || carol.DashboardTier != "Average" || carol.StaffTier != "Needs Improvement" {
		t.Errorf("Carol = %+v", carol)
	}
}

func TestTierThresholds_labels(t *testing.T) {
	tests := []struct {
		progress, total int
		wantDashboard   string
		wantStaff       string
	}{
		{0, 0, "No Tasks Assigned", "No Tasks Assigned"},
		{100, 5, "Excellent", "Top Performer"},
		{80, 5, "Excellent", "Top Performer"},
		{70, 5, "Top Performer", "Top Performer"},
		{60, 5, "Top Performer", "Average"},
		{40, 5, "Average", "Average"},
		{39, 5, "Average", "Needs Improvement"},
	}

	for _, tt := range tests {
		if got := DashboardTiers.Label(tt.progress, tt.total); got != tt.wantDashboard {
			t.Errorf("DashboardTiers.Label(%d, %d) = %q, want %q", tt.progress, tt.total, got, tt.wantDashboard)
		}
		if got := StaffTableTiers.Label(tt.progress, tt.total); got != tt.wantStaff {
			t.Errorf("StaffTableTiers.Label(%d, %d) = %q, want %q", tt.progress, tt.total, got, tt.wantStaff)
		}
	}
}
