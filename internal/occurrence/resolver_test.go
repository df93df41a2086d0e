package occurrence

import (
	"testing"
	"time"

	"github.com/tyrongower/Kinboard-sub000/internal/recurrence"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func dailyWindow(anchor time.Time) recurrence.Window {
	return recurrence.Window{StartsOn: &anchor, Indefinite: true}
}

func TestResolve_SharedRecurrenceIncludesAllAssignments(t *testing.T) {
	t.Parallel()

	job := Job{
		ID:                  "job-1",
		UseSharedRecurrence: true,
		SharedRule:          recurrence.ParseRule("FREQ=DAILY;INTERVAL=1"),
		SharedWindow:        dailyWindow(date(2025, time.January, 1)),
		Assignments: []Assignment{
			{ID: "a-2", UserID: "user-2", SortOrder: 2},
			{ID: "a-1", UserID: "user-1", SortOrder: 1},
		},
	}

	resolutions := Resolve([]Job{job}, date(2025, time.February, 14))
	if len(resolutions) != 1 {
		t.Fatalf("expected one resolution, got %d", len(resolutions))
	}
	if len(resolutions[0].Assignments) != 2 {
		t.Fatalf("expected both assignments active, got %d", len(resolutions[0].Assignments))
	}
	if resolutions[0].Assignments[0].ID != "a-1" || resolutions[0].Assignments[1].ID != "a-2" {
		t.Errorf("assignments not ordered by sort order: %v", resolutions[0].Assignments)
	}
}

func TestResolve_PerAssignmentOrSemantics(t *testing.T) {
	t.Parallel()

	// The shared rule fires only on Mondays; the assignment's own rule
	// fires only on Fridays. Resolving a Friday must still include the job
	// with exactly that assignment active.
	monday := date(2025, time.January, 6)
	friday := date(2025, time.January, 10)

	job := Job{
		ID:                  "job-1",
		UseSharedRecurrence: false,
		SharedRule:          recurrence.ParseRule("FREQ=WEEKLY;INTERVAL=1;BYDAY=MO"),
		SharedWindow:        dailyWindow(monday),
		Assignments: []Assignment{
			{
				ID:        "a-1",
				UserID:    "user-1",
				SortOrder: 1,
				Rule:      recurrence.ParseRule("FREQ=WEEKLY;INTERVAL=1;BYDAY=FR"),
				Window:    dailyWindow(monday),
			},
			{
				ID:        "a-2",
				UserID:    "user-2",
				SortOrder: 2,
				Rule:      recurrence.ParseRule("FREQ=WEEKLY;INTERVAL=1;BYDAY=TU"),
				Window:    dailyWindow(monday),
			},
		},
	}

	resolutions := Resolve([]Job{job}, friday)
	if len(resolutions) != 1 {
		t.Fatalf("expected job included via assignment match, got %d resolutions", len(resolutions))
	}
	if len(resolutions[0].Assignments) != 1 || resolutions[0].Assignments[0].ID != "a-1" {
		t.Fatalf("expected exactly assignment a-1 active, got %v", resolutions[0].Assignments)
	}
}

func TestResolve_SharedRuleMatchKeepsJobWithoutAssignmentMatches(t *testing.T) {
	t.Parallel()

	monday := date(2025, time.January, 6)

	job := Job{
		ID:                  "job-1",
		UseSharedRecurrence: false,
		SharedRule:          recurrence.ParseRule("FREQ=WEEKLY;INTERVAL=1;BYDAY=MO"),
		SharedWindow:        dailyWindow(monday),
		Assignments: []Assignment{
			{
				ID:     "a-1",
				UserID: "user-1",
				Rule:   recurrence.ParseRule("FREQ=WEEKLY;INTERVAL=1;BYDAY=FR"),
				Window: dailyWindow(monday),
			},
		},
	}

	resolutions := Resolve([]Job{job}, monday)
	if len(resolutions) != 1 {
		t.Fatalf("expected job included via shared rule, got %d resolutions", len(resolutions))
	}
	if len(resolutions[0].Assignments) != 0 {
		t.Fatalf("expected no active assignments, got %v", resolutions[0].Assignments)
	}
}

func TestResolve_InactiveJobsAreExcluded(t *testing.T) {
	t.Parallel()

	monday := date(2025, time.January, 6)
	tuesday := date(2025, time.January, 7)

	jobs := []Job{
		{
			ID:                  "job-1",
			UseSharedRecurrence: true,
			SharedRule:          recurrence.ParseRule("FREQ=WEEKLY;INTERVAL=1;BYDAY=MO"),
			SharedWindow:        dailyWindow(monday),
		},
		{
			ID:                  "job-2",
			UseSharedRecurrence: false,
			SharedRule:          recurrence.ParseRule("FREQ=WEEKLY;INTERVAL=1;BYDAY=MO"),
			SharedWindow:        dailyWindow(monday),
		},
	}

	if resolutions := Resolve(jobs, tuesday); len(resolutions) != 0 {
		t.Fatalf("expected empty resolution set, got %v", resolutions)
	}
}

func TestResolve_FilteringPreservesSortOrder(t *testing.T) {
	t.Parallel()

	anchor := date(2025, time.January, 1)
	daily := recurrence.ParseRule("FREQ=DAILY;INTERVAL=1")
	never := recurrence.ParseRule("")

	job := Job{
		ID:                  "job-1",
		UseSharedRecurrence: false,
		Assignments: []Assignment{
			{ID: "a-3", SortOrder: 3, Rule: daily, Window: dailyWindow(anchor)},
			{ID: "a-2", SortOrder: 2, Rule: never, Window: dailyWindow(anchor)},
			{ID: "a-1", SortOrder: 1, Rule: daily, Window: dailyWindow(anchor)},
		},
	}

	resolutions := Resolve([]Job{job}, date(2025, time.March, 1))
	if len(resolutions) != 1 {
		t.Fatalf("expected one resolution, got %d", len(resolutions))
	}

	got := resolutions[0].Assignments
	if len(got) != 2 || got[0].ID != "a-1" || got[1].ID != "a-3" {
		t.Fatalf("expected [a-1 a-3] in order, got %v", got)
	}
}

func TestResolveJob(t *testing.T) {
	t.Parallel()

	job := Job{
		ID:                  "job-1",
		UseSharedRecurrence: true,
		SharedRule:          recurrence.ParseRule("FREQ=DAILY;INTERVAL=2"),
		SharedWindow:        dailyWindow(date(2025, time.January, 1)),
	}

	if _, ok := ResolveJob(job, date(2025, time.January, 2)); ok {
		t.Fatal("job should be inactive on an off-interval date")
	}

	resolution, ok := ResolveJob(job, date(2025, time.January, 3))
	if !ok {
		t.Fatal("job should be active on an on-interval date")
	}
	if resolution.JobID != "job-1" {
		t.Fatalf("resolution.JobID = %q, want job-1", resolution.JobID)
	}
}
