// Package occurrence decides which jobs and which of their assignments are
// active on a given calendar date. It is pure: resolution depends only on
// the inputs, and callers re-run it per request rather than caching results.
package occurrence

import (
	"sort"
	"time"

	"github.com/tyrongower/Kinboard-sub000/internal/recurrence"
)

// Assignment pairs one household member with a job, optionally carrying its
// own recurrence used when the parent job opts out of shared recurrence.
type Assignment struct {
	ID        string
	UserID    string
	SortOrder int
	Rule      recurrence.Rule
	Window    recurrence.Window
}

// Job carries the recurrence configuration the resolver needs.
type Job struct {
	ID                  string
	UseSharedRecurrence bool
	SharedRule          recurrence.Rule
	SharedWindow        recurrence.Window
	Assignments         []Assignment
}

// Resolution lists the assignments active for one job on the target date.
type Resolution struct {
	JobID       string
	Assignments []Assignment
}

// Resolve filters jobs down to those active on the target date.
//
// A job is included when its shared rule fires on the date, or, when the job
// does not use shared recurrence, when at least one of its assignments fires
// independently. Either side of that OR is sufficient: a job can appear for
// an assignee on a date the job-level schedule would not select, and the
// reverse.
//
// For an included job using shared recurrence every assignment is active.
// Otherwise only the assignments whose own rule fires are active; the rest
// are omitted from the resolution for that date entirely. Assignments are
// returned ordered by SortOrder ascending.
//
// An empty result is a normal outcome. Callers wanting the unfiltered "all
// jobs" view skip resolution altogether; that mode evaluates no recurrence.
func Resolve(jobs []Job, target time.Time) []Resolution {
	resolutions := make([]Resolution, 0, len(jobs))

	for _, job := range jobs {
		jobActive := recurrence.OccursOn(job.SharedRule, job.SharedWindow, target)

		var active []Assignment
		if job.UseSharedRecurrence {
			if !jobActive {
				continue
			}
			active = make([]Assignment, len(job.Assignments))
			copy(active, job.Assignments)
		} else {
			for _, assignment := range job.Assignments {
				if recurrence.OccursOn(assignment.Rule, assignment.Window, target) {
					active = append(active, assignment)
				}
			}
			if !jobActive && len(active) == 0 {
				continue
			}
		}

		sortAssignments(active)
		resolutions = append(resolutions, Resolution{JobID: job.ID, Assignments: active})
	}

	return resolutions
}

// ResolveJob resolves a single job, reporting whether it is active on the
// target date at all.
func ResolveJob(job Job, target time.Time) (Resolution, bool) {
	resolutions := Resolve([]Job{job}, target)
	if len(resolutions) == 0 {
		return Resolution{}, false
	}
	return resolutions[0], true
}

func sortAssignments(assignments []Assignment) {
	sort.SliceStable(assignments, func(i, j int) bool {
		if assignments[i].SortOrder == assignments[j].SortOrder {
			return assignments[i].ID < assignments[j].ID
		}
		return assignments[i].SortOrder < assignments[j].SortOrder
	})
}
