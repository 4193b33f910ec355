package status

import (
	"slices"
	"time"
)

// Sequence is the ordered happy path shown by the progress timeline.
var Sequence = []Status{Submitted, UnderReview, Interview, Approved}

// Step is one position of the timeline
type Step struct {
	Status    Status     `json:"status"`
	Label     string     `json:"label"`
	Completed bool       `json:"completed"`
	Active    bool       `json:"active"`
	Date      *time.Time `json:"date,omitempty"`
}

// Timeline is either the ordered progress view or, when Rejected is set,
// the standalone rejected view with no steps.
type Timeline struct {
	Rejected   bool       `json:"rejected"`
	RejectedAt *time.Time `json:"rejected_at,omitempty"`
	Steps      []Step     `json:"steps,omitempty"`
	Progress   int        `json:"progress"`
}

// BuildTimeline renders the progress of an application with status s.
// Steps up to and including the current one are completed and the current one
// is active. A status outside Sequence completes nothing.
func BuildTimeline(s Status, createdAt, updatedAt time.Time) Timeline {
	current, _ := Parse(string(s))

	if current == Rejected {
		return Timeline{
			Rejected:   true,
			RejectedAt: &updatedAt,
		}
	}

	idx := slices.Index(Sequence, current)

	steps := make([]Step, 0, len(Sequence))
	for i, st := range Sequence {
		step := Step{
			Status:    st,
			Label:     badges[st].Label,
			Completed: idx >= 0 && i <= idx,
			Active:    i == idx,
		}
		switch {
		case i == 0 && idx >= 0:
			step.Date = &createdAt
		case i == idx:
			step.Date = &updatedAt
		}
		steps = append(steps, step)
	}

	return Timeline{
		Steps:    steps,
		Progress: (idx + 1) * 100 / len(Sequence),
	}
}

// CompletedStatuses lists the statuses marked completed in t.
func (t Timeline) CompletedStatuses() []Status {
	var out []Status
	for _, s := range t.Steps {
		if s.Completed {
			out = append(out, s.Status)
		}
	}
	return out
}
