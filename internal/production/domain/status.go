package domain

import "fmt"

// Status is the overall state of an order, derived from its pipeline except
// for the terminal archived state, which only an explicit archive action
// reaches.
type Status string

const (
	StatusPending      Status = "pending"
	StatusInDesign     Status = "in-design"
	StatusInProduction Status = "in-production"
	StatusInPressing   Status = "in-pressing"
	StatusCompleted    Status = "completed"
	StatusArchived     Status = "archived"
)

// IsValid reports whether the status is one of the known variants.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusInDesign, StatusInProduction, StatusInPressing, StatusCompleted, StatusArchived:
		return true
	}
	return false
}

func (s Status) String() string { return string(s) }

// ParseStatus converts a string into a Status.
func ParseStatus(v string) (Status, error) {
	s := Status(v)
	if !s.IsValid() {
		return "", fmt.Errorf("unknown order status: %q", v)
	}
	return s, nil
}

// DeriveStatus is the single source of truth mapping pipeline state to an
// order status. Archived is never derived; the caller preserves it.
//
// The furthest stage that has been started wins: pressing outranks the
// production stages, which outrank design. All five completed means the
// order is done regardless of anything else.
func DeriveStatus(p Pipeline) Status {
	if p.AllCompleted() {
		return StatusCompleted
	}
	started := func(s Stage) bool { return p[s].StartedAt != nil || p[s].Completed }

	switch {
	case started(StagePressing) || started(StageQualityControl):
		return StatusInPressing
	case started(StagePrinting) || started(StageCutting):
		return StatusInProduction
	case started(StageDesign):
		return StatusInDesign
	}
	return StatusPending
}
