package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidSchedule is returned when a work schedule cannot drive the
// delivery projection. Projecting against such a schedule would never
// terminate, so callers must fail fast instead.
var ErrInvalidSchedule = errors.New("invalid work schedule")

// WorkSchedule describes the shop's working calendar: opening hours, the
// lunch window, and which weekdays are worked. The engine treats it as a
// read-only snapshot taken at call time.
type WorkSchedule struct {
	StartHour  int
	EndHour    int
	LunchStart int
	LunchEnd   int
	WorkDays   []time.Weekday
}

// DefaultWorkSchedule returns the shop's standard week:
// 09:00-18:00 with lunch 13:00-14:00, Monday through Saturday.
func DefaultWorkSchedule() WorkSchedule {
	return WorkSchedule{
		StartHour:  9,
		EndHour:    18,
		LunchStart: 13,
		LunchEnd:   14,
		WorkDays: []time.Weekday{
			time.Monday, time.Tuesday, time.Wednesday,
			time.Thursday, time.Friday, time.Saturday,
		},
	}
}

// Validate checks the hour ordering invariant and that at least one weekday
// is worked. A schedule violating either would make the calendar walk loop
// forever.
func (s WorkSchedule) Validate() error {
	if len(s.WorkDays) == 0 {
		return fmt.Errorf("%w: no work days configured", ErrInvalidSchedule)
	}
	if s.StartHour < 0 || s.EndHour > 24 {
		return fmt.Errorf("%w: hours must lie within 0..24", ErrInvalidSchedule)
	}
	if !(s.StartHour < s.LunchStart && s.LunchStart <= s.LunchEnd && s.LunchEnd < s.EndHour) {
		return fmt.Errorf("%w: require startHour < lunchStart <= lunchEnd < endHour (got %d/%d/%d/%d)",
			ErrInvalidSchedule, s.StartHour, s.LunchStart, s.LunchEnd, s.EndHour)
	}
	for _, d := range s.WorkDays {
		if d < time.Sunday || d > time.Saturday {
			return fmt.Errorf("%w: weekday %d out of range", ErrInvalidSchedule, d)
		}
	}
	return nil
}

// IsWorkDay reports whether the weekday is part of the working week.
func (s WorkSchedule) IsWorkDay(day time.Weekday) bool {
	for _, d := range s.WorkDays {
		if d == day {
			return true
		}
	}
	return false
}

// LunchMinutes returns the length of the lunch window in minutes.
func (s WorkSchedule) LunchMinutes() int {
	return (s.LunchEnd - s.LunchStart) * 60
}
