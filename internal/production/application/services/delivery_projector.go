package services

import (
	"math"
	"time"

	"github.com/felixgeelhaar/sublima/internal/production/domain"
)

// DeliveryProjector walks a minute budget forward across the work calendar
// to produce a concrete delivery timestamp. The schedule is an explicit
// argument on every call and is validated up front; a degenerate schedule
// fails fast with domain.ErrInvalidSchedule instead of walking forever.
type DeliveryProjector struct{}

// NewDeliveryProjector creates a projector.
func NewDeliveryProjector() *DeliveryProjector {
	return &DeliveryProjector{}
}

// Project returns the instant at which totalMinutes of work, started at
// start, completes under the given schedule.
//
// The walk consumes whole work days first: each day offers the minutes
// between the current clock and closing, minus the lunch window when lunch
// is still ahead. Lunch itself is free time, never deducted from the budget.
// Off-days and off-hours only clamp the clock forward. A zero or negative
// budget returns the clamped start unchanged.
//
// Fractional minute budgets are rounded to the nearest whole minute before
// the walk; the calendar result is always minute-aligned.
func (p *DeliveryProjector) Project(
	totalMinutes float64,
	schedule domain.WorkSchedule,
	start time.Time,
) (time.Time, error) {
	if err := schedule.Validate(); err != nil {
		return time.Time{}, err
	}

	start = start.Truncate(time.Minute)
	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	hour, minute := start.Hour(), start.Minute()

	nextWorkDay := func() {
		day = day.AddDate(0, 0, 1)
		for !schedule.IsWorkDay(day.Weekday()) {
			day = day.AddDate(0, 0, 1)
		}
		hour, minute = schedule.StartHour, 0
	}

	if !schedule.IsWorkDay(day.Weekday()) {
		for !schedule.IsWorkDay(day.Weekday()) {
			day = day.AddDate(0, 0, 1)
		}
		hour, minute = schedule.StartHour, 0
	}

	if hour < schedule.StartHour {
		hour, minute = schedule.StartHour, 0
	} else if hour >= schedule.EndHour {
		nextWorkDay()
	}

	remaining := int(math.Round(totalMinutes))

	for remaining > 0 {
		// Sitting exactly at the start of lunch: jump to its end, free of charge.
		if schedule.LunchStart < schedule.LunchEnd && hour == schedule.LunchStart && minute == 0 {
			hour = schedule.LunchEnd
			continue
		}

		workLeftToday := (schedule.EndHour-hour)*60 - minute
		if hour < schedule.LunchStart {
			// Lunch is still ahead; those minutes are not workable.
			workLeftToday -= schedule.LunchMinutes()
		}

		if remaining <= workLeftToday {
			beforeLunch := hour < schedule.LunchStart
			hour += remaining / 60
			minute += remaining % 60
			if minute >= 60 {
				hour += minute / 60
				minute %= 60
			}
			// A segment that began before lunch and reaches its start gets
			// pushed out by the full window; lunch minutes were never
			// workable. An exact landing at lunch start moves to lunch end.
			if beforeLunch && hour >= schedule.LunchStart {
				hour += schedule.LunchEnd - schedule.LunchStart
			}
			remaining = 0
		} else {
			remaining -= workLeftToday
			nextWorkDay()
		}
	}

	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location()), nil
}
