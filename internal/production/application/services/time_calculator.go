package services

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/felixgeelhaar/sublima/internal/production/domain"
)

// TimeBreakdown is the result of an order time calculation, in minutes.
type TimeBreakdown struct {
	DesignMinutes     float64
	ProductionMinutes float64
	TotalMinutes      float64
}

// TimeCalculator turns an order's line items into a minute budget using a
// duration table. It is stateless: the table is an explicit argument on every
// call, never ambient configuration.
type TimeCalculator struct {
	logger *slog.Logger
}

// NewTimeCalculator creates a calculator. The logger is used to flag
// configuration gaps; nil falls back to the default logger.
func NewTimeCalculator(logger *slog.Logger) *TimeCalculator {
	if logger == nil {
		logger = slog.Default()
	}
	return &TimeCalculator{logger: logger}
}

// ComputeOrderTime sums per-item production minutes and converts design hours
// to minutes. Pure function of its inputs and the table. Garment types with
// no configured durations contribute zero minutes; that gap is logged rather
// than failing the calculation, so order intake never blocks on incomplete
// configuration.
func (c *TimeCalculator) ComputeOrderTime(
	table *domain.DurationTable,
	items []domain.OrderItem,
	designHours float64,
) TimeBreakdown {
	production := 0.0
	for _, item := range items {
		d, ok := table.DurationFor(item.Garment, "")
		if !ok {
			c.logger.Warn("no durations configured for garment, assuming zero",
				"garment", item.Garment.String(),
			)
		}
		production += d.PerUnit() * float64(item.Quantity)
	}

	design := designHours * 60
	return TimeBreakdown{
		DesignMinutes:     design,
		ProductionMinutes: production,
		TotalMinutes:      design + production,
	}
}

// ComputeOrderTimeFromSizeCounts is the size-aware variant used when
// quantities arrive pre-bucketed by size. Sizes without a dedicated record
// fall back to the flat garment-level durations, so with no size data
// configured this degenerates to ComputeOrderTime over the summed counts.
func (c *TimeCalculator) ComputeOrderTimeFromSizeCounts(
	table *domain.DurationTable,
	garment domain.GarmentType,
	sizeCounts map[domain.Size]int,
	designHours float64,
) TimeBreakdown {
	production := 0.0
	for size, count := range sizeCounts {
		if count <= 0 {
			continue
		}
		d, ok := table.DurationFor(garment, size)
		if !ok {
			c.logger.Warn("no durations configured for garment, assuming zero",
				"garment", garment.String(),
				"size", string(size),
			)
		}
		production += d.PerUnit() * float64(count)
	}

	design := designHours * 60
	return TimeBreakdown{
		DesignMinutes:     design,
		ProductionMinutes: production,
		TotalMinutes:      design + production,
	}
}

// FormatMinutes renders a minute count as "<H>h <M>m" with the minutes
// rounded to the nearest integer.
func FormatMinutes(minutes float64) string {
	hours := int(minutes / 60)
	mins := math.Round(math.Mod(minutes, 60))
	return fmt.Sprintf("%dh %dm", hours, int(mins))
}
