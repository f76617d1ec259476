package services

import (
	"github.com/felixgeelhaar/sublima/internal/production/domain"
)

// RemainingTimeEstimator approximates the minutes of work left on an order
// given which pipeline stages are still open. It is a named strategy so the
// state machine never hard-codes the approximation; swap in another
// estimator to change the policy without touching stage transitions.
type RemainingTimeEstimator interface {
	EstimateRemaining(order *domain.Order, table *domain.DurationTable) float64
}

// QuarterSplitEstimator is the default policy: an open design stage
// contributes the order's design hours, and each open production stage
// contributes a quarter of the item-weighted production estimate. The
// quarter split is a coarse placeholder, not a per-stage model; it assumes
// the four production stages consume roughly equal time.
type QuarterSplitEstimator struct {
	calc *TimeCalculator
}

// NewQuarterSplitEstimator creates the default estimator.
func NewQuarterSplitEstimator(calc *TimeCalculator) *QuarterSplitEstimator {
	return &QuarterSplitEstimator{calc: calc}
}

// EstimateRemaining sums the contributions of every stage not yet completed.
func (e *QuarterSplitEstimator) EstimateRemaining(order *domain.Order, table *domain.DurationTable) float64 {
	pipeline := order.Pipeline()
	remaining := 0.0
	var productionEstimate float64
	productionKnown := false

	for _, stage := range pipeline.Remaining() {
		if stage == domain.StageDesign {
			remaining += order.DesignHours() * 60
			continue
		}
		if !productionKnown {
			productionEstimate = e.calc.ComputeOrderTime(table, order.Items(), 0).ProductionMinutes
			productionKnown = true
		}
		remaining += productionEstimate / 4
	}
	return remaining
}

// StageWeightedEstimator is the alternate policy: each open production stage
// contributes its own configured per-unit minutes (printing stages count
// printing time, pressing stages pressing time, and so on), with the
// contingency buffer spread evenly across the four production stages.
type StageWeightedEstimator struct{}

// NewStageWeightedEstimator creates the stage-weighted estimator.
func NewStageWeightedEstimator() *StageWeightedEstimator {
	return &StageWeightedEstimator{}
}

// EstimateRemaining sums per-stage configured durations for open stages.
func (e *StageWeightedEstimator) EstimateRemaining(order *domain.Order, table *domain.DurationTable) float64 {
	pipeline := order.Pipeline()
	remaining := 0.0

	for _, stage := range pipeline.Remaining() {
		if stage == domain.StageDesign {
			remaining += order.DesignHours() * 60
			continue
		}
		for _, item := range order.Items() {
			d, _ := table.DurationFor(item.Garment, "")
			remaining += (d.ForStage(stage) + d.Contingency/4) * float64(item.Quantity)
		}
	}
	return remaining
}
