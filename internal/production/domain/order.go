package domain

import (
	"errors"
	"fmt"
	"time"

	sharedDomain "github.com/felixgeelhaar/sublima/internal/shared/domain"
	"github.com/google/uuid"
)

var (
	ErrOrderArchived     = errors.New("order is archived")
	ErrOrderNotCompleted = errors.New("order is not completed")
	ErrEmptyOrderName    = errors.New("order name must not be empty")
	ErrNegativeDesign    = errors.New("design hours must be non-negative")
)

// Order is a garment-printing order moving through the production pipeline.
// It owns its item list, its pipeline progress, the computed time budget,
// and the current delivery estimate.
type Order struct {
	sharedDomain.BaseAggregateRoot
	name              string
	clientID          uuid.UUID
	clientName        string
	description       string
	designer          string
	items             []OrderItem
	designHours       float64
	productionMinutes float64
	totalMinutes      float64
	estimatedDelivery time.Time
	pipeline          Pipeline
	status            Status
	archiveWeek       string
}

// NewOrder creates a pending order with all stages not started. The minute
// totals and the initial delivery estimate are computed by the estimation
// services at creation time and passed in; the aggregate never reaches out
// to configuration itself.
func NewOrder(
	name string,
	clientID uuid.UUID,
	clientName string,
	items []OrderItem,
	designHours float64,
	productionMinutes float64,
	totalMinutes float64,
	estimatedDelivery time.Time,
) (*Order, error) {
	if name == "" {
		return nil, ErrEmptyOrderName
	}
	if designHours < 0 {
		return nil, ErrNegativeDesign
	}
	for _, item := range items {
		if _, err := NewOrderItem(item.Garment, item.Quantity); err != nil {
			return nil, fmt.Errorf("invalid order item: %w", err)
		}
	}

	o := &Order{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(),
		name:              name,
		clientID:          clientID,
		clientName:        clientName,
		items:             append([]OrderItem(nil), items...),
		designHours:       designHours,
		productionMinutes: productionMinutes,
		totalMinutes:      totalMinutes,
		estimatedDelivery: estimatedDelivery,
		pipeline:          NewPipeline(),
		status:            StatusPending,
	}
	o.Record(NewOrderCreated(o))
	return o, nil
}

func (o *Order) Name() string                 { return o.name }
func (o *Order) ClientID() uuid.UUID          { return o.clientID }
func (o *Order) ClientName() string           { return o.clientName }
func (o *Order) Description() string          { return o.description }
func (o *Order) Designer() string             { return o.designer }
func (o *Order) DesignHours() float64         { return o.designHours }
func (o *Order) ProductionMinutes() float64   { return o.productionMinutes }
func (o *Order) TotalMinutes() float64        { return o.totalMinutes }
func (o *Order) EstimatedDelivery() time.Time { return o.estimatedDelivery }
func (o *Order) Status() Status               { return o.status }
func (o *Order) ArchiveWeek() string          { return o.archiveWeek }

// Items returns a copy of the order's line items.
func (o *Order) Items() []OrderItem {
	return append([]OrderItem(nil), o.items...)
}

// Pipeline returns a copy of the order's stage progress.
func (o *Order) Pipeline() Pipeline {
	return o.pipeline.Clone()
}

// StageProgress returns the progress record for one stage.
func (o *Order) StageProgress(stage Stage) StageProgress {
	return o.pipeline[stage]
}

// SetDescription sets the free-form order description.
func (o *Order) SetDescription(desc string) {
	o.description = desc
	o.Touch()
}

// SetDesigner sets the designer assigned to the order.
func (o *Order) SetDesigner(designer string) {
	o.designer = designer
	o.Touch()
}

// StartStage moves a stage to in-progress and rederives the order status.
// Re-starting a running or finished stage changes nothing. Returns true when
// state changed.
func (o *Order) StartStage(stage Stage, now time.Time) bool {
	if o.status == StatusArchived {
		return false
	}
	if !o.pipeline.Start(stage, now) {
		return false
	}
	o.status = DeriveStatus(o.pipeline)
	o.Touch()
	o.Record(NewStageStarted(o.ID(), stage, now))
	return true
}

// CompleteStage finishes a stage and rederives the order status. Repeated or
// never-started completions change nothing. The caller re-estimates delivery
// afterwards via SetEstimatedDelivery. Returns true when state changed.
func (o *Order) CompleteStage(stage Stage, now time.Time) bool {
	if o.status == StatusArchived {
		return false
	}
	if !o.pipeline.Complete(stage, now) {
		return false
	}
	o.status = DeriveStatus(o.pipeline)
	o.Touch()
	o.Record(NewStageCompleted(o.ID(), stage, now))
	if o.status == StatusCompleted {
		o.Record(NewOrderCompleted(o.ID(), now))
	}
	return true
}

// SetEstimatedDelivery replaces the delivery estimate after a re-projection.
func (o *Order) SetEstimatedDelivery(estimate time.Time) {
	if estimate.Equal(o.estimatedDelivery) {
		return
	}
	previous := o.estimatedDelivery
	o.estimatedDelivery = estimate
	o.Touch()
	o.Record(NewDeliveryReestimated(o.ID(), previous, estimate))
}

// Archive moves a completed order into the archive under a week tag.
// Archiving an archived order is a no-op; anything else must be completed
// first. Archived is terminal: no stage transitions apply afterwards.
func (o *Order) Archive(weekTag string, now time.Time) error {
	if o.status == StatusArchived {
		return nil
	}
	if o.status != StatusCompleted {
		return ErrOrderNotCompleted
	}
	o.status = StatusArchived
	o.archiveWeek = weekTag
	o.Touch()
	o.Record(NewOrderArchived(o.ID(), weekTag, now))
	return nil
}

// WeekTag formats an instant as an ISO-week archive tag, e.g. "2025-W07".
func WeekTag(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// RehydrateOrder rebuilds an order from persisted state.
func RehydrateOrder(
	id uuid.UUID,
	name string,
	clientID uuid.UUID,
	clientName string,
	description string,
	designer string,
	items []OrderItem,
	designHours float64,
	productionMinutes float64,
	totalMinutes float64,
	estimatedDelivery time.Time,
	pipeline Pipeline,
	status Status,
	archiveWeek string,
	createdAt, updatedAt time.Time,
) *Order {
	if pipeline == nil {
		pipeline = NewPipeline()
	}
	return &Order{
		BaseAggregateRoot: sharedDomain.RehydrateBaseAggregateRoot(
			sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt)),
		name:              name,
		clientID:          clientID,
		clientName:        clientName,
		description:       description,
		designer:          designer,
		items:             items,
		designHours:       designHours,
		productionMinutes: productionMinutes,
		totalMinutes:      totalMinutes,
		estimatedDelivery: estimatedDelivery,
		pipeline:          pipeline,
		status:            status,
		archiveWeek:       archiveWeek,
	}
}
