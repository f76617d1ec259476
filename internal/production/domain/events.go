package domain

import (
	"time"

	sharedDomain "github.com/felixgeelhaar/sublima/internal/shared/domain"
	"github.com/google/uuid"
)

const (
	AggregateType = "Order"

	RoutingKeyOrderCreated        = "production.order.created"
	RoutingKeyStageStarted        = "production.stage.started"
	RoutingKeyStageCompleted      = "production.stage.completed"
	RoutingKeyDeliveryReestimated = "production.delivery.reestimated"
	RoutingKeyOrderCompleted      = "production.order.completed"
	RoutingKeyOrderArchived       = "production.order.archived"
)

// OrderCreated is emitted when a new order enters the pipeline.
type OrderCreated struct {
	sharedDomain.BaseEvent
	Name              string    `json:"name"`
	ClientName        string    `json:"client_name"`
	ItemCount         int       `json:"item_count"`
	TotalMinutes      float64   `json:"total_minutes"`
	EstimatedDelivery time.Time `json:"estimated_delivery"`
}

// NewOrderCreated creates an OrderCreated event.
func NewOrderCreated(o *Order) *OrderCreated {
	count := 0
	for _, item := range o.items {
		count += item.Quantity
	}
	return &OrderCreated{
		BaseEvent:         sharedDomain.NewBaseEvent(o.ID(), AggregateType, RoutingKeyOrderCreated),
		Name:              o.name,
		ClientName:        o.clientName,
		ItemCount:         count,
		TotalMinutes:      o.totalMinutes,
		EstimatedDelivery: o.estimatedDelivery,
	}
}

// StageStarted is emitted when an operator begins a pipeline stage.
type StageStarted struct {
	sharedDomain.BaseEvent
	Stage     string    `json:"stage"`
	StartedAt time.Time `json:"started_at"`
}

// NewStageStarted creates a StageStarted event.
func NewStageStarted(orderID uuid.UUID, stage Stage, at time.Time) *StageStarted {
	return &StageStarted{
		BaseEvent: sharedDomain.NewBaseEvent(orderID, AggregateType, RoutingKeyStageStarted),
		Stage:     string(stage),
		StartedAt: at,
	}
}

// StageCompleted is emitted when a pipeline stage finishes.
type StageCompleted struct {
	sharedDomain.BaseEvent
	Stage      string    `json:"stage"`
	FinishedAt time.Time `json:"finished_at"`
}

// NewStageCompleted creates a StageCompleted event.
func NewStageCompleted(orderID uuid.UUID, stage Stage, at time.Time) *StageCompleted {
	return &StageCompleted{
		BaseEvent:  sharedDomain.NewBaseEvent(orderID, AggregateType, RoutingKeyStageCompleted),
		Stage:      string(stage),
		FinishedAt: at,
	}
}

// DeliveryReestimated is emitted when the delivery estimate is re-projected.
type DeliveryReestimated struct {
	sharedDomain.BaseEvent
	Previous time.Time `json:"previous"`
	Estimate time.Time `json:"estimate"`
}

// NewDeliveryReestimated creates a DeliveryReestimated event.
func NewDeliveryReestimated(orderID uuid.UUID, previous, estimate time.Time) *DeliveryReestimated {
	return &DeliveryReestimated{
		BaseEvent: sharedDomain.NewBaseEvent(orderID, AggregateType, RoutingKeyDeliveryReestimated),
		Previous:  previous,
		Estimate:  estimate,
	}
}

// OrderCompleted is emitted when every pipeline stage is done.
type OrderCompleted struct {
	sharedDomain.BaseEvent
	CompletedAt time.Time `json:"completed_at"`
}

// NewOrderCompleted creates an OrderCompleted event.
func NewOrderCompleted(orderID uuid.UUID, at time.Time) *OrderCompleted {
	return &OrderCompleted{
		BaseEvent:   sharedDomain.NewBaseEvent(orderID, AggregateType, RoutingKeyOrderCompleted),
		CompletedAt: at,
	}
}

// OrderArchived is emitted when a completed order is filed under a week tag.
type OrderArchived struct {
	sharedDomain.BaseEvent
	WeekTag    string    `json:"week_tag"`
	ArchivedAt time.Time `json:"archived_at"`
}

// NewOrderArchived creates an OrderArchived event.
func NewOrderArchived(orderID uuid.UUID, weekTag string, at time.Time) *OrderArchived {
	return &OrderArchived{
		BaseEvent:  sharedDomain.NewBaseEvent(orderID, AggregateType, RoutingKeyOrderArchived),
		WeekTag:    weekTag,
		ArchivedAt: at,
	}
}
