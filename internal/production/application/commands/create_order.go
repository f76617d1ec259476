package commands

import (
	"context"
	"errors"
	"time"

	"github.com/felixgeelhaar/sublima/internal/production/application/services"
	"github.com/felixgeelhaar/sublima/internal/production/domain"
	sharedApplication "github.com/felixgeelhaar/sublima/internal/shared/application"
	"github.com/felixgeelhaar/sublima/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

var ErrOrderNotFound = errors.New("order not found")

// ItemInput is one requested order line.
type ItemInput struct {
	Garment  domain.GarmentType
	Quantity int
}

// CreateOrderCommand contains the data needed to create an order.
//
// Quantities arrive either as flat items or, for imported orders, as
// per-garment size counts. When SizeCounts is set it takes precedence and
// the item list is derived from the summed counts.
type CreateOrderCommand struct {
	UserID      uuid.UUID
	Name        string
	ClientID    uuid.UUID
	ClientName  string
	Description string
	Designer    string
	Items       []ItemInput
	SizeCounts  map[domain.GarmentType]map[domain.Size]int
	DesignHours float64
}

func (c CreateOrderCommand) CommandName() string { return "production.create_order" }

// CreateOrderHandler computes the initial time budget and delivery estimate
// and persists the new order.
type CreateOrderHandler struct {
	orders     domain.OrderRepository
	settings   domain.SettingsRepository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
	calc       *services.TimeCalculator
	projector  *services.DeliveryProjector
}

// NewCreateOrderHandler creates a new CreateOrderHandler.
func NewCreateOrderHandler(
	orders domain.OrderRepository,
	settings domain.SettingsRepository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	calc *services.TimeCalculator,
	projector *services.DeliveryProjector,
) *CreateOrderHandler {
	return &CreateOrderHandler{
		orders:     orders,
		settings:   settings,
		outboxRepo: outboxRepo,
		uow:        uow,
		calc:       calc,
		projector:  projector,
	}
}

// Handle executes the CreateOrderCommand and returns the new order's ID.
func (h *CreateOrderHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (uuid.UUID, error) {
	var orderID uuid.UUID

	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		table, err := h.settings.LoadDurationTable(txCtx)
		if err != nil {
			return err
		}
		schedule, err := h.settings.LoadWorkSchedule(txCtx)
		if err != nil {
			return err
		}

		items, breakdown, err := h.resolveItems(cmd, table)
		if err != nil {
			return err
		}

		now := time.Now()
		estimate, err := h.projector.Project(breakdown.TotalMinutes, schedule, now)
		if err != nil {
			return err
		}

		order, err := domain.NewOrder(
			cmd.Name,
			cmd.ClientID,
			cmd.ClientName,
			items,
			cmd.DesignHours,
			breakdown.ProductionMinutes,
			breakdown.TotalMinutes,
			estimate,
		)
		if err != nil {
			return err
		}
		if cmd.Description != "" {
			order.SetDescription(cmd.Description)
		}
		if cmd.Designer != "" {
			order.SetDesigner(cmd.Designer)
		}
		orderID = order.ID()

		if err := h.orders.Save(txCtx, order); err != nil {
			return err
		}
		return stageEvents(txCtx, h.outboxRepo, cmd.UserID, order)
	})
	if err != nil {
		return uuid.Nil, err
	}
	return orderID, nil
}

// resolveItems normalizes the two intake shapes into an item list plus its
// time breakdown.
func (h *CreateOrderHandler) resolveItems(
	cmd CreateOrderCommand,
	table *domain.DurationTable,
) ([]domain.OrderItem, services.TimeBreakdown, error) {
	if len(cmd.SizeCounts) == 0 {
		items := make([]domain.OrderItem, 0, len(cmd.Items))
		for _, in := range cmd.Items {
			item, err := domain.NewOrderItem(in.Garment, in.Quantity)
			if err != nil {
				return nil, services.TimeBreakdown{}, err
			}
			items = append(items, item)
		}
		return items, h.calc.ComputeOrderTime(table, items, cmd.DesignHours), nil
	}

	// Size-bucketed intake: production minutes use per-size durations where
	// configured; design time is counted once for the whole order.
	var items []domain.OrderItem
	production := 0.0
	for _, garment := range domain.AllGarmentTypes() {
		counts, ok := cmd.SizeCounts[garment]
		if !ok {
			continue
		}
		total := 0
		for _, n := range counts {
			if n > 0 {
				total += n
			}
		}
		if total == 0 {
			continue
		}
		item, err := domain.NewOrderItem(garment, total)
		if err != nil {
			return nil, services.TimeBreakdown{}, err
		}
		items = append(items, item)
		production += h.calc.ComputeOrderTimeFromSizeCounts(table, garment, counts, 0).ProductionMinutes
	}

	design := cmd.DesignHours * 60
	return items, services.TimeBreakdown{
		DesignMinutes:     design,
		ProductionMinutes: production,
		TotalMinutes:      design + production,
	}, nil
}
