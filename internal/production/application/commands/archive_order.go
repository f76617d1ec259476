package commands

import (
	"context"
	"time"

	"github.com/felixgeelhaar/sublima/internal/production/domain"
	sharedApplication "github.com/felixgeelhaar/sublima/internal/shared/application"
	"github.com/felixgeelhaar/sublima/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// ArchiveOrderCommand files a completed order under the current ISO week.
type ArchiveOrderCommand struct {
	UserID  uuid.UUID
	OrderID uuid.UUID
}

func (c ArchiveOrderCommand) CommandName() string { return "production.archive_order" }

// ArchiveOrderHandler performs the explicit, terminal archive transition.
type ArchiveOrderHandler struct {
	orders     domain.OrderRepository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
}

// NewArchiveOrderHandler creates a new ArchiveOrderHandler.
func NewArchiveOrderHandler(
	orders domain.OrderRepository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
) *ArchiveOrderHandler {
	return &ArchiveOrderHandler{orders: orders, outboxRepo: outboxRepo, uow: uow}
}

// Handle executes the ArchiveOrderCommand. Only completed orders can be
// archived; archiving twice is a harmless no-op.
func (h *ArchiveOrderHandler) Handle(ctx context.Context, cmd ArchiveOrderCommand) error {
	return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		order, err := h.orders.FindByID(txCtx, cmd.OrderID)
		if err != nil {
			return err
		}
		if order == nil {
			return ErrOrderNotFound
		}

		now := time.Now()
		if err := order.Archive(domain.WeekTag(now), now); err != nil {
			return err
		}

		if err := h.orders.Save(txCtx, order); err != nil {
			return err
		}
		return stageEvents(txCtx, h.outboxRepo, cmd.UserID, order)
	})
}
