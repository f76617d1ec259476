package commands

import (
	"context"
	"time"

	"github.com/felixgeelhaar/sublima/internal/production/domain"
	sharedApplication "github.com/felixgeelhaar/sublima/internal/shared/application"
	"github.com/felixgeelhaar/sublima/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// StartStageCommand contains the data needed to start a pipeline stage.
type StartStageCommand struct {
	UserID  uuid.UUID
	OrderID uuid.UUID
	Stage   domain.Stage
}

func (c StartStageCommand) CommandName() string { return "production.start_stage" }

// StartStageHandler moves one stage of an order to in-progress.
type StartStageHandler struct {
	orders     domain.OrderRepository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
}

// NewStartStageHandler creates a new StartStageHandler.
func NewStartStageHandler(
	orders domain.OrderRepository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
) *StartStageHandler {
	return &StartStageHandler{orders: orders, outboxRepo: outboxRepo, uow: uow}
}

// Handle executes the StartStageCommand. Re-starting a stage that is already
// running or done succeeds without changing anything.
func (h *StartStageHandler) Handle(ctx context.Context, cmd StartStageCommand) error {
	return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		order, err := h.orders.FindByID(txCtx, cmd.OrderID)
		if err != nil {
			return err
		}
		if order == nil {
			return ErrOrderNotFound
		}

		if !order.StartStage(cmd.Stage, time.Now()) {
			return nil
		}

		if err := h.orders.Save(txCtx, order); err != nil {
			return err
		}
		return stageEvents(txCtx, h.outboxRepo, cmd.UserID, order)
	})
}
