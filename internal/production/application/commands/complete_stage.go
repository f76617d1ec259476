package commands

import (
	"context"
	"time"

	"github.com/felixgeelhaar/sublima/internal/production/application/services"
	"github.com/felixgeelhaar/sublima/internal/production/domain"
	sharedApplication "github.com/felixgeelhaar/sublima/internal/shared/application"
	"github.com/felixgeelhaar/sublima/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// CompleteStageCommand contains the data needed to finish a pipeline stage.
type CompleteStageCommand struct {
	UserID  uuid.UUID
	OrderID uuid.UUID
	Stage   domain.Stage
}

func (c CompleteStageCommand) CommandName() string { return "production.complete_stage" }

// CompleteStageHandler finishes one stage of an order, re-estimates the
// remaining work via the configured estimator, and re-projects the delivery
// date from the completion instant.
type CompleteStageHandler struct {
	orders     domain.OrderRepository
	settings   domain.SettingsRepository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
	estimator  services.RemainingTimeEstimator
	projector  *services.DeliveryProjector
}

// NewCompleteStageHandler creates a new CompleteStageHandler.
func NewCompleteStageHandler(
	orders domain.OrderRepository,
	settings domain.SettingsRepository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	estimator services.RemainingTimeEstimator,
	projector *services.DeliveryProjector,
) *CompleteStageHandler {
	return &CompleteStageHandler{
		orders:     orders,
		settings:   settings,
		outboxRepo: outboxRepo,
		uow:        uow,
		estimator:  estimator,
		projector:  projector,
	}
}

// Handle executes the CompleteStageCommand. Completing an already completed
// stage succeeds without changing anything, so repeated submissions converge
// on the same order state.
func (h *CompleteStageHandler) Handle(ctx context.Context, cmd CompleteStageCommand) error {
	return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		order, err := h.orders.FindByID(txCtx, cmd.OrderID)
		if err != nil {
			return err
		}
		if order == nil {
			return ErrOrderNotFound
		}

		now := time.Now()
		if !order.CompleteStage(cmd.Stage, now) {
			return nil
		}

		// Re-projection happens even with nothing remaining: a zero budget
		// lands on the completion instant clamped to work hours, so the
		// estimate never trails the completion.
		if remaining, ok := h.estimateRemaining(txCtx, order); ok {
			schedule, err := h.settings.LoadWorkSchedule(txCtx)
			if err != nil {
				return err
			}
			estimate, err := h.projector.Project(remaining, schedule, now)
			if err != nil {
				return err
			}
			order.SetEstimatedDelivery(estimate)
		}

		if err := h.orders.Save(txCtx, order); err != nil {
			return err
		}
		return stageEvents(txCtx, h.outboxRepo, cmd.UserID, order)
	})
}

func (h *CompleteStageHandler) estimateRemaining(ctx context.Context, order *domain.Order) (float64, bool) {
	table, err := h.settings.LoadDurationTable(ctx)
	if err != nil {
		// A configuration read failure must not block the stage completion;
		// keep the previous estimate.
		return 0, false
	}
	return h.estimator.EstimateRemaining(order, table), true
}
