package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/felixgeelhaar/sublima/internal/production/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newPendingOrder(t *testing.T) *domain.Order {
	t.Helper()
	order, err := domain.NewOrder(
		"Kit", uuid.New(), "Client",
		[]domain.OrderItem{{Garment: domain.GarmentPolo, Quantity: 2}},
		1, 29.3, 89.3, time.Now().Add(48*time.Hour),
	)
	require.NoError(t, err)
	order.ClearDomainEvents()
	return order
}

func TestStartStageHandler_Handle(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name        string
		setupMocks  func(*MockOrderRepository, *MockOutboxRepository, *MockUnitOfWork, *domain.Order)
		stage       domain.Stage
		expectError bool
		wantErr     error
	}{
		{
			name: "successfully starts a stage",
			setupMocks: func(orders *MockOrderRepository, outboxRepo *MockOutboxRepository, uow *MockUnitOfWork, order *domain.Order) {
				uow.On("Begin", mock.Anything).Return(context.Background(), nil)
				uow.On("Commit", mock.Anything).Return(nil)
				orders.On("FindByID", mock.Anything, order.ID()).Return(order, nil)
				orders.On("Save", mock.Anything, mock.AnythingOfType("*domain.Order")).Return(nil)
				outboxRepo.On("SaveBatch", mock.Anything, mock.AnythingOfType("[]*outbox.Message")).Return(nil)
			},
			stage: domain.StageDesign,
		},
		{
			name: "idempotent when stage already running",
			setupMocks: func(orders *MockOrderRepository, outboxRepo *MockOutboxRepository, uow *MockUnitOfWork, order *domain.Order) {
				order.StartStage(domain.StageDesign, time.Now())
				order.ClearDomainEvents()

				uow.On("Begin", mock.Anything).Return(context.Background(), nil)
				uow.On("Commit", mock.Anything).Return(nil)
				orders.On("FindByID", mock.Anything, order.ID()).Return(order, nil)
				// No save and no outbox write when nothing changed.
			},
			stage: domain.StageDesign,
		},
		{
			name: "fails when order not found",
			setupMocks: func(orders *MockOrderRepository, outboxRepo *MockOutboxRepository, uow *MockUnitOfWork, order *domain.Order) {
				uow.On("Begin", mock.Anything).Return(context.Background(), nil)
				uow.On("Rollback", mock.Anything).Return(nil)
				orders.On("FindByID", mock.Anything, order.ID()).Return(nil, nil)
			},
			stage:       domain.StageDesign,
			expectError: true,
			wantErr:     ErrOrderNotFound,
		},
		{
			name: "fails on repository error",
			setupMocks: func(orders *MockOrderRepository, outboxRepo *MockOutboxRepository, uow *MockUnitOfWork, order *domain.Order) {
				uow.On("Begin", mock.Anything).Return(context.Background(), nil)
				uow.On("Rollback", mock.Anything).Return(nil)
				orders.On("FindByID", mock.Anything, order.ID()).Return(nil, errors.New("connection lost"))
			},
			stage:       domain.StageDesign,
			expectError: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			orders := new(MockOrderRepository)
			outboxRepo := new(MockOutboxRepository)
			uow := new(MockUnitOfWork)

			order := newPendingOrder(t)
			tc.setupMocks(orders, outboxRepo, uow, order)

			handler := NewStartStageHandler(orders, outboxRepo, uow)
			err := handler.Handle(context.Background(), StartStageCommand{
				UserID:  userID,
				OrderID: order.ID(),
				Stage:   tc.stage,
			})

			if tc.expectError {
				require.Error(t, err)
				if tc.wantErr != nil {
					assert.ErrorIs(t, err, tc.wantErr)
				}
			} else {
				require.NoError(t, err)
			}

			orders.AssertExpectations(t)
			outboxRepo.AssertExpectations(t)
			uow.AssertExpectations(t)
		})
	}
}

func TestStartStageHandler_Handle_DerivesStatus(t *testing.T) {
	orders := new(MockOrderRepository)
	outboxRepo := new(MockOutboxRepository)
	uow := new(MockUnitOfWork)

	order := newPendingOrder(t)

	uow.On("Begin", mock.Anything).Return(context.Background(), nil)
	uow.On("Commit", mock.Anything).Return(nil)
	orders.On("FindByID", mock.Anything, order.ID()).Return(order, nil)
	orders.On("Save", mock.Anything, mock.AnythingOfType("*domain.Order")).Return(nil)
	outboxRepo.On("SaveBatch", mock.Anything, mock.AnythingOfType("[]*outbox.Message")).Return(nil)

	handler := NewStartStageHandler(orders, outboxRepo, uow)
	err := handler.Handle(context.Background(), StartStageCommand{
		UserID:  uuid.New(),
		OrderID: order.ID(),
		Stage:   domain.StagePrinting,
	})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusInProduction, order.Status())
}
