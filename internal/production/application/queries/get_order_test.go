package queries

import (
	"context"
	"testing"
	"time"

	"github.com/felixgeelhaar/sublima/internal/production/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newQueryOrder(t *testing.T) *domain.Order {
	t.Helper()
	order, err := domain.NewOrder(
		"School sports kit", uuid.New(), "Riverside Primary",
		[]domain.OrderItem{
			{Garment: domain.GarmentPolo, Quantity: 2},
			{Garment: domain.GarmentShorts, Quantity: 1},
		},
		1, 40.85, 100.85, time.Date(2025, 2, 11, 11, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	order.ClearDomainEvents()
	return order
}

func TestGetOrderHandler_Handle(t *testing.T) {
	orders := new(MockOrderRepository)
	order := newQueryOrder(t)

	orders.On("FindByID", mock.Anything, order.ID()).Return(order, nil)

	handler := NewGetOrderHandler(orders)
	dto, err := handler.Handle(context.Background(), GetOrderQuery{OrderID: order.ID()})

	require.NoError(t, err)
	require.NotNil(t, dto)
	assert.Equal(t, order.ID(), dto.ID)
	assert.Equal(t, "School sports kit", dto.Name)
	assert.Equal(t, "pending", dto.Status)
	assert.Equal(t, "1h 41m", dto.TotalFormatted)
	require.Len(t, dto.Items, 2)
	assert.Equal(t, "polo", dto.Items[0].Garment)
}

func TestGetOrderHandler_Handle_NotFound(t *testing.T) {
	orders := new(MockOrderRepository)
	id := uuid.New()
	orders.On("FindByID", mock.Anything, id).Return(nil, nil)

	handler := NewGetOrderHandler(orders)
	dto, err := handler.Handle(context.Background(), GetOrderQuery{OrderID: id})

	require.NoError(t, err)
	assert.Nil(t, dto)
}

func TestToOrderDTO_StageStates(t *testing.T) {
	order := newQueryOrder(t)
	now := time.Now()
	require.True(t, order.StartStage(domain.StageDesign, now))
	require.True(t, order.CompleteStage(domain.StageDesign, now))
	require.True(t, order.StartStage(domain.StagePrinting, now))

	dto := ToOrderDTO(order)

	require.Len(t, dto.Stages, 5)
	assert.Equal(t, "design", dto.Stages[0].Stage)
	assert.Equal(t, "completed", dto.Stages[0].State)
	assert.NotNil(t, dto.Stages[0].FinishedAt)
	assert.Equal(t, "in-progress", dto.Stages[1].State)
	assert.NotNil(t, dto.Stages[1].StartedAt)
	assert.Nil(t, dto.Stages[1].FinishedAt)
	assert.Equal(t, "not-started", dto.Stages[2].State)
	assert.Equal(t, "in-production", dto.Status)
}
