package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrder(t *testing.T) *Order {
	t.Helper()
	items := []OrderItem{
		{Garment: GarmentPolo, Quantity: 2},
		{Garment: GarmentShorts, Quantity: 1},
	}
	delivery := time.Date(2025, 2, 11, 11, 0, 0, 0, time.UTC)
	order, err := NewOrder("School sports kit", uuid.New(), "Riverside Primary", items, 1, 40.85, 100.85, delivery)
	require.NoError(t, err)
	return order
}

func completeAllStages(t *testing.T, o *Order, now time.Time) {
	t.Helper()
	for _, s := range PipelineStages() {
		require.True(t, o.StartStage(s, now))
		require.True(t, o.CompleteStage(s, now))
	}
}

func TestNewOrder(t *testing.T) {
	order := newTestOrder(t)

	assert.NotEqual(t, uuid.Nil, order.ID())
	assert.Equal(t, "School sports kit", order.Name())
	assert.Equal(t, "Riverside Primary", order.ClientName())
	assert.Equal(t, StatusPending, order.Status())
	assert.Equal(t, 1.0, order.DesignHours())
	assert.InDelta(t, 40.85, order.ProductionMinutes(), 1e-9)
	assert.InDelta(t, 100.85, order.TotalMinutes(), 1e-9)
	assert.Empty(t, order.ArchiveWeek())
	assert.Len(t, order.Items(), 2)
	assert.True(t, order.Pipeline()[StageDesign].NotStarted())
}

func TestNewOrder_EmitsCreatedEvent(t *testing.T) {
	order := newTestOrder(t)

	events := order.DomainEvents()
	require.Len(t, events, 1)

	created, ok := events[0].(*OrderCreated)
	require.True(t, ok)
	assert.Equal(t, order.ID(), created.AggregateID())
	assert.Equal(t, "School sports kit", created.Name)
	assert.Equal(t, 3, created.ItemCount)
	assert.InDelta(t, 100.85, created.TotalMinutes, 1e-9)
}

func TestNewOrder_EmptyName(t *testing.T) {
	_, err := NewOrder("", uuid.New(), "Client", nil, 1, 0, 60, time.Time{})
	assert.ErrorIs(t, err, ErrEmptyOrderName)
}

func TestNewOrder_NegativeDesignHours(t *testing.T) {
	_, err := NewOrder("Kit", uuid.New(), "Client", nil, -1, 0, 0, time.Time{})
	assert.ErrorIs(t, err, ErrNegativeDesign)
}

func TestNewOrder_InvalidItem(t *testing.T) {
	items := []OrderItem{{Garment: GarmentPolo, Quantity: 0}}
	_, err := NewOrder("Kit", uuid.New(), "Client", items, 1, 0, 60, time.Time{})
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestOrder_Items_ReturnsCopy(t *testing.T) {
	order := newTestOrder(t)
	items := order.Items()
	items[0].Quantity = 99

	assert.Equal(t, 2, order.Items()[0].Quantity)
}

func TestOrder_StartStage(t *testing.T) {
	order := newTestOrder(t)
	order.ClearDomainEvents()
	now := time.Now()

	require.True(t, order.StartStage(StageDesign, now))
	assert.Equal(t, StatusInDesign, order.Status())
	assert.True(t, order.StageProgress(StageDesign).InProgress())

	events := order.DomainEvents()
	require.Len(t, events, 1)
	started, ok := events[0].(*StageStarted)
	require.True(t, ok)
	assert.Equal(t, "design", started.Stage)
}

func TestOrder_StartStage_Idempotent(t *testing.T) {
	order := newTestOrder(t)
	now := time.Now()

	require.True(t, order.StartStage(StagePrinting, now))
	order.ClearDomainEvents()

	assert.False(t, order.StartStage(StagePrinting, now.Add(time.Hour)))
	assert.Empty(t, order.DomainEvents())
}

func TestOrder_CompleteStage(t *testing.T) {
	order := newTestOrder(t)
	now := time.Now()

	require.True(t, order.StartStage(StageDesign, now))
	order.ClearDomainEvents()

	require.True(t, order.CompleteStage(StageDesign, now.Add(time.Hour)))
	assert.True(t, order.StageProgress(StageDesign).Completed)

	events := order.DomainEvents()
	require.Len(t, events, 1)
	completed, ok := events[0].(*StageCompleted)
	require.True(t, ok)
	assert.Equal(t, "design", completed.Stage)
}

func TestOrder_CompleteStage_NeverStarted(t *testing.T) {
	order := newTestOrder(t)
	order.ClearDomainEvents()

	assert.False(t, order.CompleteStage(StagePressing, time.Now()))
	assert.Equal(t, StatusPending, order.Status())
	assert.Empty(t, order.DomainEvents())
}

func TestOrder_CompleteStage_LastStageCompletesOrder(t *testing.T) {
	order := newTestOrder(t)
	now := time.Now()

	for _, s := range PipelineStages()[:4] {
		require.True(t, order.StartStage(s, now))
		require.True(t, order.CompleteStage(s, now))
	}
	require.True(t, order.StartStage(StageQualityControl, now))
	order.ClearDomainEvents()

	require.True(t, order.CompleteStage(StageQualityControl, now))
	assert.Equal(t, StatusCompleted, order.Status())

	events := order.DomainEvents()
	require.Len(t, events, 2)
	_, ok := events[0].(*StageCompleted)
	require.True(t, ok)
	_, ok = events[1].(*OrderCompleted)
	require.True(t, ok)
}

func TestOrder_SetEstimatedDelivery(t *testing.T) {
	order := newTestOrder(t)
	order.ClearDomainEvents()

	next := order.EstimatedDelivery().Add(24 * time.Hour)
	order.SetEstimatedDelivery(next)
	assert.Equal(t, next, order.EstimatedDelivery())

	events := order.DomainEvents()
	require.Len(t, events, 1)
	_, ok := events[0].(*DeliveryReestimated)
	require.True(t, ok)

	// Same estimate again is a no-op.
	order.ClearDomainEvents()
	order.SetEstimatedDelivery(next)
	assert.Empty(t, order.DomainEvents())
}

func TestOrder_Archive(t *testing.T) {
	order := newTestOrder(t)
	now := time.Date(2025, 2, 12, 16, 0, 0, 0, time.UTC)
	completeAllStages(t, order, now)
	order.ClearDomainEvents()

	require.NoError(t, order.Archive("2025-W07", now))
	assert.Equal(t, StatusArchived, order.Status())
	assert.Equal(t, "2025-W07", order.ArchiveWeek())

	events := order.DomainEvents()
	require.Len(t, events, 1)
	archived, ok := events[0].(*OrderArchived)
	require.True(t, ok)
	assert.Equal(t, "2025-W07", archived.WeekTag)
}

func TestOrder_Archive_NotCompleted(t *testing.T) {
	order := newTestOrder(t)
	err := order.Archive("2025-W07", time.Now())
	assert.ErrorIs(t, err, ErrOrderNotCompleted)
	assert.Equal(t, StatusPending, order.Status())
}

func TestOrder_Archive_AlreadyArchived(t *testing.T) {
	order := newTestOrder(t)
	now := time.Now()
	completeAllStages(t, order, now)
	require.NoError(t, order.Archive("2025-W07", now))
	order.ClearDomainEvents()

	require.NoError(t, order.Archive("2025-W08", now))
	assert.Equal(t, "2025-W07", order.ArchiveWeek())
	assert.Empty(t, order.DomainEvents())
}

func TestOrder_ArchivedIsTerminal(t *testing.T) {
	order := newTestOrder(t)
	now := time.Now()
	completeAllStages(t, order, now)
	require.NoError(t, order.Archive("2025-W07", now))
	order.ClearDomainEvents()

	assert.False(t, order.StartStage(StageDesign, now))
	assert.False(t, order.CompleteStage(StageDesign, now))
	assert.Equal(t, StatusArchived, order.Status())
	assert.Empty(t, order.DomainEvents())
}

func TestWeekTag(t *testing.T) {
	tests := []struct {
		at   time.Time
		want string
	}{
		{time.Date(2025, 2, 12, 0, 0, 0, 0, time.UTC), "2025-W07"},
		{time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), "2025-W01"},
		// Dec 29 2025 belongs to ISO week 1 of 2026.
		{time.Date(2025, 12, 29, 0, 0, 0, 0, time.UTC), "2026-W01"},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, WeekTag(tc.at))
	}
}

func TestRehydrateOrder(t *testing.T) {
	id := uuid.New()
	clientID := uuid.New()
	now := time.Now()
	pipeline := NewPipeline()
	require.True(t, pipeline.Start(StageDesign, now))
	require.True(t, pipeline.Complete(StageDesign, now))

	order := RehydrateOrder(
		id, "Kit", clientID, "Client", "rush job", "Ana",
		[]OrderItem{{Garment: GarmentPolo, Quantity: 2}},
		1, 29.3, 89.3, now.Add(48*time.Hour),
		pipeline, StatusInDesign, "", now.Add(-time.Hour), now,
	)

	assert.Equal(t, id, order.ID())
	assert.Equal(t, "Ana", order.Designer())
	assert.Equal(t, StatusInDesign, order.Status())
	assert.True(t, order.StageProgress(StageDesign).Completed)
	assert.Empty(t, order.DomainEvents())
}

func TestRehydrateOrder_NilPipeline(t *testing.T) {
	order := RehydrateOrder(
		uuid.New(), "Kit", uuid.New(), "Client", "", "",
		nil, 1, 0, 60, time.Time{},
		nil, StatusPending, "", time.Now(), time.Now(),
	)

	assert.True(t, order.StageProgress(StageDesign).NotStarted())
}
