package queries

import (
	"context"

	"github.com/felixgeelhaar/sublima/internal/production/domain"
)

// ListOrdersQuery requests orders filtered by status. An empty status lists
// every open order (not completed, not archived).
type ListOrdersQuery struct {
	Status domain.Status
}

func (q ListOrdersQuery) QueryName() string { return "production.list_orders" }

// ListOrdersHandler handles the ListOrdersQuery.
type ListOrdersHandler struct {
	orders domain.OrderRepository
}

// NewListOrdersHandler creates a new ListOrdersHandler.
func NewListOrdersHandler(orders domain.OrderRepository) *ListOrdersHandler {
	return &ListOrdersHandler{orders: orders}
}

// Handle executes the ListOrdersQuery.
func (h *ListOrdersHandler) Handle(ctx context.Context, query ListOrdersQuery) ([]OrderDTO, error) {
	var (
		orders []*domain.Order
		err    error
	)
	if query.Status == "" {
		orders, err = h.orders.FindOpen(ctx)
	} else {
		orders, err = h.orders.FindByStatus(ctx, query.Status)
	}
	if err != nil {
		return nil, err
	}

	out := make([]OrderDTO, 0, len(orders))
	for _, order := range orders {
		out = append(out, ToOrderDTO(order))
	}
	return out, nil
}

// ListArchiveQuery requests archived orders filed under one week tag.
type ListArchiveQuery struct {
	WeekTag string
}

func (q ListArchiveQuery) QueryName() string { return "production.list_archive" }

// ListArchiveHandler handles the ListArchiveQuery.
type ListArchiveHandler struct {
	orders domain.OrderRepository
}

// NewListArchiveHandler creates a new ListArchiveHandler.
func NewListArchiveHandler(orders domain.OrderRepository) *ListArchiveHandler {
	return &ListArchiveHandler{orders: orders}
}

// Handle executes the ListArchiveQuery.
func (h *ListArchiveHandler) Handle(ctx context.Context, query ListArchiveQuery) ([]OrderDTO, error) {
	orders, err := h.orders.FindByArchiveWeek(ctx, query.WeekTag)
	if err != nil {
		return nil, err
	}
	out := make([]OrderDTO, 0, len(orders))
	for _, order := range orders {
		out = append(out, ToOrderDTO(order))
	}
	return out, nil
}
