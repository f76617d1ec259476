package queries

import (
	"context"
	"time"

	"github.com/felixgeelhaar/sublima/internal/production/application/services"
	"github.com/felixgeelhaar/sublima/internal/production/domain"
	"github.com/google/uuid"
)

// StageDTO is the transfer shape of one pipeline stage.
type StageDTO struct {
	Stage      string     `json:"stage"`
	State      string     `json:"state"`
	StartedAt  *time.Time `json:"started_at,omitempty"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// ItemDTO is the transfer shape of one order line.
type ItemDTO struct {
	Garment  string `json:"garment"`
	Quantity int    `json:"quantity"`
}

// OrderDTO is the transfer shape of one order.
type OrderDTO struct {
	ID                uuid.UUID  `json:"id"`
	Name              string     `json:"name"`
	ClientName        string     `json:"client_name"`
	Description       string     `json:"description,omitempty"`
	Designer          string     `json:"designer,omitempty"`
	Status            string     `json:"status"`
	Items             []ItemDTO  `json:"items"`
	DesignHours       float64    `json:"design_hours"`
	ProductionMinutes float64    `json:"production_minutes"`
	TotalMinutes      float64    `json:"total_minutes"`
	TotalFormatted    string     `json:"total_formatted"`
	EstimatedDelivery time.Time  `json:"estimated_delivery"`
	CreatedAt         time.Time  `json:"created_at"`
	Stages            []StageDTO `json:"stages"`
	ArchiveWeek       string     `json:"archive_week,omitempty"`
}

// GetOrderQuery requests a single order by ID.
type GetOrderQuery struct {
	OrderID uuid.UUID
}

func (q GetOrderQuery) QueryName() string { return "production.get_order" }

// GetOrderHandler handles the GetOrderQuery.
type GetOrderHandler struct {
	orders domain.OrderRepository
}

// NewGetOrderHandler creates a new GetOrderHandler.
func NewGetOrderHandler(orders domain.OrderRepository) *GetOrderHandler {
	return &GetOrderHandler{orders: orders}
}

// Handle executes the GetOrderQuery. Returns (nil, nil) when the order does
// not exist.
func (h *GetOrderHandler) Handle(ctx context.Context, query GetOrderQuery) (*OrderDTO, error) {
	order, err := h.orders.FindByID(ctx, query.OrderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, nil
	}
	dto := ToOrderDTO(order)
	return &dto, nil
}

// ToOrderDTO maps an order aggregate into its transfer shape.
func ToOrderDTO(order *domain.Order) OrderDTO {
	items := make([]ItemDTO, 0, len(order.Items()))
	for _, item := range order.Items() {
		items = append(items, ItemDTO{Garment: item.Garment.String(), Quantity: item.Quantity})
	}

	pipeline := order.Pipeline()
	stages := make([]StageDTO, 0, len(domain.PipelineStages()))
	for _, stage := range domain.PipelineStages() {
		prog := pipeline[stage]
		state := "not-started"
		switch {
		case prog.Completed:
			state = "completed"
		case prog.InProgress():
			state = "in-progress"
		}
		stages = append(stages, StageDTO{
			Stage:      stage.String(),
			State:      state,
			StartedAt:  prog.StartedAt,
			FinishedAt: prog.FinishedAt,
		})
	}

	return OrderDTO{
		ID:                order.ID(),
		Name:              order.Name(),
		ClientName:        order.ClientName(),
		Description:       order.Description(),
		Designer:          order.Designer(),
		Status:            order.Status().String(),
		Items:             items,
		DesignHours:       order.DesignHours(),
		ProductionMinutes: order.ProductionMinutes(),
		TotalMinutes:      order.TotalMinutes(),
		TotalFormatted:    services.FormatMinutes(order.TotalMinutes()),
		EstimatedDelivery: order.EstimatedDelivery(),
		CreatedAt:         order.CreatedAt(),
		Stages:            stages,
		ArchiveWeek:       order.ArchiveWeek(),
	}
}
