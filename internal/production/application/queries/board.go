package queries

import (
	"context"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/sublima/internal/production/application/services"
	"github.com/felixgeelhaar/sublima/internal/production/domain"
	"github.com/google/uuid"
)

// BoardRowDTO is one open order on the production board.
type BoardRowDTO struct {
	OrderID            uuid.UUID `json:"order_id"`
	Name               string    `json:"name"`
	ClientName         string    `json:"client_name"`
	Status             string    `json:"status"`
	CurrentStage       string    `json:"current_stage,omitempty"`
	RemainingMinutes   float64   `json:"remaining_minutes"`
	RemainingFormatted string    `json:"remaining_formatted"`
	EstimatedDelivery  time.Time `json:"estimated_delivery"`
}

// BoardDTO is the production board: every open order with its remaining
// work estimate.
type BoardDTO struct {
	Rows        []BoardRowDTO `json:"rows"`
	GeneratedAt time.Time     `json:"generated_at"`
}

// BoardCache is an optional read cache for the board snapshot. A nil cache
// disables caching entirely.
type BoardCache interface {
	Get(ctx context.Context) (*BoardDTO, bool)
	Set(ctx context.Context, board *BoardDTO)
	Invalidate(ctx context.Context)
}

// ProductionBoardQuery requests the board of open orders.
type ProductionBoardQuery struct{}

func (q ProductionBoardQuery) QueryName() string { return "production.board" }

// ProductionBoardHandler builds the open-orders board, estimating the
// remaining minutes of each order with the configured estimator.
type ProductionBoardHandler struct {
	orders    domain.OrderRepository
	settings  domain.SettingsRepository
	estimator services.RemainingTimeEstimator
	cache     BoardCache
	logger    *slog.Logger
}

// NewProductionBoardHandler creates a new ProductionBoardHandler.
func NewProductionBoardHandler(
	orders domain.OrderRepository,
	settings domain.SettingsRepository,
	estimator services.RemainingTimeEstimator,
	cache BoardCache,
	logger *slog.Logger,
) *ProductionBoardHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProductionBoardHandler{
		orders:    orders,
		settings:  settings,
		estimator: estimator,
		cache:     cache,
		logger:    logger,
	}
}

// Handle executes the ProductionBoardQuery, serving from cache when a fresh
// snapshot exists.
func (h *ProductionBoardHandler) Handle(ctx context.Context, query ProductionBoardQuery) (*BoardDTO, error) {
	if h.cache != nil {
		if board, ok := h.cache.Get(ctx); ok {
			return board, nil
		}
	}

	orders, err := h.orders.FindOpen(ctx)
	if err != nil {
		return nil, err
	}
	table, err := h.settings.LoadDurationTable(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]BoardRowDTO, 0, len(orders))
	for _, order := range orders {
		remaining := h.estimator.EstimateRemaining(order, table)
		rows = append(rows, BoardRowDTO{
			OrderID:            order.ID(),
			Name:               order.Name(),
			ClientName:         order.ClientName(),
			Status:             order.Status().String(),
			CurrentStage:       currentStage(order),
			RemainingMinutes:   remaining,
			RemainingFormatted: services.FormatMinutes(remaining),
			EstimatedDelivery:  order.EstimatedDelivery(),
		})
	}

	board := &BoardDTO{Rows: rows, GeneratedAt: time.Now().UTC()}
	if h.cache != nil {
		h.cache.Set(ctx, board)
	}
	return board, nil
}

// currentStage names the first stage currently in progress, or the next one
// waiting to start.
func currentStage(order *domain.Order) string {
	pipeline := order.Pipeline()
	for _, stage := range domain.PipelineStages() {
		if pipeline[stage].InProgress() {
			return stage.String()
		}
	}
	for _, stage := range domain.PipelineStages() {
		if pipeline[stage].NotStarted() {
			return stage.String()
		}
	}
	return ""
}
