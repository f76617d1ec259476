package application

import "context"

// Query reads system state without mutating it.
type Query interface {
	QueryName() string
}

// QueryHandler executes a single query type and returns its result.
type QueryHandler[Q Query, R any] interface {
	Handle(ctx context.Context, query Q) (R, error)
}
