package requests

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/steward/pkg/pagination"
)

// System defines the public contract for request store operations.
// Decide is the only operation that changes a request's status.
type System interface {
	Handler() *Handler

	List(ctx context.Context) []Request
	Filter(ctx context.Context, term, statusFilter string) ([]Request, error)

	Page(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Request], error)

	Find(ctx context.Context, id uuid.UUID) (*Request, error)
	Create(ctx context.Context, cmd CreateCommand) (*Request, error)
	Decide(ctx context.Context, id uuid.UUID, cmd DecideCommand) (*Request, error)
	Stats(ctx context.Context) Stats
}
