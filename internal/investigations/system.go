package investigations

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/steward/internal/requests"
)

// System defines the public contract for request investigations.
type System interface {
	Handler() *Handler

	// Start begins a new investigation of the request, superseding any run
	// in flight. The returned snapshot reports every source as searching.
	Start(ctx context.Context, requestID uuid.UUID) (*Snapshot, error)

	Snapshot(ctx context.Context, requestID uuid.UUID) (*Snapshot, error)

	// Await blocks until the given generation completes. A zero generation
	// waits on the latest run.
	Await(ctx context.Context, requestID uuid.UUID, generation uint64) (*Snapshot, error)

	Sources(rt requests.RequestType) []SourceView

	// Wait blocks until every background run has returned.
	Wait()
}
