package session

import (
	"context"
	"errors"
)

// ErrNotFound indicates a session lookup miss. It is never fatal to the
// follow-up path, which must degrade to answering without a grounding
// context instead of surfacing an error.
var ErrNotFound = errors.New("session not found")

// Store port for product contexts. Create-and-read only: no update or
// delete is exposed, so a stored context can never change under a reader.
type Store interface {
	Create(ctx context.Context, pc ProductContext) (ID, error)
	Get(ctx context.Context, id ID) (ProductContext, error)
}
