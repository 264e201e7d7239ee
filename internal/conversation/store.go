package conversation

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrSessionNotFound is returned when no context exists for the id. Fatal to
// the request, not to the session: the caller re-initializes.
var ErrSessionNotFound = errors.New("session not found")

// Store loads and saves session contexts by id. Implementations must
// round-trip every field losslessly.
type Store interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Context, error)
	Save(ctx context.Context, c *Context) error
}
