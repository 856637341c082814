// Package store holds the client-side caches: denormalized, process-wide
// mirrors of the last-known server state, one per entity. Caches own their
// slice of state exclusively and cross-reference each other by id only;
// lookups happen at read time through the getters.
package store

import (
	"context"

	"pepesbook/internal/model"
)

// Gateway is the slice of the API client the stores need. Narrow on purpose:
// it keeps the stores testable with function-field fakes.
type Gateway interface {
	Do(ctx context.Context, method, endpoint string, body, out any) error
}

// Session exposes the active identity to the stores. Mutations require it;
// reads never do.
type Session interface {
	CurrentUser() (model.User, bool)
}
