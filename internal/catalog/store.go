package catalog

import "context"

// Store loads and saves the whole catalog at once. Implementations do not
// coordinate writers; Service serialises its own mutations.
type Store interface {
	Load(ctx context.Context) (Catalog, error)
	Save(ctx context.Context, c Catalog) error
	Ping(ctx context.Context) error
}
