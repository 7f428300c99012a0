package item

import "context"

// ItemRepository defines persistence operations for the item read model.
type ItemRepository interface {
	// FindByID returns the item or a NotFound domain error.
	FindByID(ctx context.Context, id int64) (*Item, error)
	FindByOwnerID(ctx context.Context, ownerID int64) ([]*Item, error)
	FindByIDs(ctx context.Context, ids []int64) ([]*Item, error)
	FindIDsByOwner(ctx context.Context, ownerID int64) ([]int64, error)
	// Upsert inserts the item or overwrites it when the id already exists.
	Upsert(ctx context.Context, item *Item) error
	Update(ctx context.Context, item *Item) error
	Delete(ctx context.Context, id int64) error
}
