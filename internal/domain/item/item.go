package item

import (
	"strings"
	"time"

	"github.com/shareit-hub/service-booking/pkg/domain"
)

// Item is the local read model of a catalog item. It is written only by
// catalog events; bookings never mutate it.
type Item struct {
	id          int64
	ownerID     int64
	name        string
	description string
	available   bool
	version     int64
	createdAt   time.Time
	updatedAt   time.Time
}

// NewItem creates an item from an item.listed event.
func NewItem(id, ownerID int64, name, description string, available bool) (*Item, error) {
	if id <= 0 {
		return nil, domain.NewBadRequestError("item id must be positive")
	}
	if ownerID <= 0 {
		return nil, domain.NewBadRequestError("item owner id must be positive")
	}
	if strings.TrimSpace(name) == "" {
		return nil, domain.NewBadRequestError("item name is required")
	}

	now := time.Now().UTC()
	return &Item{
		id:          id,
		ownerID:     ownerID,
		name:        name,
		description: description,
		available:   available,
		version:     1,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// Reconstruct rebuilds an Item from persistence data (no validation).
func Reconstruct(
	id, ownerID int64,
	name, description string,
	available bool,
	version int64,
	createdAt, updatedAt time.Time,
) *Item {
	return &Item{
		id:          id,
		ownerID:     ownerID,
		name:        name,
		description: description,
		available:   available,
		version:     version,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// --- Getters ---

func (i *Item) ID() int64            { return i.id }
func (i *Item) OwnerID() int64       { return i.ownerID }
func (i *Item) Name() string         { return i.name }
func (i *Item) Description() string  { return i.description }
func (i *Item) Available() bool      { return i.available }
func (i *Item) Version() int64       { return i.version }
func (i *Item) CreatedAt() time.Time { return i.createdAt }
func (i *Item) UpdatedAt() time.Time { return i.updatedAt }

// --- Behavior ---

// IsOwnedBy checks if the item belongs to the given user.
func (i *Item) IsOwnedBy(userID int64) bool {
	return i.ownerID == userID
}

// Patch is a partial update. Nil fields are left unchanged, so an explicit
// empty description or available=false can still be applied.
type Patch struct {
	Name        *string
	Description *string
	Available   *bool
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil && p.Available == nil
}

// Apply applies the present fields of p.
func (i *Item) Apply(p Patch) error {
	if p.IsEmpty() {
		return nil
	}
	if p.Name != nil {
		if strings.TrimSpace(*p.Name) == "" {
			return domain.NewBadRequestError("item name must not be blank")
		}
		i.name = *p.Name
	}
	if p.Description != nil {
		i.description = *p.Description
	}
	if p.Available != nil {
		i.available = *p.Available
	}
	i.version++
	i.updatedAt = time.Now().UTC()
	return nil
}
