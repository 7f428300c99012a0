package booking

import (
	"context"
	"time"
)

// ListQuery selects bookings for a listing. For RoleBooker, BookerID is the
// subject; for RoleOwner, ItemIDs are the subject's items.
type ListQuery struct {
	Role     Role
	BookerID int64
	ItemIDs  []int64
	State    State
	Now      time.Time
	Page     Page
}

// BookingRepository defines the persistence contract for booking aggregates.
type BookingRepository interface {
	// FindByID retrieves a booking by id, or a NotFound domain error.
	FindByID(ctx context.Context, id int64) (*Booking, error)

	// Save inserts a new booking and assigns its id.
	Save(ctx context.Context, booking *Booking) error

	// UpdateStatus persists a decided booking only if it is still WAITING at
	// the version it was loaded with. A lost race yields a BadRequest domain error.
	UpdateStatus(ctx context.Context, booking *Booking) error

	// Delete removes a booking. Deleting a missing id is not an error.
	Delete(ctx context.Context, id int64) error

	// List returns bookings matching q ordered by start descending, id descending.
	List(ctx context.Context, q ListQuery) ([]*Booking, error)

	// FindLastNext resolves the last and next booking of one item.
	FindLastNext(ctx context.Context, itemID int64, now time.Time) (LastNext, error)

	// FindLastNextBatch resolves FindLastNext for many items at once. Items
	// without bookings map to an empty LastNext.
	FindLastNextBatch(ctx context.Context, itemIDs []int64, now time.Time) (map[int64]LastNext, error)

	// FindEarliestCompleted returns the completed booking of bookerID on itemID
	// that ended first, or nil when there is none.
	FindEarliestCompleted(ctx context.Context, bookerID, itemID int64, now time.Time) (*Booking, error)

	// CountByStatus returns booking counts grouped by status (admin).
	CountByStatus(ctx context.Context) (map[string]int64, error)
}
