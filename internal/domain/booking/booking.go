package booking

import (
	"time"

	"github.com/shareit-hub/service-booking/pkg/domain"
)

// Booking is the aggregate root for a reservation of one item by one booker.
type Booking struct {
	id       int64
	itemID   int64
	bookerID int64
	start    time.Time
	end      time.Time
	status   BookingStatus

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// NewBooking creates a WAITING booking for [start, end). The id is assigned
// by the store on save.
func NewBooking(itemID, bookerID int64, start, end time.Time) (*Booking, error) {
	if start.IsZero() || end.IsZero() {
		return nil, domain.NewBadRequestError("The booking start and end dates are required.")
	}
	if !start.Before(end) {
		return nil, domain.NewBadRequestError("The booking start date must be before the end date.")
	}

	now := time.Now().UTC()
	return &Booking{
		itemID:    itemID,
		bookerID:  bookerID,
		start:     start.UTC(),
		end:       end.UTC(),
		status:    StatusWaiting,
		version:   1,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstructBooking rebuilds a Booking from persistence data (no validation).
func ReconstructBooking(
	id, itemID, bookerID int64,
	start, end time.Time,
	status BookingStatus,
	version int64,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:        id,
		itemID:    itemID,
		bookerID:  bookerID,
		start:     start,
		end:       end,
		status:    status,
		version:   version,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

// --- Getters ---

func (b *Booking) ID() int64             { return b.id }
func (b *Booking) ItemID() int64         { return b.itemID }
func (b *Booking) BookerID() int64       { return b.bookerID }
func (b *Booking) Start() time.Time      { return b.start }
func (b *Booking) End() time.Time        { return b.end }
func (b *Booking) Status() BookingStatus { return b.status }
func (b *Booking) Version() int64        { return b.version }
func (b *Booking) CreatedAt() time.Time  { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time  { return b.updatedAt }

// AssignID sets the store-generated id after insert.
func (b *Booking) AssignID(id int64) {
	b.id = id
}

// --- Behavior ---

// IsBookedBy reports whether userID made this booking.
func (b *Booking) IsBookedBy(userID int64) bool {
	return b.bookerID == userID
}

// Decide approves or rejects a WAITING booking. The version is bumped so the
// store can persist the change as a compare-and-set.
func (b *Booking) Decide(approved bool) error {
	target := StatusRejected
	if approved {
		target = StatusApproved
	}
	if !b.status.CanTransitionTo(target) {
		return domain.NewBadRequestError("The status of this booking has already been changed")
	}
	b.status = target
	b.version++
	b.updatedAt = time.Now().UTC()
	return nil
}
