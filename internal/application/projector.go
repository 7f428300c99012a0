package application

import (
	"context"
	"fmt"
	"time"

	bookingDomain "github.com/shareit-hub/service-booking/internal/domain/booking"
)

// BookingProjector resolves the last and next booking of items.
//
// Last is the APPROVED or CANCELED booking that has ended or is ongoing at
// now, with the latest end. Next is the APPROVED or WAITING booking starting
// after now, with the earliest start. Ties go to the higher id for last and
// the lower id for next, so Resolve and ResolveBatch always agree.
type BookingProjector struct {
	repo bookingDomain.BookingRepository
}

// NewBookingProjector creates a new BookingProjector.
func NewBookingProjector(repo bookingDomain.BookingRepository) *BookingProjector {
	return &BookingProjector{repo: repo}
}

// Resolve returns the last and next booking of one item.
func (p *BookingProjector) Resolve(ctx context.Context, itemID int64, now time.Time) (bookingDomain.LastNext, error) {
	ln, err := p.repo.FindLastNext(ctx, itemID, now)
	if err != nil {
		return bookingDomain.LastNext{}, fmt.Errorf("failed to resolve bookings of item %d: %w", itemID, err)
	}
	return ln, nil
}

// ResolveBatch returns Resolve for every id. Every requested id is present
// in the result, possibly with an empty LastNext.
func (p *BookingProjector) ResolveBatch(ctx context.Context, itemIDs []int64, now time.Time) (map[int64]bookingDomain.LastNext, error) {
	unique := make([]int64, 0, len(itemIDs))
	seen := make(map[int64]struct{}, len(itemIDs))
	for _, id := range itemIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	result, err := p.repo.FindLastNextBatch(ctx, unique, now)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve bookings of %d items: %w", len(unique), err)
	}
	return result, nil
}
