package application

import (
	"context"
	"fmt"
	"time"

	bookingDomain "github.com/shareit-hub/service-booking/internal/domain/booking"
)

// CommentEligibility decides whether a user has completed a booking of an item.
type CommentEligibility struct {
	repo bookingDomain.BookingRepository
}

// NewCommentEligibility creates a new CommentEligibility.
func NewCommentEligibility(repo bookingDomain.BookingRepository) *CommentEligibility {
	return &CommentEligibility{repo: repo}
}

// MayComment reports whether userID has an APPROVED or CANCELED booking of
// itemID that ended before now, returning the one that ended first.
func (e *CommentEligibility) MayComment(ctx context.Context, userID, itemID int64, now time.Time) (int64, bool, error) {
	bk, err := e.repo.FindEarliestCompleted(ctx, userID, itemID, now)
	if err != nil {
		return 0, false, fmt.Errorf("failed to check comment eligibility: %w", err)
	}
	if bk == nil {
		return 0, false, nil
	}
	return bk.ID(), true, nil
}
