package application

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	bookingDomain "github.com/shareit-hub/service-booking/internal/domain/booking"
	itemDomain "github.com/shareit-hub/service-booking/internal/domain/item"
	userDomain "github.com/shareit-hub/service-booking/internal/domain/user"
	"github.com/shareit-hub/service-booking/pkg/domain"
)

// BookingQueryService lists bookings of a booker or of an owner's items by state.
type BookingQueryService struct {
	repo   bookingDomain.BookingRepository
	items  itemDomain.ItemRepository
	users  userDomain.UserRepository
	logger *zap.Logger
}

// NewBookingQueryService creates a new BookingQueryService.
func NewBookingQueryService(
	repo bookingDomain.BookingRepository,
	items itemDomain.ItemRepository,
	users userDomain.UserRepository,
	logger *zap.Logger,
) *BookingQueryService {
	return &BookingQueryService{repo: repo, items: items, users: users, logger: logger}
}

// ListBookings returns one page of the subject's bookings matching state at
// now, newest start first. An owner without items gets an empty page.
func (s *BookingQueryService) ListBookings(
	ctx context.Context,
	subjectID int64,
	role bookingDomain.Role,
	state bookingDomain.State,
	now time.Time,
	page bookingDomain.Page,
) ([]BookingDTO, error) {
	if !state.IsValid() {
		return nil, domain.NewUnsupportedStatusError(string(state))
	}

	exists, err := s.users.Exists(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.NewNoAccessError("You haven't access to bookings. Please, log in.")
	}

	q := bookingDomain.ListQuery{
		Role:  role,
		State: state,
		Now:   now,
		Page:  page,
	}
	if role == bookingDomain.RoleOwner {
		itemIDs, err := s.items.FindIDsByOwner(ctx, subjectID)
		if err != nil {
			return nil, err
		}
		if len(itemIDs) == 0 {
			return []BookingDTO{}, nil
		}
		q.ItemIDs = itemIDs
	} else {
		q.BookerID = subjectID
	}

	bookings, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	items, err := s.itemsOf(ctx, bookings)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("bookings listed",
		zap.Int64("subject_id", subjectID),
		zap.Stringer("role", role),
		zap.String("state", string(state)),
		zap.Int("count", len(bookings)),
	)

	dtos := make([]BookingDTO, len(bookings))
	for i, bk := range bookings {
		dtos[i] = toBookingDTO(bk, items[bk.ItemID()])
	}
	return dtos, nil
}

func (s *BookingQueryService) itemsOf(ctx context.Context, bookings []*bookingDomain.Booking) (map[int64]*itemDomain.Item, error) {
	seen := make(map[int64]struct{}, len(bookings))
	ids := make([]int64, 0, len(bookings))
	for _, bk := range bookings {
		if _, ok := seen[bk.ItemID()]; ok {
			continue
		}
		seen[bk.ItemID()] = struct{}{}
		ids = append(ids, bk.ItemID())
	}

	found, err := s.items.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]*itemDomain.Item, len(found))
	for _, it := range found {
		byID[it.ID()] = it
	}
	return byID, nil
}
