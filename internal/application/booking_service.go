package application

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	bookingDomain "github.com/shareit-hub/service-booking/internal/domain/booking"
	itemDomain "github.com/shareit-hub/service-booking/internal/domain/item"
	userDomain "github.com/shareit-hub/service-booking/internal/domain/user"
	"github.com/shareit-hub/service-booking/pkg/domain"
	"github.com/shareit-hub/service-booking/pkg/events"
	"github.com/shareit-hub/service-booking/pkg/metrics"
)

// BookingService is the application service orchestrating booking lifecycle use cases.
type BookingService struct {
	repo     bookingDomain.BookingRepository
	items    itemDomain.ItemRepository
	users    userDomain.UserRepository
	tx       Transactor
	producer EventPublisher
	logger   *zap.Logger
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	repo bookingDomain.BookingRepository,
	items itemDomain.ItemRepository,
	users userDomain.UserRepository,
	tx Transactor,
	producer EventPublisher,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		repo:     repo,
		items:    items,
		users:    users,
		tx:       tx,
		producer: producer,
		logger:   logger,
	}
}

// CreateBooking reserves an item for [start, end) on behalf of bookerID.
// Checks run in order: window, booker, item, ownership, availability.
func (s *BookingService) CreateBooking(ctx context.Context, bookerID int64, req CreateBookingRequest) (*BookingDTO, error) {
	bk, err := bookingDomain.NewBooking(req.ItemID, bookerID, req.Start, req.End)
	if err != nil {
		return nil, err
	}

	var it *itemDomain.Item
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		exists, err := s.users.Exists(ctx, bookerID)
		if err != nil {
			return err
		}
		if !exists {
			return domain.NewNoAccessError("You haven't access to booking. Please, log in.")
		}

		it, err = s.items.FindByID(ctx, req.ItemID)
		if err != nil {
			return err
		}
		if it.IsOwnedBy(bookerID) {
			return domain.NewNotFoundMessage("Item cannot be reserved.")
		}
		if !it.Available() {
			return domain.NewBadRequestError(fmt.Sprintf("Item with id %d is not available.", it.ID()))
		}

		return s.repo.Save(ctx, bk)
	})
	if err != nil {
		if domain.KindOf(err) != "" {
			s.logger.Warn("booking rejected",
				zap.Int64("booker_id", bookerID),
				zap.Int64("item_id", req.ItemID),
				zap.Error(err),
			)
			return nil, err
		}
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	metrics.IncBookingTransition(string(bk.Status()))
	s.logger.Info("booking created",
		zap.Int64("booking_id", bk.ID()),
		zap.Int64("item_id", bk.ItemID()),
		zap.Int64("booker_id", bookerID),
	)

	publishEvent(ctx, s.producer, s.logger, events.TopicBookingEvents, events.BookingCreated, key(bk.ID()), events.BookingCreatedEvent{
		BookingID:  bk.ID(),
		ItemID:     bk.ItemID(),
		BookerID:   bk.BookerID(),
		OwnerID:    it.OwnerID(),
		Start:      bk.Start(),
		End:        bk.End(),
		Status:     string(bk.Status()),
		OccurredAt: time.Now().UTC(),
	})

	result := toBookingDTO(bk, it)
	return &result, nil
}

// UpdateStatus approves or rejects a WAITING booking. Only the item owner may
// decide; anyone else gets NotFound so the booking's existence stays hidden.
func (s *BookingService) UpdateStatus(ctx context.Context, ownerID, bookingID int64, approved bool) (*BookingDTO, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	it, err := s.items.FindByID(ctx, bk.ItemID())
	if err != nil && !domain.IsNotFound(err) {
		return nil, err
	}
	if it == nil || !it.IsOwnedBy(ownerID) {
		return nil, domain.NewNotFoundMessage("You haven't access to update this booking.")
	}

	if err := bk.Decide(approved); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateStatus(ctx, bk); err != nil {
		if domain.IsBadRequest(err) {
			s.logger.Warn("booking status changed concurrently", zap.Int64("booking_id", bookingID))
		}
		return nil, err
	}

	metrics.IncBookingTransition(string(bk.Status()))
	s.logger.Info("booking status updated",
		zap.Int64("booking_id", bk.ID()),
		zap.String("status", string(bk.Status())),
		zap.Int64("owner_id", ownerID),
	)

	eventType := events.BookingRejected
	if approved {
		eventType = events.BookingApproved
	}
	publishEvent(ctx, s.producer, s.logger, events.TopicBookingEvents, eventType, key(bk.ID()), events.BookingStatusChangedEvent{
		BookingID:  bk.ID(),
		ItemID:     bk.ItemID(),
		BookerID:   bk.BookerID(),
		OwnerID:    ownerID,
		Status:     string(bk.Status()),
		OccurredAt: time.Now().UTC(),
	})

	result := toBookingDTO(bk, it)
	return &result, nil
}

// DeleteBooking removes a booking made by userID. A missing booking is
// treated as already deleted.
func (s *BookingService) DeleteBooking(ctx context.Context, userID, bookingID int64) (int64, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		if domain.IsNotFound(err) {
			return bookingID, nil
		}
		return 0, err
	}

	if !bk.IsBookedBy(userID) {
		return 0, domain.NewNoAccessError("You haven't access to delete this booking.")
	}

	if err := s.repo.Delete(ctx, bookingID); err != nil {
		return 0, err
	}

	metrics.IncBookingTransition("DELETED")
	s.logger.Info("booking deleted",
		zap.Int64("booking_id", bookingID),
		zap.Int64("booker_id", userID),
	)

	publishEvent(ctx, s.producer, s.logger, events.TopicBookingEvents, events.BookingDeleted, key(bookingID), events.BookingDeletedEvent{
		BookingID:  bookingID,
		ItemID:     bk.ItemID(),
		BookerID:   bk.BookerID(),
		OccurredAt: time.Now().UTC(),
	})

	return bookingID, nil
}

// GetBooking returns a booking visible to its booker or the item owner.
func (s *BookingService) GetBooking(ctx context.Context, userID, bookingID int64) (*BookingDTO, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	it, err := s.items.FindByID(ctx, bk.ItemID())
	if err != nil && !domain.IsNotFound(err) {
		return nil, err
	}

	if !bk.IsBookedBy(userID) && (it == nil || !it.IsOwnedBy(userID)) {
		return nil, domain.NewNotFoundMessage("This booking isn't found.")
	}

	result := toBookingDTO(bk, it)
	return &result, nil
}

// --- Admin methods ---

// GetBookingStats returns aggregate booking statistics (admin).
func (s *BookingService) GetBookingStats(ctx context.Context) (*BookingStatsDTO, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking stats: %w", err)
	}

	var total int64
	for _, c := range counts {
		total += c
	}

	return &BookingStatsDTO{
		TotalBookings: total,
		ByStatus:      counts,
	}, nil
}

func key(id int64) string {
	return strconv.FormatInt(id, 10)
}
