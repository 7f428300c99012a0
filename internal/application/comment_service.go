package application

import (
	"context"
	"time"

	"go.uber.org/zap"

	commentDomain "github.com/shareit-hub/service-booking/internal/domain/comment"
	itemDomain "github.com/shareit-hub/service-booking/internal/domain/item"
	userDomain "github.com/shareit-hub/service-booking/internal/domain/user"
	"github.com/shareit-hub/service-booking/pkg/domain"
	"github.com/shareit-hub/service-booking/pkg/events"
)

// AddCommentRequest holds the text of a new comment.
type AddCommentRequest struct {
	Text string `json:"text" binding:"required"`
}

// CommentService handles item comment use cases.
type CommentService struct {
	repo        commentDomain.CommentRepository
	items       itemDomain.ItemRepository
	users       userDomain.UserRepository
	eligibility *CommentEligibility
	producer    EventPublisher
	logger      *zap.Logger
}

// NewCommentService creates a new CommentService.
func NewCommentService(
	repo commentDomain.CommentRepository,
	items itemDomain.ItemRepository,
	users userDomain.UserRepository,
	eligibility *CommentEligibility,
	producer EventPublisher,
	logger *zap.Logger,
) *CommentService {
	return &CommentService{
		repo:        repo,
		items:       items,
		users:       users,
		eligibility: eligibility,
		producer:    producer,
		logger:      logger,
	}
}

// AddComment stores a comment by authorID on itemID. The author must have a
// completed booking of the item that ended before now.
func (s *CommentService) AddComment(ctx context.Context, authorID, itemID int64, req AddCommentRequest, now time.Time) (*CommentDTO, error) {
	author, err := s.users.FindByID(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if _, err := s.items.FindByID(ctx, itemID); err != nil {
		return nil, err
	}

	bookingID, ok, err := s.eligibility.MayComment(ctx, authorID, itemID, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		s.logger.Warn("comment rejected: no completed booking",
			zap.Int64("author_id", authorID),
			zap.Int64("item_id", itemID),
		)
		return nil, domain.NewBadRequestError("You cannot leave a comment on this item.")
	}

	c, err := commentDomain.NewComment(itemID, authorID, bookingID, req.Text)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, c); err != nil {
		return nil, err
	}

	s.logger.Info("comment created",
		zap.Int64("comment_id", c.ID()),
		zap.Int64("item_id", itemID),
		zap.Int64("booking_id", bookingID),
	)

	publishEvent(ctx, s.producer, s.logger, events.TopicBookingEvents, events.CommentCreated, key(itemID), events.CommentCreatedEvent{
		CommentID:  c.ID(),
		ItemID:     itemID,
		AuthorID:   authorID,
		BookingID:  bookingID,
		OccurredAt: time.Now().UTC(),
	})

	dto := toCommentDTO(c, author)
	return &dto, nil
}
