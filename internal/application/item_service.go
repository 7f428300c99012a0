package application

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	commentDomain "github.com/shareit-hub/service-booking/internal/domain/comment"
	itemDomain "github.com/shareit-hub/service-booking/internal/domain/item"
	userDomain "github.com/shareit-hub/service-booking/internal/domain/user"
	"github.com/shareit-hub/service-booking/pkg/domain"
)

// ItemService serves the booking-aware item views.
type ItemService struct {
	items     itemDomain.ItemRepository
	users     userDomain.UserRepository
	comments  commentDomain.CommentRepository
	projector *BookingProjector
	logger    *zap.Logger
}

// NewItemService creates a new ItemService.
func NewItemService(
	items itemDomain.ItemRepository,
	users userDomain.UserRepository,
	comments commentDomain.CommentRepository,
	projector *BookingProjector,
	logger *zap.Logger,
) *ItemService {
	return &ItemService{
		items:     items,
		users:     users,
		comments:  comments,
		projector: projector,
		logger:    logger,
	}
}

// GetItem returns an item with its comments. The last and next booking are
// filled only when the viewer owns the item.
func (s *ItemService) GetItem(ctx context.Context, viewerID, itemID int64, now time.Time) (*ItemDTO, error) {
	it, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	result := toItemDTO(it)

	if it.IsOwnedBy(viewerID) {
		ln, err := s.projector.Resolve(ctx, itemID, now)
		if err != nil {
			return nil, err
		}
		result.LastBooking = toBookingShortDTO(ln.Last)
		result.NextBooking = toBookingShortDTO(ln.Next)
	}

	comments, err := s.comments.FindByItemID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	authors, err := s.authorsOf(ctx, comments)
	if err != nil {
		return nil, err
	}
	for _, c := range comments {
		result.Comments = append(result.Comments, toCommentDTO(c, authors[c.AuthorID()]))
	}

	return &result, nil
}

// GetOwnerItems returns all items of ownerID with last/next booking and comments.
func (s *ItemService) GetOwnerItems(ctx context.Context, ownerID int64, now time.Time) ([]ItemDTO, error) {
	exists, err := s.users.Exists(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.NewNotFoundError("User", strconv.FormatInt(ownerID, 10))
	}

	items, err := s.items.FindByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get owner items: %w", err)
	}

	ids := make([]int64, len(items))
	for i, it := range items {
		ids[i] = it.ID()
	}

	projections, err := s.projector.ResolveBatch(ctx, ids, now)
	if err != nil {
		return nil, err
	}
	grouped, err := s.comments.FindByItemIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	var all []*commentDomain.Comment
	for _, cs := range grouped {
		all = append(all, cs...)
	}
	authors, err := s.authorsOf(ctx, all)
	if err != nil {
		return nil, err
	}

	dtos := make([]ItemDTO, len(items))
	for i, it := range items {
		dto := toItemDTO(it)
		ln := projections[it.ID()]
		dto.LastBooking = toBookingShortDTO(ln.Last)
		dto.NextBooking = toBookingShortDTO(ln.Next)
		for _, c := range grouped[it.ID()] {
			dto.Comments = append(dto.Comments, toCommentDTO(c, authors[c.AuthorID()]))
		}
		dtos[i] = dto
	}
	return dtos, nil
}

func (s *ItemService) authorsOf(ctx context.Context, comments []*commentDomain.Comment) (map[int64]*userDomain.User, error) {
	ids := make([]int64, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.AuthorID())
	}
	return s.users.FindByIDs(ctx, ids)
}
