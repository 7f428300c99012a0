package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	commentDomain "github.com/shareit-hub/service-booking/internal/domain/comment"
	"github.com/shareit-hub/service-booking/pkg/database"
)

// CommentModel is the GORM model for the comments table.
type CommentModel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	ItemID    int64     `gorm:"not null;index"`
	AuthorID  int64     `gorm:"not null"`
	BookingID int64     `gorm:"not null"`
	Text      string    `gorm:"type:varchar(1000);not null"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName sets the table name.
func (CommentModel) TableName() string { return "comments" }

// GormCommentRepository implements CommentRepository using GORM.
type GormCommentRepository struct {
	db *gorm.DB
}

// NewGormCommentRepository creates a new GormCommentRepository.
func NewGormCommentRepository(db *gorm.DB) *GormCommentRepository {
	return &GormCommentRepository{db: db}
}

// Save persists a new comment and assigns its id.
func (r *GormCommentRepository) Save(ctx context.Context, c *commentDomain.Comment) error {
	model := toCommentModel(c)
	if err := database.Conn(ctx, r.db).Create(&model).Error; err != nil {
		return fmt.Errorf("failed to save comment: %w", err)
	}
	c.AssignID(model.ID)
	return nil
}

// FindByItemID returns all comments of an item, oldest first.
func (r *GormCommentRepository) FindByItemID(ctx context.Context, itemID int64) ([]*commentDomain.Comment, error) {
	var models []CommentModel
	if err := database.Conn(ctx, r.db).
		Where("item_id = ?", itemID).
		Order("created_at ASC, id ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find comments: %w", err)
	}

	comments := make([]*commentDomain.Comment, len(models))
	for i := range models {
		comments[i] = toCommentDomain(&models[i])
	}
	return comments, nil
}

// FindByItemIDs groups the comments of several items by item id.
func (r *GormCommentRepository) FindByItemIDs(ctx context.Context, itemIDs []int64) (map[int64][]*commentDomain.Comment, error) {
	grouped := make(map[int64][]*commentDomain.Comment, len(itemIDs))
	if len(itemIDs) == 0 {
		return grouped, nil
	}

	var models []CommentModel
	if err := database.Conn(ctx, r.db).
		Where("item_id IN ?", itemIDs).
		Order("created_at ASC, id ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find comments: %w", err)
	}
	for i := range models {
		grouped[models[i].ItemID] = append(grouped[models[i].ItemID], toCommentDomain(&models[i]))
	}
	return grouped, nil
}

func toCommentModel(c *commentDomain.Comment) CommentModel {
	return CommentModel{
		ID:        c.ID(),
		ItemID:    c.ItemID(),
		AuthorID:  c.AuthorID(),
		BookingID: c.BookingID(),
		Text:      c.Text(),
		CreatedAt: c.CreatedAt().UTC(),
	}
}

func toCommentDomain(m *CommentModel) *commentDomain.Comment {
	return commentDomain.Reconstruct(
		m.ID,
		m.ItemID,
		m.AuthorID,
		m.BookingID,
		m.Text,
		m.CreatedAt.UTC(),
	)
}
