package comment

import "context"

// CommentRepository defines persistence operations for item comments.
type CommentRepository interface {
	Save(ctx context.Context, comment *Comment) error
	// FindByItemID returns comments oldest first.
	FindByItemID(ctx context.Context, itemID int64) ([]*Comment, error)
	FindByItemIDs(ctx context.Context, itemIDs []int64) (map[int64][]*Comment, error)
}
