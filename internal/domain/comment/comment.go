package comment

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shareit-hub/service-booking/pkg/domain"
)

// MaxTextLength is the longest accepted comment, in characters.
const MaxTextLength = 1000

// Comment is a review left on an item after a completed booking.
type Comment struct {
	id        int64
	itemID    int64
	authorID  int64
	bookingID int64
	text      string
	createdAt time.Time
}

// NewComment creates a comment tied to the booking that made the author eligible.
func NewComment(itemID, authorID, bookingID int64, text string) (*Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domain.NewBadRequestError("comment text is required")
	}
	if utf8.RuneCountInString(text) > MaxTextLength {
		return nil, domain.NewBadRequestError("comment text must not exceed 1000 characters")
	}

	return &Comment{
		itemID:    itemID,
		authorID:  authorID,
		bookingID: bookingID,
		text:      text,
		createdAt: time.Now().UTC(),
	}, nil
}

// Reconstruct rebuilds a Comment from persistence.
func Reconstruct(id, itemID, authorID, bookingID int64, text string, createdAt time.Time) *Comment {
	return &Comment{
		id:        id,
		itemID:    itemID,
		authorID:  authorID,
		bookingID: bookingID,
		text:      text,
		createdAt: createdAt,
	}
}

// Getters.
func (c *Comment) ID() int64            { return c.id }
func (c *Comment) ItemID() int64        { return c.itemID }
func (c *Comment) AuthorID() int64      { return c.authorID }
func (c *Comment) BookingID() int64     { return c.bookingID }
func (c *Comment) Text() string         { return c.text }
func (c *Comment) CreatedAt() time.Time { return c.createdAt }

// AssignID sets the store-generated id after insert.
func (c *Comment) AssignID(id int64) { c.id = id }
