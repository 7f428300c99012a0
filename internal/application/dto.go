package application

import (
	"time"

	bookingDomain "github.com/shareit-hub/service-booking/internal/domain/booking"
	commentDomain "github.com/shareit-hub/service-booking/internal/domain/comment"
	itemDomain "github.com/shareit-hub/service-booking/internal/domain/item"
	userDomain "github.com/shareit-hub/service-booking/internal/domain/user"
)

// CreateBookingRequest holds the data needed to create a new booking.
type CreateBookingRequest struct {
	Start  time.Time `json:"start" binding:"required"`
	End    time.Time `json:"end" binding:"required"`
	ItemID int64     `json:"itemId" binding:"required,gt=0"`
}

// ItemRefDTO identifies the booked item.
type ItemRefDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name,omitempty"`
}

// UserRefDTO identifies the booker.
type UserRefDTO struct {
	ID int64 `json:"id"`
}

// BookingDTO is the response representation of a booking.
type BookingDTO struct {
	ID     int64      `json:"id"`
	Start  time.Time  `json:"start"`
	End    time.Time  `json:"end"`
	Status string     `json:"status"`
	Item   ItemRefDTO `json:"item"`
	Booker UserRefDTO `json:"booker"`
}

// BookingShortDTO is the last/next booking shown on an item.
type BookingShortDTO struct {
	ID       int64     `json:"id"`
	BookerID int64     `json:"bookerId"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
}

// CommentDTO is the API representation of an item comment.
type CommentDTO struct {
	ID         int64     `json:"id"`
	Text       string    `json:"text"`
	AuthorName string    `json:"authorName"`
	Created    time.Time `json:"created"`
}

// ItemDTO is an item with its comments and, for the owner, the last and next booking.
type ItemDTO struct {
	ID          int64            `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Available   bool             `json:"available"`
	OwnerID     int64            `json:"ownerId"`
	LastBooking *BookingShortDTO `json:"lastBooking"`
	NextBooking *BookingShortDTO `json:"nextBooking"`
	Comments    []CommentDTO     `json:"comments"`
}

// BookingStatsDTO holds booking statistics for the admin dashboard.
type BookingStatsDTO struct {
	TotalBookings int64            `json:"totalBookings"`
	ByStatus      map[string]int64 `json:"byStatus"`
}

// --- Helpers ---

func toBookingDTO(bk *bookingDomain.Booking, it *itemDomain.Item) BookingDTO {
	dto := BookingDTO{
		ID:     bk.ID(),
		Start:  bk.Start(),
		End:    bk.End(),
		Status: string(bk.Status()),
		Item:   ItemRefDTO{ID: bk.ItemID()},
		Booker: UserRefDTO{ID: bk.BookerID()},
	}
	if it != nil {
		dto.Item.Name = it.Name()
	}
	return dto
}

func toBookingShortDTO(bk *bookingDomain.Booking) *BookingShortDTO {
	if bk == nil {
		return nil
	}
	return &BookingShortDTO{
		ID:       bk.ID(),
		BookerID: bk.BookerID(),
		Start:    bk.Start(),
		End:      bk.End(),
	}
}

func toCommentDTO(c *commentDomain.Comment, author *userDomain.User) CommentDTO {
	dto := CommentDTO{
		ID:      c.ID(),
		Text:    c.Text(),
		Created: c.CreatedAt(),
	}
	if author != nil {
		dto.AuthorName = author.Name()
	}
	return dto
}

func toItemDTO(it *itemDomain.Item) ItemDTO {
	return ItemDTO{
		ID:          it.ID(),
		Name:        it.Name(),
		Description: it.Description(),
		Available:   it.Available(),
		OwnerID:     it.OwnerID(),
		Comments:    []CommentDTO{},
	}
}
