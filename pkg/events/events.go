// Package events holds the topic names, CloudEvent types and payloads
// exchanged between shareit services.
package events

import "time"

const (
	TopicBookingEvents = "booking.events"
	TopicUserEvents    = "user.events"
	TopicItemEvents    = "item.events"
)

// Produced by service-booking.
const (
	BookingCreated  = "booking.created"
	BookingApproved = "booking.approved"
	BookingRejected = "booking.rejected"
	BookingDeleted  = "booking.deleted"
	CommentCreated  = "comment.created"
)

// Consumed by service-booking.
const (
	UserRegistered = "user.registered"
	UserUpdated    = "user.updated"
	UserDeleted    = "user.deleted"
	ItemListed     = "item.listed"
	ItemUpdated    = "item.updated"
	ItemDelisted   = "item.delisted"
)

// BookingCreatedEvent is published when a booking request is stored.
type BookingCreatedEvent struct {
	BookingID  int64     `json:"booking_id"`
	ItemID     int64     `json:"item_id"`
	BookerID   int64     `json:"booker_id"`
	OwnerID    int64     `json:"owner_id"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}

// BookingStatusChangedEvent is published on approval or rejection.
type BookingStatusChangedEvent struct {
	BookingID  int64     `json:"booking_id"`
	ItemID     int64     `json:"item_id"`
	BookerID   int64     `json:"booker_id"`
	OwnerID    int64     `json:"owner_id"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}

// BookingDeletedEvent is published when the booker removes a booking.
type BookingDeletedEvent struct {
	BookingID  int64     `json:"booking_id"`
	ItemID     int64     `json:"item_id"`
	BookerID   int64     `json:"booker_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// CommentCreatedEvent is published when a comment is accepted.
type CommentCreatedEvent struct {
	CommentID  int64     `json:"comment_id"`
	ItemID     int64     `json:"item_id"`
	AuthorID   int64     `json:"author_id"`
	BookingID  int64     `json:"booking_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// UserEvent carries user.registered and user.updated; user.deleted only needs UserID.
type UserEvent struct {
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

// ItemListedEvent announces a new item.
type ItemListedEvent struct {
	ItemID      int64  `json:"item_id"`
	OwnerID     int64  `json:"owner_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   bool   `json:"available"`
}

// ItemUpdatedEvent is a partial update: nil fields are left unchanged.
type ItemUpdatedEvent struct {
	ItemID      int64   `json:"item_id"`
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Available   *bool   `json:"available,omitempty"`
}

// ItemDelistedEvent removes an item from the catalog.
type ItemDelistedEvent struct {
	ItemID int64 `json:"item_id"`
}
