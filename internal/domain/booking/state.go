package booking

import (
	"strings"

	"github.com/shareit-hub/service-booking/pkg/domain"
)

// State is a listing filter over booking time and status.
type State string

const (
	StateAll      State = "ALL"
	StateCurrent  State = "CURRENT"
	StateFuture   State = "FUTURE"
	StatePast     State = "PAST"
	StateWaiting  State = "WAITING"
	StateRejected State = "REJECTED"
)

var knownStates = map[State]struct{}{
	StateAll:      {},
	StateCurrent:  {},
	StateFuture:   {},
	StatePast:     {},
	StateWaiting:  {},
	StateRejected: {},
}

// IsValid reports whether s is one of the known filters.
func (s State) IsValid() bool {
	_, ok := knownStates[s]
	return ok
}

// ParseState parses a state token case-insensitively. An empty token means ALL.
func ParseState(raw string) (State, error) {
	if strings.TrimSpace(raw) == "" {
		return StateAll, nil
	}
	s := State(strings.ToUpper(strings.TrimSpace(raw)))
	if !s.IsValid() {
		return "", domain.NewUnsupportedStatusError(raw)
	}
	return s, nil
}

// Role selects whose bookings a listing returns.
type Role int

const (
	// RoleBooker lists bookings made by the subject.
	RoleBooker Role = iota
	// RoleOwner lists bookings of items owned by the subject.
	RoleOwner
)

func (r Role) String() string {
	if r == RoleOwner {
		return "OWNER"
	}
	return "BOOKER"
}

// DefaultPageSize is used when a listing request does not specify a size.
const DefaultPageSize = 10

// Page is offset pagination expressed as the index of the first wanted row.
// The returned block is the (From / Size)-th block of Size rows.
type Page struct {
	From int
	Size int
}

// NewPage validates from >= 0 and size > 0.
func NewPage(from, size int) (Page, error) {
	if from < 0 {
		return Page{}, domain.NewBadRequestError("from must not be negative")
	}
	if size <= 0 {
		return Page{}, domain.NewBadRequestError("size must be positive")
	}
	return Page{From: from, Size: size}, nil
}

// Offset returns the first row of the block that contains From.
func (p Page) Offset() int {
	if p.Size <= 0 {
		return 0
	}
	return (p.From / p.Size) * p.Size
}

// Limit returns the block size, falling back to DefaultPageSize.
func (p Page) Limit() int {
	if p.Size <= 0 {
		return DefaultPageSize
	}
	return p.Size
}

// LastNext is the projection of an item's bookings around a moment.
// Either side may be nil.
type LastNext struct {
	Last *Booking
	Next *Booking
}
