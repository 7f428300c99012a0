package user

import (
	"context"
	"time"

	"github.com/shareit-hub/service-booking/pkg/domain"
)

// User is the local read model of a registered user.
type User struct {
	id        int64
	name      string
	email     string
	updatedAt time.Time
}

// NewUser creates a user from a user.registered or user.updated event.
func NewUser(id int64, name, email string) (*User, error) {
	if id <= 0 {
		return nil, domain.NewBadRequestError("user id must be positive")
	}
	return &User{id: id, name: name, email: email, updatedAt: time.Now().UTC()}, nil
}

// Reconstruct rebuilds a User from persistence.
func Reconstruct(id int64, name, email string, updatedAt time.Time) *User {
	return &User{id: id, name: name, email: email, updatedAt: updatedAt}
}

func (u *User) ID() int64            { return u.id }
func (u *User) Name() string         { return u.name }
func (u *User) Email() string        { return u.email }
func (u *User) UpdatedAt() time.Time { return u.updatedAt }

// UserRepository defines persistence operations for the user read model.
type UserRepository interface {
	Exists(ctx context.Context, id int64) (bool, error)
	FindByID(ctx context.Context, id int64) (*User, error)
	FindByIDs(ctx context.Context, ids []int64) (map[int64]*User, error)
	Upsert(ctx context.Context, user *User) error
	Delete(ctx context.Context, id int64) error
}
