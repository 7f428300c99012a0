package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	userDomain "github.com/shareit-hub/service-booking/internal/domain/user"
	"github.com/shareit-hub/service-booking/pkg/database"
	"github.com/shareit-hub/service-booking/pkg/domain"
)

// UserModel is the GORM model for the users read model.
type UserModel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement:false"`
	Name      string    `gorm:"type:varchar(255)"`
	Email     string    `gorm:"type:varchar(512)"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (UserModel) TableName() string { return "users" }

// GormUserRepository implements UserRepository using GORM.
type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	if err := database.Conn(ctx, r.db).Model(&UserModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check user: %w", err)
	}
	return count > 0, nil
}

func (r *GormUserRepository) FindByID(ctx context.Context, id int64) (*userDomain.User, error) {
	var model UserModel
	if err := database.Conn(ctx, r.db).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("User", strconv.FormatInt(id, 10))
		}
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}
	return userDomain.Reconstruct(model.ID, model.Name, model.Email, model.UpdatedAt.UTC()), nil
}

func (r *GormUserRepository) FindByIDs(ctx context.Context, ids []int64) (map[int64]*userDomain.User, error) {
	users := make(map[int64]*userDomain.User, len(ids))
	if len(ids) == 0 {
		return users, nil
	}
	var models []UserModel
	if err := database.Conn(ctx, r.db).Where("id IN ?", ids).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find users: %w", err)
	}
	for _, m := range models {
		users[m.ID] = userDomain.Reconstruct(m.ID, m.Name, m.Email, m.UpdatedAt.UTC())
	}
	return users, nil
}

func (r *GormUserRepository) Upsert(ctx context.Context, u *userDomain.User) error {
	model := &UserModel{ID: u.ID(), Name: u.Name(), Email: u.Email(), UpdatedAt: u.UpdatedAt().UTC()}
	err := database.Conn(ctx, r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "email", "updated_at"}),
		}).
		Create(model).Error
	if err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}
	return nil
}

func (r *GormUserRepository) Delete(ctx context.Context, id int64) error {
	if err := database.Conn(ctx, r.db).Where("id = ?", id).Delete(&UserModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}
