package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	itemDomain "github.com/shareit-hub/service-booking/internal/domain/item"
	"github.com/shareit-hub/service-booking/pkg/database"
	"github.com/shareit-hub/service-booking/pkg/domain"
)

// ItemModel is the GORM model for the items read model.
type ItemModel struct {
	ID          int64     `gorm:"primaryKey;autoIncrement:false"`
	OwnerID     int64     `gorm:"not null;index"`
	Name        string    `gorm:"type:varchar(255);not null"`
	Description string    `gorm:"type:text"`
	Available   bool      `gorm:"not null"`
	Version     int64     `gorm:"not null;default:1"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

func (ItemModel) TableName() string { return "items" }

// GormItemRepository implements ItemRepository using GORM.
type GormItemRepository struct {
	db *gorm.DB
}

func NewGormItemRepository(db *gorm.DB) *GormItemRepository {
	return &GormItemRepository{db: db}
}

func (r *GormItemRepository) FindByID(ctx context.Context, id int64) (*itemDomain.Item, error) {
	var model ItemModel
	if err := database.Conn(ctx, r.db).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Item", strconv.FormatInt(id, 10))
		}
		return nil, fmt.Errorf("failed to find item by ID: %w", err)
	}
	return toItemDomain(&model), nil
}

func (r *GormItemRepository) FindByOwnerID(ctx context.Context, ownerID int64) ([]*itemDomain.Item, error) {
	var models []ItemModel
	if err := database.Conn(ctx, r.db).
		Where("owner_id = ?", ownerID).
		Order("id ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find owner items: %w", err)
	}
	return toItemDomains(models), nil
}

func (r *GormItemRepository) FindByIDs(ctx context.Context, ids []int64) ([]*itemDomain.Item, error) {
	if len(ids) == 0 {
		return []*itemDomain.Item{}, nil
	}
	var models []ItemModel
	if err := database.Conn(ctx, r.db).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find items: %w", err)
	}
	return toItemDomains(models), nil
}

// FindIDsByOwner returns the ids of items owned by ownerID.
func (r *GormItemRepository) FindIDsByOwner(ctx context.Context, ownerID int64) ([]int64, error) {
	var ids []int64
	if err := database.Conn(ctx, r.db).
		Model(&ItemModel{}).
		Where("owner_id = ?", ownerID).
		Order("id ASC").
		Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to find owner item ids: %w", err)
	}
	return ids, nil
}

// Upsert inserts the item or replaces every column of an existing row.
func (r *GormItemRepository) Upsert(ctx context.Context, it *itemDomain.Item) error {
	model := toItemModel(it)
	err := database.Conn(ctx, r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"owner_id", "name", "description", "available", "version", "updated_at"}),
		}).
		Create(model).Error
	if err != nil {
		return fmt.Errorf("failed to upsert item: %w", err)
	}
	return nil
}

func (r *GormItemRepository) Update(ctx context.Context, it *itemDomain.Item) error {
	previousVersion := it.Version() - 1

	result := database.Conn(ctx, r.db).
		Model(&ItemModel{}).
		Where("id = ? AND version = ?", it.ID(), previousVersion).
		Updates(map[string]interface{}{
			"name":        it.Name(),
			"description": it.Description(),
			"available":   it.Available(),
			"version":     it.Version(),
			"updated_at":  it.UpdatedAt().UTC(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError("item was modified by another transaction")
	}
	return nil
}

func (r *GormItemRepository) Delete(ctx context.Context, id int64) error {
	if err := database.Conn(ctx, r.db).Where("id = ?", id).Delete(&ItemModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	return nil
}

// --- Conversions ---

func toItemModel(it *itemDomain.Item) *ItemModel {
	return &ItemModel{
		ID:          it.ID(),
		OwnerID:     it.OwnerID(),
		Name:        it.Name(),
		Description: it.Description(),
		Available:   it.Available(),
		Version:     it.Version(),
		CreatedAt:   it.CreatedAt().UTC(),
		UpdatedAt:   it.UpdatedAt().UTC(),
	}
}

func toItemDomain(m *ItemModel) *itemDomain.Item {
	return itemDomain.Reconstruct(
		m.ID, m.OwnerID,
		m.Name, m.Description,
		m.Available,
		m.Version,
		m.CreatedAt.UTC(), m.UpdatedAt.UTC(),
	)
}

func toItemDomains(models []ItemModel) []*itemDomain.Item {
	items := make([]*itemDomain.Item, len(models))
	for i := range models {
		items[i] = toItemDomain(&models[i])
	}
	return items
}
