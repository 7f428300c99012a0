package application

import (
	"context"

	"go.uber.org/zap"

	itemDomain "github.com/shareit-hub/service-booking/internal/domain/item"
	userDomain "github.com/shareit-hub/service-booking/internal/domain/user"
)

// CatalogService keeps the local user and item read models in step with
// the catalog events of the user and item services.
type CatalogService struct {
	items  itemDomain.ItemRepository
	users  userDomain.UserRepository
	logger *zap.Logger
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(items itemDomain.ItemRepository, users userDomain.UserRepository, logger *zap.Logger) *CatalogService {
	return &CatalogService{items: items, users: users, logger: logger}
}

// SaveUser creates or replaces a user.
func (s *CatalogService) SaveUser(ctx context.Context, id int64, name, email string) error {
	u, err := userDomain.NewUser(id, name, email)
	if err != nil {
		return err
	}
	if err := s.users.Upsert(ctx, u); err != nil {
		return err
	}
	s.logger.Info("user projected", zap.Int64("user_id", id))
	return nil
}

// RemoveUser deletes a user. Bookings made by the user are kept.
func (s *CatalogService) RemoveUser(ctx context.Context, id int64) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("user removed", zap.Int64("user_id", id))
	return nil
}

// SaveItem creates or replaces an item.
func (s *CatalogService) SaveItem(ctx context.Context, id, ownerID int64, name, description string, available bool) error {
	it, err := itemDomain.NewItem(id, ownerID, name, description, available)
	if err != nil {
		return err
	}
	if err := s.items.Upsert(ctx, it); err != nil {
		return err
	}
	s.logger.Info("item projected", zap.Int64("item_id", id), zap.Int64("owner_id", ownerID))
	return nil
}

// PatchItem applies the present fields of patch to an existing item.
func (s *CatalogService) PatchItem(ctx context.Context, id int64, patch itemDomain.Patch) error {
	it, err := s.items.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if patch.IsEmpty() {
		return nil
	}
	if err := it.Apply(patch); err != nil {
		return err
	}
	// A version conflict is returned so the consumer retries with a fresh read.
	if err := s.items.Update(ctx, it); err != nil {
		return err
	}
	s.logger.Info("item patched", zap.Int64("item_id", id))
	return nil
}

// RemoveItem deletes an item. Its bookings are kept.
func (s *CatalogService) RemoveItem(ctx context.Context, id int64) error {
	if err := s.items.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("item removed", zap.Int64("item_id", id))
	return nil
}
