package datastore

import (
	"context"
	"strconv"

	"gorm.io/gorm"
)

// ItemNotFoundMessage is returned for missing items and items owned by
// someone else alike.
const ItemNotFoundMessage = "Item not found"

// ItemRepository persists clothing items. Returned items have their tag
// links and tags loaded.
type ItemRepository interface {
	Create(ctx context.Context, item *Item) error
	Get(ctx context.Context, id uint) (*Item, error)
	// GetOwned returns the item only if ownerID owns it.
	GetOwned(ctx context.Context, ownerID, itemID uint) (*Item, error)
	ListByOwner(ctx context.Context, ownerID uint) ([]Item, error)
	// ListByOwnerAndTags returns the owner's items linked to any of the
	// named tags, each item once, ordered by id.
	ListByOwnerAndTags(ctx context.Context, ownerID uint, tagNames []string) ([]Item, error)
	// Delete removes the item and its tag links.
	Delete(ctx context.Context, id uint) error
}

type itemRepository struct {
	db *gorm.DB
}

// withTags preloads links ordered by tag id, and their tags.
func withTags(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Links", func(tx *gorm.DB) *gorm.DB { return tx.Order("tag_id") }).
		Preload("Links.Tag")
}

func (r *itemRepository) Create(ctx context.Context, item *Item) error {
	if item.Description == "" {
		return validationError("item description is required", "description", item.Description)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var owners int64
		if err := tx.Model(&User{}).Where("id = ?", item.OwnerID).Count(&owners).Error; err != nil {
			return dbError(err, "check_item_owner")
		}
		if owners == 0 {
			return validationError("item owner does not exist", "owner_id", item.OwnerID)
		}

		if err := tx.Omit("Links").Create(item).Error; err != nil {
			if isForeignKeyViolation(err) {
				return validationError("item owner does not exist", "owner_id", item.OwnerID)
			}
			return dbError(err, "create_item")
		}
		return nil
	})
}

func (r *itemRepository) Get(ctx context.Context, id uint) (*Item, error) {
	var item Item
	if err := withTags(r.db.WithContext(ctx)).First(&item, id).Error; err != nil {
		if isRecordNotFound(err) {
			return nil, notFoundError(ItemNotFoundMessage, "item", strconv.FormatUint(uint64(id), 10))
		}
		return nil, dbError(err, "get_item")
	}
	return &item, nil
}

func (r *itemRepository) GetOwned(ctx context.Context, ownerID, itemID uint) (*Item, error) {
	var item Item
	err := withTags(r.db.WithContext(ctx)).
		Where("id = ? AND owner_id = ?", itemID, ownerID).
		First(&item).Error
	if err != nil {
		if isRecordNotFound(err) {
			return nil, notFoundError(ItemNotFoundMessage, "item", strconv.FormatUint(uint64(itemID), 10))
		}
		return nil, dbError(err, "get_owned_item")
	}
	return &item, nil
}

func (r *itemRepository) ListByOwner(ctx context.Context, ownerID uint) ([]Item, error) {
	var items []Item
	if err := withTags(r.db.WithContext(ctx)).Where("owner_id = ?", ownerID).Order("id").Find(&items).Error; err != nil {
		return nil, dbError(err, "list_items")
	}
	return items, nil
}

func (r *itemRepository) ListByOwnerAndTags(ctx context.Context, ownerID uint, tagNames []string) ([]Item, error) {
	if len(tagNames) == 0 {
		return []Item{}, nil
	}

	db := r.db.WithContext(ctx)
	matching := db.Model(&ItemTagLink{}).
		Select("clothing_weather.item_id").
		Joins("JOIN weather_tags ON weather_tags.id = clothing_weather.tag_id").
		Where("weather_tags.name IN ?", tagNames)

	var items []Item
	err := withTags(db).
		Where("owner_id = ? AND id IN (?)", ownerID, matching).
		Order("id").
		Find(&items).Error
	if err != nil {
		return nil, dbError(err, "list_items_by_tags")
	}
	return items, nil
}

func (r *itemRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("item_id = ?", id).Delete(&ItemTagLink{}).Error; err != nil {
			return dbError(err, "delete_item_links")
		}
		result := tx.Delete(&Item{}, id)
		if result.Error != nil {
			return dbError(result.Error, "delete_item")
		}
		if result.RowsAffected == 0 {
			return notFoundError(ItemNotFoundMessage, "item", strconv.FormatUint(uint64(id), 10))
		}
		return nil
	})
}
