package datastore

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/weathercloset/weathercloset/internal/logger"
)

// TagRepository persists weather tags and item/tag links.
type TagRepository interface {
	GetByName(ctx context.Context, name string) (*WeatherTag, error)
	// GetOrCreate returns the named tag, creating it if needed. Concurrent
	// callers converge on a single row.
	GetOrCreate(ctx context.Context, name string) (*WeatherTag, error)
	// Link associates an item with a tag. A duplicate pair is a Conflict and
	// a confidence outside [0, 100] is a Validation error.
	Link(ctx context.Context, itemID, tagID uint, confidence int) error
	List(ctx context.Context) ([]WeatherTag, error)
}

type tagRepository struct {
	db *gorm.DB
}

func (r *tagRepository) GetByName(ctx context.Context, name string) (*WeatherTag, error) {
	var tag WeatherTag
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&tag).Error; err != nil {
		if isRecordNotFound(err) {
			return nil, notFoundError("tag not found", "weather_tag", name)
		}
		return nil, dbError(err, "get_tag")
	}
	return &tag, nil
}

func (r *tagRepository) GetOrCreate(ctx context.Context, name string) (*WeatherTag, error) {
	if name == "" {
		return nil, validationError("tag name is required", "name", name)
	}

	tag, err := r.find(ctx, name)
	if err != nil || tag != nil {
		return tag, err
	}

	created := &WeatherTag{Name: name}
	createErr := r.db.WithContext(ctx).Create(created).Error
	if createErr == nil {
		return created, nil
	}

	// Another writer may have inserted the same name in between.
	tag, err = r.find(ctx, name)
	if err != nil {
		return nil, err
	}
	if tag != nil {
		getLogger().Debug("tag created concurrently, using existing row", logger.String("tag", name))
		return tag, nil
	}
	if isUniqueViolation(createErr) {
		return nil, conflictError(createErr, "create_tag", "duplicate_tag")
	}
	return nil, dbError(createErr, "create_tag", "tag", name)
}

// find returns the tag or nil when absent.
func (r *tagRepository) find(ctx context.Context, name string) (*WeatherTag, error) {
	var tags []WeatherTag
	if err := r.db.WithContext(ctx).Where("name = ?", name).Limit(1).Find(&tags).Error; err != nil {
		return nil, dbError(err, "get_tag", "tag", name)
	}
	if len(tags) == 0 {
		return nil, nil
	}
	return &tags[0], nil
}

func (r *tagRepository) Link(ctx context.Context, itemID, tagID uint, confidence int) error {
	if confidence < MinConfidence || confidence > MaxConfidence {
		return validationError(fmt.Sprintf("confidence must be between %d and %d", MinConfidence, MaxConfidence), "confidence", confidence)
	}

	link := &ItemTagLink{ItemID: itemID, TagID: tagID, Confidence: confidence}
	if err := r.db.WithContext(ctx).Omit("Tag").Create(link).Error; err != nil {
		if isUniqueViolation(err) {
			return conflictError(fmt.Errorf("item %d already linked to tag %d: %w", itemID, tagID, err), "link_tag", "duplicate_link")
		}
		if isForeignKeyViolation(err) {
			return validationError("item or tag does not exist", "item_id", itemID)
		}
		return dbError(err, "link_tag")
	}
	return nil
}

func (r *tagRepository) List(ctx context.Context) ([]WeatherTag, error) {
	var tags []WeatherTag
	if err := r.db.WithContext(ctx).Order("id").Find(&tags).Error; err != nil {
		return nil, dbError(err, "list_tags")
	}
	return tags, nil
}
