// Package closet implements the clothing catalog: uploading and tagging
// items, listing and deleting them, and recommending items for the current
// weather of a city.
package closet

import (
	"context"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/weathercloset/weathercloset/internal/datastore"
	"github.com/weathercloset/weathercloset/internal/errors"
	"github.com/weathercloset/weathercloset/internal/imagestore"
	"github.com/weathercloset/weathercloset/internal/logger"
	"github.com/weathercloset/weathercloset/internal/observability/metrics"
)

const defaultImageExt = "jpg"

// allowedImageTypes are the accepted upload content types.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

func getLogger() logger.Logger {
	return logger.Global().Module("closet")
}

// ItemView is the client representation of an item.
type ItemView struct {
	ID            uint     `json:"id"`
	OwnerID       uint     `json:"owner_id"`
	Description   string   `json:"description"`
	ImageFilename *string  `json:"image_filename"`
	Tags          []string `json:"tags"`
}

func toView(item *datastore.Item) ItemView {
	return ItemView{
		ID:            item.ID,
		OwnerID:       item.OwnerID,
		Description:   item.Description,
		ImageFilename: item.ImageFilename,
		Tags:          item.TagNames(),
	}
}

func toViews(items []datastore.Item) []ItemView {
	views := make([]ItemView, 0, len(items))
	for i := range items {
		views = append(views, toView(&items[i]))
	}
	return views
}

// UploadInput is a new item with its image.
type UploadInput struct {
	Filename    string
	ContentType string
	Body        io.Reader
	Description string
}

// Service coordinates item storage, images, tagging and recommendations.
type Service struct {
	items       datastore.ItemRepository
	images      imagestore.Store
	tagger      *Tagger
	recommender *Recommender
	metrics     *metrics.ClosetMetrics
}

// NewService wires the closet operations.
func NewService(items datastore.ItemRepository, images imagestore.Store, tagger *Tagger, recommender *Recommender, m *metrics.ClosetMetrics) *Service {
	return &Service{
		items:       items,
		images:      images,
		tagger:      tagger,
		recommender: recommender,
		metrics:     m,
	}
}

// Upload stores the image under a random name, creates the item and tags it.
func (s *Service) Upload(ctx context.Context, userID uint, in UploadInput) (*ItemView, error) {
	if !allowedImageTypes[in.ContentType] {
		return nil, errors.New(errors.NewStd("Invalid image type.")).
			Component("closet").
			Category(errors.CategoryValidation).
			Context("content_type", in.ContentType).
			Build()
	}

	filename := uuid.NewString() + "." + imageExtension(in.Filename)
	if err := s.images.Save(ctx, filename, in.ContentType, in.Body); err != nil {
		return nil, err
	}

	item := &datastore.Item{
		Description:   in.Description,
		ImageFilename: &filename,
		OwnerID:       userID,
	}
	if err := s.items.Create(ctx, item); err != nil {
		s.removeImage(ctx, filename)
		return nil, err
	}

	outcome, err := s.tagger.Tag(ctx, item)
	s.metrics.RecordItemUploaded(outcome)
	if err != nil {
		// Links cascade with the item.
		if delErr := s.items.Delete(ctx, item.ID); delErr != nil {
			getLogger().Error("failed to roll back untagged item",
				logger.Uint("item_id", item.ID),
				logger.Error(delErr))
		}
		s.removeImage(ctx, filename)
		return nil, err
	}

	stored, err := s.items.Get(ctx, item.ID)
	if err != nil {
		return nil, err
	}

	getLogger().Info("item uploaded",
		logger.Uint("item_id", stored.ID),
		logger.Uint("user_id", userID),
		logger.String("tagging", outcome),
		logger.Int("tags", len(stored.Links)))

	view := toView(stored)
	return &view, nil
}

// List returns the user's items ordered by id.
func (s *Service) List(ctx context.Context, userID uint) ([]ItemView, error) {
	items, err := s.items.ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toViews(items), nil
}

// Delete removes an item the user owns along with its image.
func (s *Service) Delete(ctx context.Context, userID, itemID uint) error {
	item, err := s.items.GetOwned(ctx, userID, itemID)
	if err != nil {
		return err
	}
	if err := s.items.Delete(ctx, item.ID); err != nil {
		return err
	}
	s.metrics.RecordItemDeleted()

	if item.ImageFilename != nil {
		s.removeImage(ctx, *item.ImageFilename)
	}
	return nil
}

// Recommend delegates to the Recommender.
func (s *Service) Recommend(ctx context.Context, userID uint, city string) (*Recommendation, error) {
	return s.recommender.Recommend(ctx, userID, city)
}

func (s *Service) removeImage(ctx context.Context, filename string) {
	if err := s.images.Delete(ctx, filename); err != nil {
		getLogger().Warn("failed to remove image",
			logger.String("filename", filename),
			logger.Error(err))
	}
}

// imageExtension returns the text after the last dot of filename, or jpg
// when there is none or it is not alphanumeric.
func imageExtension(filename string) string {
	i := strings.LastIndexByte(filename, '.')
	if i < 0 || i == len(filename)-1 {
		return defaultImageExt
	}
	ext := filename[i+1:]
	for _, r := range ext {
		if !('a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || '0' <= r && r <= '9') {
			return defaultImageExt
		}
	}
	return ext
}
