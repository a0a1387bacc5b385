package closet

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weathercloset/weathercloset/internal/classifier"
	"github.com/weathercloset/weathercloset/internal/datastore"
	"github.com/weathercloset/weathercloset/internal/errors"
)

var uuidFilename = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}\.png$`)

func TestService_UploadStoresImageAndItem(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	user := createTestUser(t, env.store, "a@b.com")
	env.classifier.set(classifier.ItemTemplate, map[string]int{"Cold": 88, "Windy": 40})

	view, err := env.service.Upload(context.Background(), user.ID, UploadInput{
		Filename:    "scarf.png",
		ContentType: "image/png",
		Body:        strings.NewReader("png-bytes"),
		Description: "Wool scarf",
	})
	require.NoError(t, err)

	assert.Equal(t, user.ID, view.OwnerID)
	assert.Equal(t, "Wool scarf", view.Description)
	assert.Equal(t, []string{"Cold"}, view.Tags)
	require.NotNil(t, view.ImageFilename)
	assert.Regexp(t, uuidFilename, *view.ImageFilename)

	data, err := os.ReadFile(filepath.Join(env.images.Dir(), *view.ImageFilename))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
}

func TestService_UploadRejectsNonImages(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	user := createTestUser(t, env.store, "a@b.com")

	for _, contentType := range []string{"text/plain", "image/gif", ""} {
		_, err := env.service.Upload(context.Background(), user.ID, UploadInput{
			Filename:    "notes.txt",
			ContentType: contentType,
			Body:        strings.NewReader("hello"),
			Description: "Not a picture",
		})
		require.Error(t, err, contentType)
		assert.Equal(t, "Invalid image type.", err.Error())
		assert.True(t, errors.IsCategory(err, errors.CategoryValidation))
	}

	entries, err := os.ReadDir(env.images.Dir())
	require.NoError(t, err)
	assert.Empty(t, entries)

	items, err := env.service.List(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestService_UploadSurvivesClassifierFailure(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	user := createTestUser(t, env.store, "a@b.com")
	env.classifier.err = errors.New(errors.NewStd("timeout")).Category(errors.CategoryNetwork).Build()

	view, err := env.service.Upload(context.Background(), user.ID, UploadInput{
		Filename:    "coat.jpg",
		ContentType: "image/jpeg",
		Body:        strings.NewReader("jpeg"),
		Description: "Raincoat",
	})
	require.NoError(t, err)
	assert.Empty(t, view.Tags)
	assert.NotZero(t, view.ID)
}

func TestService_UploadForUnknownUserRemovesImage(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	_, err := env.service.Upload(context.Background(), 999, UploadInput{
		Filename:    "coat.jpg",
		ContentType: "image/jpeg",
		Body:        strings.NewReader("jpeg"),
		Description: "Raincoat",
	})
	require.Error(t, err)

	entries, err := os.ReadDir(env.images.Dir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

// failingLinkTags delegates to a real repository but fails every Link after
// the first okLinks calls.
type failingLinkTags struct {
	datastore.TagRepository
	okLinks int
	links   int
}

func (f *failingLinkTags) Link(ctx context.Context, itemID, tagID uint, confidence int) error {
	f.links++
	if f.links > f.okLinks {
		return errors.New(errors.NewStd("disk I/O error")).Category(errors.CategoryDatabase).Build()
	}
	return f.TagRepository.Link(ctx, itemID, tagID, confidence)
}

func TestService_UploadRollsBackOnTagStorageFailure(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	user := createTestUser(t, env.store, "a@b.com")
	env.classifier.set(classifier.ItemTemplate, map[string]int{"Rain": 95, "Cold": 90})

	tags := &failingLinkTags{TagRepository: env.store.Tags(), okLinks: 1}
	tagger := NewTagger(env.classifier, tags, nil)
	service := NewService(env.store.Items(), env.images, tagger, nil, nil)

	_, err := service.Upload(context.Background(), user.ID, UploadInput{
		Filename:    "coat.png",
		ContentType: "image/png",
		Body:        strings.NewReader("png"),
		Description: "Heavy Raincoat",
	})
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryDatabase))
	assert.Equal(t, 2, tags.links, "first link written before the failure")

	items, err := env.store.Items().ListByOwner(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Empty(t, items)

	entries, err := os.ReadDir(env.images.Dir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestService_ListIsScopedToOwner(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	alice := createTestUser(t, env.store, "alice@example.com")
	bob := createTestUser(t, env.store, "bob@example.com")

	first := createTestItem(t, env.store, alice.ID, "Raincoat")
	linkTag(t, env.store, first.ID, "Rain", 90)
	createTestItem(t, env.store, bob.ID, "Parka")
	second := createTestItem(t, env.store, alice.ID, "Sandals")

	items, err := env.service.List(context.Background(), alice.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, first.ID, items[0].ID)
	assert.Equal(t, []string{"Rain"}, items[0].Tags)
	assert.Equal(t, second.ID, items[1].ID)
	assert.Empty(t, items[1].Tags)
	assert.Nil(t, items[1].ImageFilename)
}

func TestService_Delete(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	alice := createTestUser(t, env.store, "alice@example.com")
	bob := createTestUser(t, env.store, "bob@example.com")

	view, err := env.service.Upload(ctx, alice.ID, UploadInput{
		Filename:    "coat.png",
		ContentType: "image/png",
		Body:        strings.NewReader("png"),
		Description: "Raincoat",
	})
	require.NoError(t, err)

	err = env.service.Delete(ctx, bob.ID, view.ID)
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
	assert.Equal(t, datastore.ItemNotFoundMessage, err.Error())

	require.NoError(t, env.service.Delete(ctx, alice.ID, view.ID))

	_, err = os.Stat(filepath.Join(env.images.Dir(), *view.ImageFilename))
	assert.True(t, os.IsNotExist(err), "image is removed with its item")

	err = env.service.Delete(ctx, alice.ID, view.ID)
	assert.True(t, errors.IsNotFound(err))
}

func TestImageExtension(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"coat.png":     "png",
		"photo.JPEG":   "JPEG",
		"archive.x.gz": "gz",
		"noext":        "jpg",
		"trailing.":    "jpg",
		"":             "jpg",
		"../x/y":       "jpg",
		"a.p/ng":       "jpg",
	}
	for in, want := range tests {
		assert.Equal(t, want, imageExtension(in), in)
	}
}
