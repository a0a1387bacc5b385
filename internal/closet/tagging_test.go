package closet

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weathercloset/weathercloset/internal/classifier"
	"github.com/weathercloset/weathercloset/internal/errors"
	"github.com/weathercloset/weathercloset/internal/observability/metrics"
)

func TestTagger_ThresholdIsExclusive(t *testing.T) {
	t.Parallel()

	store := createTestStore(t)
	user := createTestUser(t, store, "a@b.com")
	item := createTestItem(t, store, user.ID, "Waterproof jacket")

	c := newStubClassifier().set(classifier.ItemTemplate, map[string]int{"Rain": 71, "Cold": 70, "Windy": 100, "Sunny": 2})
	outcome, err := NewTagger(c, store.Tags(), nil).Tag(context.Background(), item)
	require.NoError(t, err)
	assert.Equal(t, TaggingApplied, outcome)

	stored, err := store.Items().Get(context.Background(), item.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Rain", "Windy"}, stored.TagNames())
}

func TestTagger_DescriptionVetoesOwnLabels(t *testing.T) {
	t.Parallel()

	store := createTestStore(t)
	user := createTestUser(t, store, "a@b.com")
	item := createTestItem(t, store, user.ID, "canvas sneakers")

	c := newStubClassifier().set(classifier.ItemTemplate, map[string]int{"Snow": 90, "Sunny": 88})
	_, err := NewTagger(c, store.Tags(), nil).Tag(context.Background(), item)
	require.NoError(t, err)

	stored, err := store.Items().Get(context.Background(), item.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Sunny"}, stored.TagNames())

	_, err = store.Tags().GetByName(context.Background(), "Snow")
	assert.True(t, errors.IsNotFound(err), "vetoed labels do not create tags")
}

func TestTagger_LinksInCandidateOrder(t *testing.T) {
	t.Parallel()

	store := createTestStore(t)
	user := createTestUser(t, store, "a@b.com")
	item := createTestItem(t, store, user.ID, "Plain outfit")

	c := newStubClassifier().set(classifier.ItemTemplate, map[string]int{"Cool": 90, "Rain": 90, "Hot": 90})
	_, err := NewTagger(c, store.Tags(), nil).Tag(context.Background(), item)
	require.NoError(t, err)

	ctx := context.Background()
	rain, err := store.Tags().GetByName(ctx, "Rain")
	require.NoError(t, err)
	hot, err := store.Tags().GetByName(ctx, "Hot")
	require.NoError(t, err)
	cool, err := store.Tags().GetByName(ctx, "Cool")
	require.NoError(t, err)

	assert.Less(t, rain.ID, hot.ID)
	assert.Less(t, hot.ID, cool.ID)
}

func TestTagger_SkipsWithoutClassifier(t *testing.T) {
	t.Parallel()

	store := createTestStore(t)
	user := createTestUser(t, store, "a@b.com")
	item := createTestItem(t, store, user.ID, "Raincoat")

	outcome, err := NewTagger(nil, store.Tags(), nil).Tag(context.Background(), item)
	require.NoError(t, err)
	assert.Equal(t, TaggingSkipped, outcome)
}

func TestTagger_ClassifierFailureLeavesItemUntagged(t *testing.T) {
	t.Parallel()

	store := createTestStore(t)
	user := createTestUser(t, store, "a@b.com")
	item := createTestItem(t, store, user.ID, "Raincoat")

	c := newStubClassifier()
	c.err = errors.New(errors.NewStd("503")).Category(errors.CategoryServiceUnavailable).Build()

	outcome, err := NewTagger(c, store.Tags(), nil).Tag(context.Background(), item)
	require.NoError(t, err)
	assert.Equal(t, TaggingFailed, outcome)

	stored, err := store.Items().Get(context.Background(), item.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.Links)
}

func TestTagger_ReusesExistingTags(t *testing.T) {
	t.Parallel()

	store := createTestStore(t)
	user := createTestUser(t, store, "a@b.com")
	first := createTestItem(t, store, user.ID, "Raincoat")
	second := createTestItem(t, store, user.ID, "Rain jacket")

	c := newStubClassifier().set(classifier.ItemTemplate, map[string]int{"Rain": 92})
	tagger := NewTagger(c, store.Tags(), nil)
	_, err := tagger.Tag(context.Background(), first)
	require.NoError(t, err)
	_, err = tagger.Tag(context.Background(), second)
	require.NoError(t, err)

	tags, err := store.Tags().List(context.Background())
	require.NoError(t, err)
	assert.Len(t, tags, 1)
}

func TestTagger_CountsLinkedLabels(t *testing.T) {
	t.Parallel()

	store := createTestStore(t)
	user := createTestUser(t, store, "a@b.com")
	item := createTestItem(t, store, user.ID, "Waterproof jacket")

	registry := prometheus.NewRegistry()
	m, err := metrics.NewClosetMetrics(registry)
	require.NoError(t, err)

	c := newStubClassifier().set(classifier.ItemTemplate, map[string]int{"Rain": 95, "Windy": 88, "Sunny": 40})
	_, err = NewTagger(c, store.Tags(), m).Tag(context.Background(), item)
	require.NoError(t, err)

	count, err := testutil.GatherAndCount(registry, "closet_labels_selected_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
