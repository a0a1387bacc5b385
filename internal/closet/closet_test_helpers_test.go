package closet

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/weathercloset/weathercloset/internal/conf"
	"github.com/weathercloset/weathercloset/internal/datastore"
	"github.com/weathercloset/weathercloset/internal/imagestore"
	"github.com/weathercloset/weathercloset/internal/weather"
)

// stubClassifier returns canned scores per hypothesis template.
type stubClassifier struct {
	mu     sync.Mutex
	scores map[string]map[string]int
	err    error
	calls  []string
}

func newStubClassifier() *stubClassifier {
	return &stubClassifier{scores: map[string]map[string]int{}}
}

func (s *stubClassifier) set(template string, scores map[string]int) *stubClassifier {
	s.scores[template] = scores
	return s
}

func (s *stubClassifier) Classify(_ context.Context, text string, _ []string, template string) (map[string]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, text)
	if s.err != nil {
		return nil, s.err
	}
	out := make(map[string]int, len(s.scores[template]))
	for k, v := range s.scores[template] {
		out[k] = v
	}
	return out, nil
}

// stubWeather returns fixed conditions or an error.
type stubWeather struct {
	data *weather.WeatherData
	err  error
}

func (s *stubWeather) Current(_ context.Context, _ string) (*weather.WeatherData, error) {
	if s.err != nil {
		return nil, s.err
	}
	d := *s.data
	return &d, nil
}

func rainyLondon() *weather.WeatherData {
	return &weather.WeatherData{
		Description: "light rain",
		Temperature: 8.5,
		FeelsLike:   6.1,
		WindSpeed:   5.2,
		Humidity:    87,
		Location:    "London",
	}
}

func createTestStore(t *testing.T) *datastore.Store {
	t.Helper()
	store, err := datastore.Open(context.Background(), conf.DatabaseSettings{
		Type:   datastore.DriverSQLite,
		SQLite: conf.SQLiteSettings{Path: filepath.Join(t.TempDir(), "closet.db")},
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func createTestUser(t *testing.T, store *datastore.Store, email string) *datastore.User {
	t.Helper()
	user, err := store.Users().Create(context.Background(), email, "$2a$10$hash")
	require.NoError(t, err)
	return user
}

func createTestItem(t *testing.T, store *datastore.Store, ownerID uint, description string) *datastore.Item {
	t.Helper()
	item := &datastore.Item{Description: description, OwnerID: ownerID}
	require.NoError(t, store.Items().Create(context.Background(), item))
	return item
}

func linkTag(t *testing.T, store *datastore.Store, itemID uint, label string, confidence int) {
	t.Helper()
	tag, err := store.Tags().GetOrCreate(context.Background(), label)
	require.NoError(t, err)
	require.NoError(t, store.Tags().Link(context.Background(), itemID, tag.ID, confidence))
}

type testEnv struct {
	store      *datastore.Store
	images     *imagestore.LocalStore
	classifier *stubClassifier
	weather    *stubWeather
	service    *Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := createTestStore(t)
	images, err := imagestore.NewLocalStore(filepath.Join(t.TempDir(), "images"))
	require.NoError(t, err)

	env := &testEnv{
		store:      store,
		images:     images,
		classifier: newStubClassifier(),
		weather:    &stubWeather{data: rainyLondon()},
	}
	tagger := NewTagger(env.classifier, store.Tags(), nil)
	recommender := NewRecommender(env.weather, env.classifier, store.Items(), nil)
	env.service = NewService(store.Items(), images, tagger, recommender, nil)
	return env
}
