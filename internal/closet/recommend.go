package closet

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/weathercloset/weathercloset/internal/classifier"
	"github.com/weathercloset/weathercloset/internal/datastore"
	"github.com/weathercloset/weathercloset/internal/errors"
	"github.com/weathercloset/weathercloset/internal/logger"
	"github.com/weathercloset/weathercloset/internal/observability/metrics"
	"github.com/weathercloset/weathercloset/internal/weather"
)

const (
	// RecommendThreshold is the minimum weather label score kept outright.
	RecommendThreshold = 85
	// FallbackLabelCount is how many top labels are kept when none pass the threshold.
	FallbackLabelCount = 2
)

// ErrClassifierUnavailable is returned when no classifier is configured.
var ErrClassifierUnavailable = errors.NewStd("AI Service unavailable.")

// CityNotFoundError reports that the weather provider does not know a city.
type CityNotFoundError struct {
	City string
}

func (e *CityNotFoundError) Error() string {
	return fmt.Sprintf("City '%s' not found.", e.City)
}

// WeatherSource returns current conditions for a city.
type WeatherSource interface {
	Current(ctx context.Context, city string) (*weather.WeatherData, error)
}

// Recommendation is the result of a recommendation request.
type Recommendation struct {
	Weather *weather.WeatherData `json:"weather"`
	Tags    map[string]int       `json:"tags"`
	Items   []ItemView           `json:"items"`
}

// Recommender picks closet items suited to a city's current weather.
type Recommender struct {
	weather    WeatherSource
	classifier classifier.Classifier
	items      datastore.ItemRepository
	metrics    *metrics.ClosetMetrics
}

// NewRecommender creates a Recommender. A nil classifier makes every
// recommendation fail with ErrClassifierUnavailable.
func NewRecommender(w WeatherSource, c classifier.Classifier, items datastore.ItemRepository, m *metrics.ClosetMetrics) *Recommender {
	return &Recommender{weather: w, classifier: c, items: items, metrics: m}
}

// Recommend returns the user's items compatible with the weather in city.
func (r *Recommender) Recommend(ctx context.Context, userID uint, city string) (*Recommendation, error) {
	start := time.Now()
	rec, err := r.recommend(ctx, userID, city)
	if err != nil {
		r.metrics.RecordRecommendation(metrics.StatusError, 0)
		return nil, err
	}
	r.metrics.RecordRecommendation(metrics.StatusSuccess, len(rec.Items))

	getLogger().Info("recommendation generated",
		logger.Uint("user_id", userID),
		logger.String("city", city),
		logger.Int("tags", len(rec.Tags)),
		logger.Int("items", len(rec.Items)),
		logger.Duration("duration", time.Since(start)))
	return rec, nil
}

func (r *Recommender) recommend(ctx context.Context, userID uint, city string) (*Recommendation, error) {
	current, err := r.weather.Current(ctx, city)
	if err != nil {
		var statusErr *weather.StatusError
		if errors.As(err, &statusErr) && statusErr.Code == 404 {
			return nil, errors.New(&CityNotFoundError{City: city}).
				Component("closet").
				Category(errors.CategoryNotFound).
				Context("operation", "recommend").
				Build()
		}
		return nil, err
	}

	if r.classifier == nil {
		return nil, errors.New(ErrClassifierUnavailable).
			Component("closet").
			Category(errors.CategoryServiceUnavailable).
			Context("operation", "recommend").
			Build()
	}

	scores, err := r.classifier.Classify(ctx, DescribeWeather(current), CandidateLabels, classifier.WeatherTemplate)
	if err != nil {
		return nil, err
	}

	selected := SelectLabels(scores)
	labels := orderedLabels(selected)
	for _, l := range labels {
		r.metrics.RecordLabelSelected(metrics.KindWeather, l)
	}

	items, err := r.items.ListByOwnerAndTags(ctx, userID, labels)
	if err != nil {
		return nil, err
	}
	items = FilterIncompatible(items, labels)

	return &Recommendation{
		Weather: current,
		Tags:    selected,
		Items:   toViews(items),
	}, nil
}

// DescribeWeather renders conditions as the sentence fed to the classifier.
func DescribeWeather(w *weather.WeatherData) string {
	return fmt.Sprintf("The weather is %s. Temp is %s. %s and %s.",
		w.Description,
		weather.TemperatureLabel(w.Temperature),
		weather.HumidityLabel(float64(w.Humidity)),
		weather.WindLabel(w.WindSpeed))
}

// SelectLabels keeps every label scoring at least RecommendThreshold. When none
// do, it keeps the FallbackLabelCount highest scoring labels, ties going to the
// label that comes first in CandidateLabels.
func SelectLabels(scores map[string]int) map[string]int {
	selected := make(map[string]int)
	for label, score := range scores {
		if score >= RecommendThreshold {
			selected[label] = score
		}
	}
	if len(selected) > 0 {
		return selected
	}

	ranked := orderedLabels(scores)
	slices.SortStableFunc(ranked, func(a, b string) int {
		return cmp.Compare(scores[b], scores[a])
	})
	for _, label := range ranked[:min(FallbackLabelCount, len(ranked))] {
		selected[label] = scores[label]
	}
	return selected
}

// orderedLabels returns the keys of m in candidate order, followed by any
// unknown labels sorted by name.
func orderedLabels(m map[string]int) []string {
	labels := make([]string, 0, len(m))
	for _, label := range CandidateLabels {
		if _, ok := m[label]; ok {
			labels = append(labels, label)
		}
	}
	var extra []string
	for label := range m {
		if !slices.Contains(CandidateLabels, label) {
			extra = append(extra, label)
		}
	}
	slices.Sort(extra)
	return append(labels, extra...)
}
