package closet

import (
	"context"

	"github.com/weathercloset/weathercloset/internal/classifier"
	"github.com/weathercloset/weathercloset/internal/datastore"
	"github.com/weathercloset/weathercloset/internal/logger"
	"github.com/weathercloset/weathercloset/internal/observability/metrics"
)

// TagThreshold is the score a label must exceed to be linked to an item.
const TagThreshold = 70

// Tagging outcomes reported per upload.
const (
	TaggingApplied = "tagged"
	TaggingSkipped = "skipped"
	TaggingFailed  = "failed"
)

// Tagger links new items to the weather labels their description suits.
type Tagger struct {
	classifier classifier.Classifier
	tags       datastore.TagRepository
	metrics    *metrics.ClosetMetrics
}

// NewTagger creates a Tagger. A nil classifier disables tagging.
func NewTagger(c classifier.Classifier, tags datastore.TagRepository, m *metrics.ClosetMetrics) *Tagger {
	return &Tagger{classifier: c, tags: tags, metrics: m}
}

// Tag classifies the item's description and links every label scoring above
// TagThreshold that the description does not itself veto. Labels are linked
// in candidate order. A missing or failing classifier leaves the item
// untagged and is not an error; storage failures are.
func (t *Tagger) Tag(ctx context.Context, item *datastore.Item) (string, error) {
	if t.classifier == nil {
		return TaggingSkipped, nil
	}

	scores, err := t.classifier.Classify(ctx, item.Description, CandidateLabels, classifier.ItemTemplate)
	if err != nil {
		getLogger().Warn("classification failed, item left untagged",
			logger.Uint("item_id", item.ID),
			logger.Error(err))
		return TaggingFailed, nil
	}

	for _, label := range orderedLabels(scores) {
		score := scores[label]
		if score <= TagThreshold || IsIncompatible(item.Description, label) {
			continue
		}

		tag, err := t.tags.GetOrCreate(ctx, label)
		if err != nil {
			return TaggingFailed, err
		}
		if err := t.tags.Link(ctx, item.ID, tag.ID, score); err != nil {
			return TaggingFailed, err
		}
		t.metrics.RecordLabelSelected(metrics.KindItem, label)
	}

	return TaggingApplied, nil
}
