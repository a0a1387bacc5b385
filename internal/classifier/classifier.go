// Package classifier scores text against candidate labels with a hosted
// zero-shot NLI model.
package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"net/http"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/weathercloset/weathercloset/internal/conf"
	"github.com/weathercloset/weathercloset/internal/errors"
	"github.com/weathercloset/weathercloset/internal/httpclient"
	"github.com/weathercloset/weathercloset/internal/logger"
	"github.com/weathercloset/weathercloset/internal/observability/metrics"
)

// Hypothesis templates; {} is replaced by each candidate label.
const (
	WeatherTemplate = "The weather condition described is {}."
	ItemTemplate    = "This item is worn when the weather is {}."
)

const maxResponseBytes = 1 << 20

// Classifier scores text against labels. Scores are integer percentages
// in [0, 100].
type Classifier interface {
	Classify(ctx context.Context, text string, labels []string, template string) (map[string]int, error)
}

func getLogger() logger.Logger {
	return logger.Global().Module("classifier")
}

type inferenceRequest struct {
	Inputs     string              `json:"inputs"`
	Parameters inferenceParameters `json:"parameters"`
}

type inferenceParameters struct {
	CandidateLabels    []string `json:"candidate_labels"`
	MultiLabel         bool     `json:"multi_label"`
	HypothesisTemplate string   `json:"hypothesis_template,omitempty"`
}

// inferenceResponse is the classic zero-shot pipeline output.
type inferenceResponse struct {
	Sequence string    `json:"sequence"`
	Labels   []string  `json:"labels"`
	Scores   []float64 `json:"scores"`
}

// labelScore is the list form some inference routers return instead.
type labelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// HFClassifier calls a Hugging Face style inference endpoint.
type HFClassifier struct {
	client  *httpclient.Client
	url     string
	model   string
	cache   *cache.Cache // nil when caching is disabled
	metrics *metrics.ClassifierMetrics
}

// New creates a classifier for the configured endpoint and model. A nil
// client builds one with the configured timeout and bearer token. The
// client's request hooks are replaced.
func New(settings conf.ClassifierSettings, client *httpclient.Client, m *metrics.ClassifierMetrics) *HFClassifier {
	if client == nil {
		cfg := &httpclient.Config{DefaultTimeout: settings.Timeout}
		if settings.APIToken != "" {
			cfg.Headers = map[string]string{"Authorization": "Bearer " + settings.APIToken}
		}
		client = httpclient.New(cfg)
	}

	endpoint := settings.Endpoint
	if endpoint == "" {
		endpoint = conf.DefaultClassifierEndpoint
	}
	model := settings.Model
	if model == "" {
		model = conf.DefaultClassifierModel
	}

	c := &HFClassifier{
		client:  client,
		url:     strings.TrimRight(endpoint, "/") + "/" + model,
		model:   model,
		metrics: m,
	}
	if settings.CacheTTL > 0 {
		c.cache = cache.New(settings.CacheTTL, 2*settings.CacheTTL)
	}
	client.SetBeforeRequestHook(c.beforeRequest)
	client.SetAfterResponseHook(c.afterResponse)
	return c
}

func (c *HFClassifier) beforeRequest(req *http.Request) {
	getLogger().Debug("sending inference request",
		logger.String("model", c.model),
		logger.Bool("authenticated", req.Header.Get("Authorization") != ""))
}

func (c *HFClassifier) afterResponse(_ *http.Request, resp *http.Response, err error, elapsed time.Duration) {
	status := httpclient.StatusLabel(resp, err)
	c.metrics.RecordUpstreamResponse(status)
	if status != "200" {
		getLogger().Warn("inference endpoint did not succeed",
			logger.String("model", c.model),
			logger.String("status_code", status),
			logger.Duration("elapsed", elapsed))
	}
}

// FromSettings returns a Classifier, or nil when classification is disabled.
func FromSettings(settings conf.ClassifierSettings, m *metrics.ClassifierMetrics) Classifier {
	if !settings.Enabled {
		getLogger().Warn("classifier disabled; tagging and recommendations are unavailable")
		return nil
	}
	getLogger().Info("classifier configured",
		logger.String("model", settings.Model),
		logger.Bool("authenticated", settings.APIToken != ""))
	return New(settings, nil, m)
}

// Classify implements Classifier. Labels missing from the response are
// absent from the result.
func (c *HFClassifier) Classify(ctx context.Context, text string, labels []string, template string) (map[string]int, error) {
	kind := kindFor(template)
	key := cacheKey(text, labels, template)

	if c.cache != nil {
		if cached, found := c.cache.Get(key); found {
			c.metrics.RecordCacheLookup(metrics.CacheHit)
			return maps.Clone(cached.(map[string]int)), nil
		}
		c.metrics.RecordCacheLookup(metrics.CacheMiss)
	}

	start := time.Now()
	scores, err := c.infer(ctx, text, labels, template)
	c.metrics.RecordClassificationDuration(kind, time.Since(start).Seconds())
	if err != nil {
		c.metrics.RecordClassification(kind, metrics.StatusError)
		return nil, err
	}
	c.metrics.RecordClassification(kind, metrics.StatusSuccess)

	if c.cache != nil {
		c.cache.SetDefault(key, maps.Clone(scores))
	}
	return scores, nil
}

func (c *HFClassifier) infer(ctx context.Context, text string, labels []string, template string) (map[string]int, error) {
	body, err := json.Marshal(inferenceRequest{
		Inputs: text,
		Parameters: inferenceParameters{
			CandidateLabels:    labels,
			MultiLabel:         true,
			HypothesisTemplate: template,
		},
	})
	if err != nil {
		return nil, c.newError(fmt.Errorf("failed to encode inference request: %w", err), errors.CategoryClassification)
	}

	resp, err := c.client.Post(ctx, c.url, "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, c.newError(fmt.Errorf("inference request failed: %w", err), errors.CategoryNetwork)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, c.newError(fmt.Errorf("failed to read inference response: %w", err), errors.CategoryNetwork)
	}

	switch {
	case resp.StatusCode == http.StatusServiceUnavailable:
		// Model cold start on hosted inference.
		return nil, c.newError(fmt.Errorf("inference endpoint unavailable: %s", strings.TrimSpace(string(payload))),
			errors.CategoryServiceUnavailable)
	case resp.StatusCode != http.StatusOK:
		return nil, errors.New(fmt.Errorf("inference endpoint returned status %d", resp.StatusCode)).
			Component("classifier").
			Category(errors.CategoryUpstream).
			Context("model", c.model).
			Context("status_code", resp.StatusCode).
			Build()
	}

	scores, err := parseScores(payload)
	if err != nil {
		return nil, c.newError(err, errors.CategoryUpstream)
	}

	getLogger().Debug("classified text",
		logger.String("model", c.model),
		logger.Int("labels", len(scores)))
	return scores, nil
}

func (c *HFClassifier) newError(err error, category errors.ErrorCategory) error {
	return errors.New(err).
		Component("classifier").
		Category(category).
		Context("model", c.model).
		Build()
}

// parseScores accepts both the {labels, scores} object and the
// [{label, score}] list and maps scores to truncated percentages.
func parseScores(payload []byte) (map[string]int, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var list []labelScore
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, fmt.Errorf("failed to decode inference response: %w", err)
		}
		scores := make(map[string]int, len(list))
		for _, ls := range list {
			scores[ls.Label] = toPercent(ls.Score)
		}
		return scores, nil
	}

	var resp inferenceResponse
	if err := json.Unmarshal(trimmed, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode inference response: %w", err)
	}
	if len(resp.Labels) != len(resp.Scores) {
		return nil, fmt.Errorf("inference response has %d labels but %d scores", len(resp.Labels), len(resp.Scores))
	}
	scores := make(map[string]int, len(resp.Labels))
	for i, label := range resp.Labels {
		scores[label] = toPercent(resp.Scores[i])
	}
	return scores, nil
}

// toPercent truncates a probability to an integer percentage in [0, 100].
func toPercent(score float64) int {
	p := int(score * 100)
	return max(0, min(100, p))
}

func kindFor(template string) string {
	switch template {
	case WeatherTemplate:
		return metrics.KindWeather
	case ItemTemplate:
		return metrics.KindItem
	default:
		return "custom"
	}
}

func cacheKey(text string, labels []string, template string) string {
	return template + "\x00" + strings.Join(labels, "\x1f") + "\x00" + text
}
