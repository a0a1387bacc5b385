package api

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/weathercloset/weathercloset/internal/classifier"
	"github.com/weathercloset/weathercloset/internal/closet"
	"github.com/weathercloset/weathercloset/internal/conf"
	"github.com/weathercloset/weathercloset/internal/datastore"
	"github.com/weathercloset/weathercloset/internal/imagestore"
	"github.com/weathercloset/weathercloset/internal/observability"
	"github.com/weathercloset/weathercloset/internal/security"
	"github.com/weathercloset/weathercloset/internal/weather"
)

const testPassword = "Secret1!"

// fakeClassifier returns fixed scores per hypothesis template.
type fakeClassifier map[string]map[string]int

func (f fakeClassifier) Classify(_ context.Context, _ string, _ []string, template string) (map[string]int, error) {
	out := make(map[string]int, len(f[template]))
	for k, v := range f[template] {
		out[k] = v
	}
	return out, nil
}

// fakeWeather returns fixed conditions, or err when set.
type fakeWeather struct {
	err error
}

func (f fakeWeather) Current(_ context.Context, city string) (*weather.WeatherData, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &weather.WeatherData{
		Description: "light rain",
		Temperature: 8,
		FeelsLike:   6,
		WindSpeed:   5,
		Humidity:    85,
		Location:    city,
	}, nil
}

type testServer struct {
	server   *Server
	store    *datastore.Store
	tokens   *security.TokenService
	metrics  *observability.Metrics
	imageDir string
}

type testServerOptions struct {
	classifier classifier.Classifier
	weather    closet.WeatherSource
}

func newTestServer(t *testing.T, opts testServerOptions) *testServer {
	t.Helper()
	dir := t.TempDir()

	store, err := datastore.Open(context.Background(), conf.DatabaseSettings{
		Type:   datastore.DriverSQLite,
		SQLite: conf.SQLiteSettings{Path: filepath.Join(dir, "api.db")},
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	settings := &conf.Settings{
		WebServer: conf.WebServerSettings{Port: "0", MaxUploadSize: "1M"},
		Security:  conf.SecuritySettings{SecretKey: "test-secret", Algorithm: "HS256", AccessTokenExpireMinutes: 30},
		Storage:   conf.StorageSettings{Type: imagestore.TypeLocal, LocalPath: filepath.Join(dir, "images")},
		Metrics:   conf.MetricsSettings{Enabled: true},
	}

	tokens, err := security.NewTokenService(settings.Security)
	require.NoError(t, err)
	images, err := imagestore.NewLocalStore(settings.Storage.LocalPath)
	require.NoError(t, err)
	m, err := observability.NewMetrics()
	require.NoError(t, err)

	w := opts.weather
	if w == nil {
		w = fakeWeather{}
	}
	tagger := closet.NewTagger(opts.classifier, store.Tags(), m.Closet)
	recommender := closet.NewRecommender(w, opts.classifier, store.Items(), m.Closet)
	svc := closet.NewService(store.Items(), images, tagger, recommender, m.Closet)

	server, err := New(settings,
		WithUsers(store.Users()),
		WithTokens(tokens),
		WithCloset(svc),
		WithMetrics(m),
		WithHealthChecker(store))
	require.NoError(t, err)

	return &testServer{server: server, store: store, tokens: tokens, metrics: m, imageDir: settings.Storage.LocalPath}
}

func (ts *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	ts.server.Echo().ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) signup(t *testing.T, email, password string) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(SignupRequest{Email: email, Password: password})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/signup", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return ts.do(req)
}

func (ts *testServer) login(t *testing.T, email, password string) *httptest.ResponseRecorder {
	t.Helper()
	form := url.Values{"username": {email}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return ts.do(req)
}

// registerAndLogin creates an account and returns its bearer token.
func (ts *testServer) registerAndLogin(t *testing.T, email string) string {
	t.Helper()
	require.Equal(t, http.StatusOK, ts.signup(t, email, testPassword).Code)
	rec := ts.login(t, email, testPassword)
	require.Equal(t, http.StatusOK, rec.Code)

	var token TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &token))
	return token.AccessToken
}

func (ts *testServer) authed(method, target, token string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, body)
	} else {
		req = httptest.NewRequest(method, target, http.NoBody)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return ts.do(req)
}

// uploadBody builds a multipart body with the given part content type.
func uploadBody(t *testing.T, filename, contentType, description string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	if description != "" {
		require.NoError(t, w.WriteField("description", description))
	}
	if filename != "" {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
		h.Set("Content-Type", contentType)
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return resp
}
