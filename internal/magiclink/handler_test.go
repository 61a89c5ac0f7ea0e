package magiclink

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/2beens/admingate/internal/apps"
	"github.com/2beens/admingate/internal/telemetry/metrics"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ linkStore = (*storeMock)(nil)

type storeMock struct {
	links  map[string]string
	putErr error
}

func newStoreMock() *storeMock {
	return &storeMock{links: make(map[string]string)}
}

func (m *storeMock) Put(_ context.Context, token, appID string) error {
	if m.putErr != nil {
		return m.putErr
	}
	m.links[token] = appID
	return nil
}

func setupHandlerForTests(t *testing.T, store linkStore) (*Handler, *mux.Router) {
	t.Helper()

	registry, err := apps.NewRegistryFromJSON(`{"status_board":"https://status.example.com"}`)
	require.NoError(t, err)

	handler := NewHandler(store, registry, metrics.NewTestManager())
	handler.NewTokenFunc = func() string { return "test-link-token" }

	r := mux.NewRouter()
	handler.SetupRoutes(r)
	return handler, r
}

func doGenerate(t *testing.T, r *mux.Router, body string) *httptest.ResponseRecorder {
	t.Helper()

	req, err := http.NewRequest("POST", "/api/generate-link", strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestHandler_generate(t *testing.T) {
	store := newStoreMock()
	_, r := setupHandlerForTests(t, store)

	rr := doGenerate(t, r, `{"appId":"status_board"}`)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Success   bool   `json:"success"`
		URL       string `json:"url"`
		Token     string `json:"token"`
		ExpiresIn int    `json:"expiresIn"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "test-link-token", resp.Token)
	assert.Equal(t, "https://status.example.com/auth/magic-link?token=test-link-token", resp.URL)
	assert.Equal(t, 900, resp.ExpiresIn)

	assert.Equal(t, "status_board", store.links["test-link-token"])
}

func TestHandler_generate_missingAppID(t *testing.T) {
	_, r := setupHandlerForTests(t, newStoreMock())

	for _, body := range []string{`{}`, `{"appId":""}`, `garbage`} {
		rr := doGenerate(t, r, body)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, `{"error":"appId required"}`, rr.Body.String())
	}
}

func TestHandler_generate_unknownApp(t *testing.T) {
	store := newStoreMock()
	_, r := setupHandlerForTests(t, store)

	rr := doGenerate(t, r, `{"appId":"no_such_app"}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, `{"error":"app not found"}`, rr.Body.String())
	assert.Empty(t, store.links)
}

func TestHandler_generate_storeFailure(t *testing.T) {
	store := newStoreMock()
	store.putErr = errors.New("redis unreachable")
	_, r := setupHandlerForTests(t, store)

	rr := doGenerate(t, r, `{"appId":"status_board"}`)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, `{"error":"internal server error"}`, rr.Body.String())
}

func TestHandler_generate_registryNotConfigured(t *testing.T) {
	handler := NewHandler(newStoreMock(), nil, metrics.NewTestManager())
	r := mux.NewRouter()
	handler.SetupRoutes(r)

	rr := doGenerate(t, r, `{"appId":"status_board"}`)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestHandler_defaultTokenFunc_uniqueTokens(t *testing.T) {
	registry, err := apps.NewRegistryFromJSON(`{"status_board":"https://status.example.com"}`)
	require.NoError(t, err)
	handler := NewHandler(newStoreMock(), registry, metrics.NewTestManager())

	t1 := handler.NewTokenFunc()
	t2 := handler.NewTokenFunc()
	assert.NotEmpty(t, t1)
	assert.NotEqual(t, t1, t2)
}
