package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roombook-client/config"
)

const testBaseURL = "https://rooms.test/api"

func newMockedClient(t *testing.T, tokens TokenSource) *Client {
	t.Helper()
	c := New(config.APIConfig{BaseURL: testBaseURL, Timeout: time.Second}, tokens)
	httpmock.ActivateNonDefault(c.HTTPClient())
	t.Cleanup(httpmock.DeactivateAndReset)
	return c
}

func TestClient_InjectsBearerAndRequestID(t *testing.T) {
	var gotAuth, gotRequestID, gotLang string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		gotLang = r.Header.Get("Accept-Language")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	c := New(config.APIConfig{
		BaseURL: server.URL + "/",
		Timeout: time.Second,
		Headers: map[string]string{"Accept-Language": "es"},
	}, TokenFunc(func() string { return "t1" }))

	var out []map[string]any
	require.NoError(t, c.Get(context.Background(), "/rooms", nil, &out))

	assert.Equal(t, "Bearer t1", gotAuth)
	assert.NotEmpty(t, gotRequestID)
	assert.Equal(t, "es", gotLang)
}

func TestClient_NoTokenNoAuthorization(t *testing.T) {
	var hasAuth bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hasAuth = r.Header["Authorization"]
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	c := New(config.APIConfig{BaseURL: server.URL, Timeout: time.Second}, TokenFunc(func() string { return "" }))
	require.NoError(t, c.Delete(context.Background(), "/rooms/1"))
	assert.False(t, hasAuth)
}

func TestClient_DecodesSuccess(t *testing.T) {
	c := newMockedClient(t, nil)
	httpmock.RegisterResponder(http.MethodPost, testBaseURL+"/rooms",
		httpmock.NewJsonResponderOrPanic(http.StatusCreated, map[string]any{"id": 7, "name": "Board"}))

	var out struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}
	require.NoError(t, c.Post(context.Background(), "/rooms", map[string]any{"name": "Board"}, &out))
	assert.Equal(t, int64(7), out.ID)
	assert.Equal(t, "Board", out.Name)
}

func TestClient_QueryParameters(t *testing.T) {
	c := newMockedClient(t, nil)
	httpmock.RegisterResponderWithQuery(http.MethodGet, testBaseURL+"/rooms/available",
		map[string]string{"startTime": "2025-01-02T09:00", "endTime": "2025-01-02T10:00"},
		httpmock.NewStringResponder(http.StatusOK, `[{"id":1}]`))

	var out []map[string]any
	q := url.Values{"startTime": {"2025-01-02T09:00"}, "endTime": {"2025-01-02T10:00"}}
	require.NoError(t, c.Get(context.Background(), "/rooms/available", q, &out))
	assert.Len(t, out, 1)
}

func TestClient_ErrorNormalization(t *testing.T) {
	testCases := []struct {
		name        string
		status      int
		body        string
		expectedMsg string
	}{
		{
			name:        "details take precedence",
			status:      http.StatusBadRequest,
			body:        `{"status":400,"message":"Validation failed","details":["Room is already booked","second"]}`,
			expectedMsg: "Room is already booked",
		},
		{
			name:        "message when details empty",
			status:      http.StatusConflict,
			body:        `{"message":"Usuario o email ya registrados.","details":[]}`,
			expectedMsg: "Usuario o email ya registrados.",
		},
		{
			name:        "empty first detail falls back to message",
			status:      http.StatusBadRequest,
			body:        `{"message":"Bad input","details":[""]}`,
			expectedMsg: "Bad input",
		},
		{
			name:        "security rejection",
			status:      http.StatusForbidden,
			body:        `{"error":"Access denied: insufficient permissions"}`,
			expectedMsg: "Access denied: insufficient permissions",
		},
		{
			name:        "no payload",
			status:      http.StatusInternalServerError,
			body:        ``,
			expectedMsg: "request failed with status code 500",
		},
		{
			name:        "non json payload",
			status:      http.StatusBadGateway,
			body:        `<html>bad gateway</html>`,
			expectedMsg: "request failed with status code 502",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := newMockedClient(t, nil)
			httpmock.RegisterResponder(http.MethodGet, testBaseURL+"/rooms/1",
				httpmock.NewStringResponder(tc.status, tc.body))

			err := c.Get(context.Background(), "/rooms/1", nil, nil)
			require.Error(t, err)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tc.status, apiErr.StatusCode)
			assert.Equal(t, tc.expectedMsg, err.Error())
			assert.Equal(t, tc.expectedMsg, Message(err))
		})
	}
}

func TestClient_TransportError(t *testing.T) {
	c := newMockedClient(t, nil)
	httpmock.RegisterResponder(http.MethodGet, testBaseURL+"/rooms",
		httpmock.NewErrorResponder(errors.New("connection refused")))

	err := c.Get(context.Background(), "/rooms", nil, nil)
	require.Error(t, err)

	var tErr *TransportError
	require.True(t, errors.As(err, &tErr))
	assert.Equal(t, http.MethodGet, tErr.Method)
	assert.Equal(t, "unable to reach the server", Message(err))
	assert.Equal(t, 0, StatusCode(err))
}

func TestClient_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	c := New(config.APIConfig{BaseURL: server.URL, Timeout: time.Second}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.Get(ctx, "/rooms", nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClient_RateLimiterHonoursContext(t *testing.T) {
	c := New(config.APIConfig{BaseURL: testBaseURL, RateLimitPerSec: 0.001, RateLimitBurst: 1}, nil)
	httpmock.ActivateNonDefault(c.HTTPClient())
	defer httpmock.DeactivateAndReset()
	httpmock.RegisterResponder(http.MethodGet, testBaseURL+"/rooms",
		httpmock.NewStringResponder(http.StatusOK, `[]`))

	require.NoError(t, c.Get(context.Background(), "/rooms", nil, nil))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := c.Get(ctx, "/rooms", nil, nil)
	var tErr *TransportError
	assert.True(t, errors.As(err, &tErr), "second request should be throttled")
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}

func TestStatusHelpers(t *testing.T) {
	assert.True(t, IsNotFound(&APIError{StatusCode: http.StatusNotFound}))
	assert.True(t, IsUnauthorized(&APIError{StatusCode: http.StatusForbidden}))
	assert.False(t, IsUnauthorized(errors.New("boom")))
	assert.True(t, (&APIError{Details: []string{"x"}}).IsBusiness())
	assert.Equal(t, FallbackMessage, (&APIError{}).Error())
}
