package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSendsHeadersAndReturnsBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "drafter-test", r.Header.Get("User-Agent"))
		assert.Equal(t, "yes", r.Header.Get("X-Extra"))
		fmt.Fprint(w, "<rss/>")
	}))
	defer server.Close()

	c := New(time.Second, WithUserAgent("drafter-test"), WithHeaders(map[string]string{"X-Extra": "yes"}))
	status, body, err := c.Get(context.Background(), server.URL)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "<rss/>", string(body))
}

func TestGetDoesNotRetryOnServerError(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	status, _, err := New(time.Second).Get(context.Background(), server.URL)

	assert.Error(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, int32(1), calls.Load())
}

func TestGetHonoursContextCancel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, _, err := New(0).Get(ctx, server.URL)
	assert.Error(t, err)
}

func TestGetRejectsBadURL(t *testing.T) {
	_, _, err := New(time.Second).Get(context.Background(), "://bad")
	assert.Error(t, err)
}
