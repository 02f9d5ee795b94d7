package ingest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetJSONNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}))
	defer srv.Close()

	var v map[string]any
	err := getJSON(context.Background(), NewHTTPClient(2*time.Second), srv.URL, &v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "non-2xx: 500")
}

func TestGetJSONEmptyURL(t *testing.T) {
	var v map[string]any
	err := getJSON(context.Background(), NewHTTPClient(time.Second), "", &v)
	assert.Error(t, err)
}

func TestGetJSONTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
	}))
	defer srv.Close()

	var v map[string]any
	err := getJSON(context.Background(), NewHTTPClient(100*time.Millisecond), srv.URL, &v)
	assert.Error(t, err)
}

func TestGetJSONWithRetryRecovers(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			http.Error(w, "flaky", http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	var v map[string]bool
	err := GetJSONWithRetry(context.Background(), NewHTTPClient(2*time.Second), srv.URL, &v)
	require.NoError(t, err)
	assert.True(t, v["ok"])
	assert.Equal(t, 3, calls)
}

func TestGetJSONWithRetryGivesUp(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	var v map[string]any
	err := GetJSONWithRetry(context.Background(), NewHTTPClient(2*time.Second), srv.URL, &v)
	assert.Error(t, err)
}
