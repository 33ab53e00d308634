package twelvelabs_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/vidnote/pkg/adapters/twelvelabs"
	"github.com/aretw0/vidnote/pkg/core"
	"github.com/aretw0/vidnote/pkg/ingest"
)

// fakeAPI serves the four endpoints the provider uses.
func fakeAPI(t *testing.T, statuses []string) *httptest.Server {
	t.Helper()
	var polls atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("POST /indexes", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.NotEmpty(t, req["index_name"])
		assert.Len(t, req["engines"], 2)
		_, _ = w.Write([]byte(`{"_id":"idx-1"}`))
	})
	mux.HandleFunc("POST /tasks/external-provider", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "idx-1", req["index_id"])
		assert.Equal(t, "https://youtu.be/dQw4w9WgXcQ", req["url"])
		_, _ = w.Write([]byte(`{"_id":"task-1"}`))
	})
	mux.HandleFunc("GET /tasks/task-1", func(w http.ResponseWriter, r *http.Request) {
		i := int(polls.Add(1)) - 1
		if i >= len(statuses) {
			i = len(statuses) - 1
		}
		_ = json.NewEncoder(w).Encode(map[string]string{
			"_id": "task-1", "index_id": "idx-1", "video_id": "vid-9", "status": statuses[i],
		})
	})
	mux.HandleFunc("POST /generate", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "vid-9", req["video_id"])
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "gen-1", "data": "Summary: " + req["prompt"]})
	})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-api-key") != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"code":"api_key_invalid","message":"bad key"}`))
			return
		}
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestMapStatus(t *testing.T) {
	for _, s := range []string{"validating", "pending", "queued", "indexing", ""} {
		assert.Equal(t, core.TaskProcessing, twelvelabs.MapStatus(s), s)
	}
	assert.Equal(t, core.TaskReady, twelvelabs.MapStatus("ready"))
	assert.Equal(t, core.TaskFailed, twelvelabs.MapStatus("failed"))
}

func TestClient_EndToEnd(t *testing.T) {
	srv := fakeAPI(t, []string{"pending", "indexing", "ready"})
	provider, err := twelvelabs.New(twelvelabs.Config{APIKey: "secret", BaseURL: srv.URL + "/"})
	require.NoError(t, err)

	client := ingest.NewClient(provider, ingest.WithPolicy(ingest.Policy{PollInterval: time.Millisecond, MaxWait: 5 * time.Second}))
	text, err := client.SubmitAndAnalyze(context.Background(), "https://youtu.be/dQw4w9WgXcQ", "Summarize it", nil)
	require.NoError(t, err)
	assert.Equal(t, "Summary: Summarize it", text)
}

func TestClient_FailedTask(t *testing.T) {
	srv := fakeAPI(t, []string{"indexing", "failed"})
	provider, err := twelvelabs.New(twelvelabs.Config{APIKey: "secret", BaseURL: srv.URL})
	require.NoError(t, err)

	client := ingest.NewClient(provider, ingest.WithPolicy(ingest.Policy{PollInterval: time.Millisecond}))
	_, err = client.SubmitAndAnalyze(context.Background(), "https://youtu.be/dQw4w9WgXcQ", "p", nil)

	var ie *core.IngestionError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, "failed", ie.ProviderStatus)
}

func TestClient_APIError(t *testing.T) {
	srv := fakeAPI(t, []string{"ready"})
	provider, err := twelvelabs.New(twelvelabs.Config{APIKey: "wrong", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = provider.CreateIndex(context.Background(), "x")
	var apiErr *twelvelabs.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "api_key_invalid", apiErr.Code)
}

func TestNew_RequiresAPIKey(t *testing.T) {
	_, err := twelvelabs.New(twelvelabs.Config{})
	assert.Error(t, err)
}
