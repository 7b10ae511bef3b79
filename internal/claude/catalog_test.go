package claude

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sessiond/pkg/types"
)

func TestInferGroup(t *testing.T) {
	cases := map[string]string{
		"claude-opus-4-6":      "Claude Opus",
		"claude-sonnet-4-6":    "Claude Sonnet",
		"CLAUDE-HAIKU-4-5":     "Claude Haiku",
		"claude-instant-1":     "Other",
		"some-proxy-model":     "Other",
		"claude-3-opus-latest": "Claude Opus",
	}
	for id, want := range cases {
		assert.Equal(t, want, inferGroup(id), "id=%s", id)
	}
}

func TestMergeModels(t *testing.T) {
	builtin := []types.ModelInfo{{ID: "a"}, {ID: "b"}}
	remote := []types.ModelInfo{{ID: "b"}, {ID: "c"}}
	got := mergeModels(builtin, remote)
	require.Len(t, got, 3)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "b", got[1].ID)
	assert.Equal(t, "c", got[2].ID)
}

func TestListModelsNoKeySkipsNetwork(t *testing.T) {
	setHome(t)
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()

	got, err := ListModels(context.Background(), "", srv.URL)
	require.NoError(t, err)
	assert.Equal(t, builtinModels(), got)
	assert.EqualValues(t, 0, atomic.LoadInt32(&calls), "no network call without a key")
}

func TestListModelsRemoteFailureFallsBack(t *testing.T) {
	setHome(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	got, err := ListModels(context.Background(), "k", srv.URL)
	require.NoError(t, err, "remote failures are absorbed")
	assert.Equal(t, builtinModels(), got)

	// transport failure behaves the same
	srv.Close()
	got, err = ListModels(context.Background(), "k", srv.URL)
	require.NoError(t, err)
	assert.Equal(t, builtinModels(), got)
}

func TestListModelsMergesRemote(t *testing.T) {
	setHome(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/models", r.URL.Path)
		assert.Equal(t, "k", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[
			{"id":"claude-old-model","display_name":"Old","created_at":"2023-01-01T00:00:00Z"},
			{"id":"gpt-proxy-model","display_name":"Not Ours","created_at":"2025-01-01T00:00:00Z"},
			{"id":"claude-new-model","display_name":"New","created_at":"2025-06-01T00:00:00Z"},
			{"id":"claude-undated-a"},
			{"id":"claude-undated-b"},
			{"id":"claude-sonnet-4-6","display_name":"Dup Of Builtin"}
		]}`))
	}))
	defer srv.Close()

	got, err := ListModels(context.Background(), "k", srv.URL)
	require.NoError(t, err)

	ids := make([]string, len(got))
	for i, m := range got {
		ids[i] = m.ID
	}
	// builtins first in declared order, then remote extras newest first,
	// undated entries last in original order; the builtin duplicate and
	// the non-claude model are gone.
	assert.Equal(t, []string{
		"claude-sonnet-4-6", "claude-opus-4-6", "claude-haiku-4-5",
		"claude-new-model", "claude-old-model",
		"claude-undated-a", "claude-undated-b",
	}, ids)

	// builtin entry is never replaced by the remote one
	assert.Equal(t, "Sonnet 4.6 (recommended)", got[0].Name)

	byID := map[string]types.ModelInfo{}
	for _, m := range got {
		byID[m.ID] = m
	}
	assert.Equal(t, "New", byID["claude-new-model"].Name)
	// display name defaults to the id when absent
	assert.Equal(t, "claude-undated-a", byID["claude-undated-a"].Name)
	require.NotNil(t, byID["claude-old-model"].Created)
	assert.Nil(t, byID["claude-undated-a"].Created)
}

func TestListModelsUsesSettingsCredentials(t *testing.T) {
	home := setHome(t)
	var gotKey atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey.Store(r.Header.Get("x-api-key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()
	writeSettings(t, home, Settings{Env: map[string]string{
		envAuthToken: "settings-key",
		envBaseURL:   srv.URL,
	}})

	got, err := ListModels(context.Background(), "", "")
	require.NoError(t, err)
	assert.Equal(t, builtinModels(), got)
	assert.Equal(t, "settings-key", gotKey.Load())
}
