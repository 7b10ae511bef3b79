package claude

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"sessiond/pkg/types"
)

// builtinModels mirrors the model picker of the assistant CLI. These
// always lead the list, in this order, and are never replaced by remote
// entries with the same id.
func builtinModels() []types.ModelInfo {
	return []types.ModelInfo{
		{ID: "claude-sonnet-4-6", Name: "Sonnet 4.6 (recommended)", Provider: "anthropic", Group: "Claude Sonnet"},
		{ID: "claude-opus-4-6", Name: "Opus 4.6", Provider: "anthropic", Group: "Claude Opus"},
		{ID: "claude-haiku-4-5", Name: "Haiku 4.5", Provider: "anthropic", Group: "Claude Haiku"},
	}
}

// inferGroup buckets a model id into a display group.
func inferGroup(id string) string {
	lower := strings.ToLower(id)
	switch {
	case strings.Contains(lower, "opus"):
		return "Claude Opus"
	case strings.Contains(lower, "sonnet"):
		return "Claude Sonnet"
	case strings.Contains(lower, "haiku"):
		return "Claude Haiku"
	default:
		return "Other"
	}
}

type modelsResponse struct {
	Data []remoteModel `json:"data"`
}

type remoteModel struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	CreatedAt   string `json:"created_at"`
}

// fetchModels lists models from the remote API. A proxy may expose a
// mixed catalog, so anything without "claude" in the id is dropped.
// Results are sorted newest first; entries without a timestamp sort after
// all timestamped ones, keeping their original relative order.
func fetchModels(ctx context.Context, creds Credentials) ([]types.ModelInfo, error) {
	url := strings.TrimRight(creds.BaseURL, "/") + "/v1/models"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, ErrTransport(err)
	}
	setAuthHeaders(req, creds.APIKey)
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, ErrTransport(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, ErrAPI(resp.StatusCode, string(b))
	}
	var body modelsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("parse models response: %w", err)
	}

	models := make([]types.ModelInfo, 0, len(body.Data))
	for _, m := range body.Data {
		if !strings.Contains(strings.ToLower(m.ID), "claude") {
			continue
		}
		name := m.DisplayName
		if name == "" {
			name = m.ID
		}
		var created *int64
		if m.CreatedAt != "" {
			if ts, err := time.Parse(time.RFC3339, m.CreatedAt); err == nil {
				v := ts.Unix()
				created = &v
			}
		}
		models = append(models, types.ModelInfo{
			ID:       m.ID,
			Name:     name,
			Provider: "anthropic",
			Group:    inferGroup(m.ID),
			Created:  created,
		})
	}
	sort.SliceStable(models, func(i, j int) bool {
		return createdOrDistantPast(models[i]) > createdOrDistantPast(models[j])
	})
	return models, nil
}

func createdOrDistantPast(m types.ModelInfo) int64 {
	if m.Created == nil {
		return math.MinInt64
	}
	return *m.Created
}

// mergeModels keeps the builtin list first in declared order and appends
// remote extras whose id is not already present.
func mergeModels(builtin, remote []types.ModelInfo) []types.ModelInfo {
	seen := make(map[string]struct{}, len(builtin))
	for _, m := range builtin {
		seen[m.ID] = struct{}{}
	}
	out := builtin
	for _, m := range remote {
		if _, ok := seen[m.ID]; !ok {
			out = append(out, m)
		}
	}
	return out
}

// ListModels returns the merged model catalog. Without a resolvable API
// key it returns the builtin list with no network call. Remote fetch
// failures are absorbed: they log a warning and degrade to the builtin
// list. Only a configuration-layer fault surfaces as an error.
func ListModels(ctx context.Context, explicitKey, explicitURL string) ([]types.ModelInfo, error) {
	creds, err := ResolveCredentials(explicitKey, explicitURL)
	if err != nil {
		return nil, err
	}
	builtin := builtinModels()
	if creds.APIKey == "" {
		return builtin, nil
	}
	remote, err := fetchModels(ctx, creds)
	if err != nil {
		catalogFallbacksTotal.Inc()
		log.Warn().Err(err).Msg("model catalog fetch failed, using builtin list")
		return builtin, nil
	}
	return mergeModels(builtin, remote), nil
}
