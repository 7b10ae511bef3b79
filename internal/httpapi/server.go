package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sessiond/internal/bookmarks"
	"sessiond/internal/claude"
	"sessiond/internal/sessions"
	"sessiond/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	ListModels(ctx context.Context, explicitKey, explicitURL string) ([]types.ModelInfo, error)
	StreamChat(ctx context.Context, messages []types.ChatMessage, model string, onChunk func(string)) error
	CLIConfig() (types.CLIConfig, error)
	ListBookmarks(source string) []types.Bookmark
	AddBookmark(bm types.Bookmark) (types.Bookmark, error)
	RemoveBookmark(id string) error
	ListSessions(source, projectID string) ([]types.SessionIndexEntry, error)
	DeleteSession(filePath, source, projectID, sessionID string) error
	UpdateSessionMeta(req types.UpdateMetaRequest) error
	AllTags(source, projectID string) []string
	CrossProjectTags(source string) map[string][]string
	DiscoverCLI() []types.CLIInstallation
}

func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	// Compression for JSON endpoints
	r.Use(middleware.Compress(5))
	r.Use(MetricsMiddleware)
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type", "X-Log-Level"},
		}))
	}

	r.Get("/models", handleModels(svc))
	r.Post("/chat", handleChat(svc))
	r.Get("/config", handleCLIConfig(svc))

	r.Get("/bookmarks", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, svc.ListBookmarks(r.URL.Query().Get("source")))
	})
	r.Post("/bookmarks", handleAddBookmark(svc))
	r.Delete("/bookmarks/{id}", func(w http.ResponseWriter, r *http.Request) {
		if err := svc.RemoveBookmark(chi.URLParam(r, "id")); err != nil {
			if errors.Is(err, bookmarks.ErrNotFound) {
				writeJSONError(w, http.StatusNotFound, err.Error())
				return
			}
			writeJSONError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	r.Get("/sessions", handleSessions(svc))
	r.Delete("/sessions", handleDeleteSession(svc))
	r.Post("/sessions/meta", handleUpdateMeta(svc))
	r.Get("/tags", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		writeJSON(w, svc.AllTags(q.Get("source"), q.Get("projectId")))
	})
	r.Get("/tags/cross", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, svc.CrossProjectTags(r.URL.Query().Get("source")))
	})

	r.Get("/cli", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, svc.DiscoverCLI())
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)

	return r
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
	}
}

// handleModels serves the merged model catalog. Optional api_key and
// base_url query parameters override the settings/env chain, matching
// the viewer's per-request credential override.
func handleModels(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		models, err := svc.ListModels(r.Context(), q.Get("api_key"), q.Get("base_url"))
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, types.ModelsResponse{Models: models})
	}
}

// handleChat streams chat completion chunks as NDJSON lines, one
// {"text": ...} object per upstream delta and a final {"done": true}.
// Errors before the first chunk map to a JSON error status; once
// streaming has begun a failure simply truncates the body.
func handleChat(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ct := r.Header.Get("Content-Type")
		if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
			writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		var req types.ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if strings.TrimSpace(req.Model) == "" {
			writeJSONError(w, http.StatusBadRequest, "model is required")
			return
		}
		if len(req.Messages) == 0 {
			writeJSONError(w, http.StatusBadRequest, "messages are required")
			return
		}

		var flush func()
		if f, ok := w.(http.Flusher); ok {
			flush = f.Flush
		}
		start := time.Now()
		lvl := requestLogLevel(r)
		writer := io.Writer(w)
		if lvl >= LevelDebug {
			writer = io.MultiWriter(w, &loggingLineWriter{})
		}
		if lvl >= LevelInfo {
			if zlog != nil {
				z := zlog.Info().Str("path", r.URL.Path).Str("model", req.Model)
				if rid := middleware.GetReqID(r.Context()); rid != "" {
					z = z.Str("request_id", rid)
				}
				z.Msg("chat start")
			} else {
				log.Printf("chat start path=%s model=%s", r.URL.Path, req.Model)
			}
		}

		// Join server base context with request context so shutdown cancels work too.
		joinedCtx, cancel := joinContexts(serverBaseCtx, r.Context())
		defer cancel()

		enc := json.NewEncoder(writer)
		streamed := false
		err := svc.StreamChat(joinedCtx, req.Messages, req.Model, func(text string) {
			if !streamed {
				w.Header().Set("Content-Type", "application/x-ndjson")
				streamed = true
			}
			_ = enc.Encode(types.ChatChunk{Text: text})
			if flush != nil {
				flush()
			}
		})
		if err != nil {
			// If context was canceled (client disconnect), just return.
			if r.Context().Err() != nil || serverBaseCtx.Err() != nil {
				return
			}
			status := chatErrorStatus(err)
			if !streamed {
				writeJSONError(w, status, err.Error())
			}
			if lvl >= LevelInfo {
				if zlog != nil {
					z := zlog.Info().Int("status", status).Dur("dur", time.Since(start))
					if rid := middleware.GetReqID(r.Context()); rid != "" {
						z = z.Str("request_id", rid)
					}
					z.Err(err).Msg("chat end")
				} else {
					log.Printf("chat end status=%d dur=%s err=%v", status, time.Since(start), err)
				}
			}
			return
		}
		if !streamed {
			w.Header().Set("Content-Type", "application/x-ndjson")
		}
		_ = enc.Encode(types.ChatChunk{Done: true})
		if flush != nil {
			flush()
		}
		if lvl >= LevelInfo {
			if zlog != nil {
				z := zlog.Info().Int("status", http.StatusOK).Dur("dur", time.Since(start))
				if rid := middleware.GetReqID(r.Context()); rid != "" {
					z = z.Str("request_id", rid)
				}
				z.Msg("chat end")
			} else {
				log.Printf("chat end status=200 dur=%s", time.Since(start))
			}
		}
	}
}

// chatErrorStatus maps chat stream failures onto HTTP statuses. Upstream
// API errors pass their status through verbatim.
func chatErrorStatus(err error) int {
	switch {
	case claude.IsCredentialError(err):
		return http.StatusUnauthorized
	case claude.IsConfigError(err):
		return http.StatusInternalServerError
	default:
		var he HTTPError
		if errors.As(err, &he) {
			return he.StatusCode()
		}
		return http.StatusBadGateway
	}
}

func handleCLIConfig(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg, err := svc.CLIConfig()
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, cfg)
	}
}

func handleAddBookmark(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		var bm types.Bookmark
		if err := json.NewDecoder(r.Body).Decode(&bm); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		added, err := svc.AddBookmark(bm)
		if err != nil {
			if errors.Is(err, bookmarks.ErrDuplicate) {
				writeJSONError(w, http.StatusBadRequest, err.Error())
				return
			}
			writeJSONError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, added)
	}
}

func handleSessions(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		source, projectID := q.Get("source"), q.Get("projectId")
		if source == "" {
			writeJSONError(w, http.StatusBadRequest, "source is required")
			return
		}
		entries, err := svc.ListSessions(source, projectID)
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, entries)
	}
}

func handleDeleteSession(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		filePath := q.Get("filePath")
		if filePath == "" {
			writeJSONError(w, http.StatusBadRequest, "filePath is required")
			return
		}
		err := svc.DeleteSession(filePath, q.Get("source"), q.Get("projectId"), q.Get("sessionId"))
		if err != nil {
			if errors.Is(err, sessions.ErrNotFound) {
				writeJSONError(w, http.StatusNotFound, err.Error())
				return
			}
			writeJSONError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleUpdateMeta(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		var req types.UpdateMetaRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if req.Source == "" || req.SessionID == "" {
			writeJSONError(w, http.StatusBadRequest, "source and sessionId are required")
			return
		}
		if err := svc.UpdateSessionMeta(req); err != nil {
			writeJSONError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
