package claude

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"sessiond/pkg/types"
)

// chatMaxTokens is the fixed generation budget for quick-chat requests.
const chatMaxTokens = 16384

const dataPrefix = "data: "

type messagesRequest struct {
	Model     string              `json:"model"`
	MaxTokens int                 `json:"max_tokens"`
	Stream    bool                `json:"stream"`
	Messages  []types.ChatMessage `json:"messages"`
}

// streamEvent is the subset of the SSE event payload we care about.
// Everything except content_block_delta text is ignored.
type streamEvent struct {
	Type  string `json:"type"`
	Delta struct {
		Text string `json:"text"`
	} `json:"delta"`
}

// StreamChat posts the conversation to the chat endpoint and invokes
// onChunk synchronously, in arrival order, once per text delta. model
// must be a concrete API model id, not a display alias. Credentials come
// from the settings/env chain only; with no key resolvable the call
// fails before any network I/O. Cancelling ctx tears the connection
// down; chunks already delivered are not revoked.
func StreamChat(ctx context.Context, messages []types.ChatMessage, model string, onChunk func(string)) error {
	err := streamChat(ctx, messages, model, onChunk)
	switch {
	case err == nil:
		chatRequestsTotal.WithLabelValues("ok").Inc()
	case IsCredentialError(err):
		chatRequestsTotal.WithLabelValues("no_credentials").Inc()
	case IsAPIError(err):
		chatRequestsTotal.WithLabelValues("api_error").Inc()
	default:
		chatRequestsTotal.WithLabelValues("transport_error").Inc()
	}
	return err
}

func streamChat(ctx context.Context, messages []types.ChatMessage, model string, onChunk func(string)) error {
	creds, err := ResolveCredentials("", "")
	if err != nil {
		return err
	}
	if creds.APIKey == "" {
		return ErrNoCredentials()
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	payload, err := json.Marshal(messagesRequest{
		Model:     model,
		MaxTokens: chatMaxTokens,
		Stream:    true,
		Messages:  messages,
	})
	if err != nil {
		return ErrTransport(err)
	}
	url := strings.TrimRight(creds.BaseURL, "/") + "/v1/messages"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return ErrTransport(err)
	}
	setAuthHeaders(req, creds.APIKey)
	req.Header.Set("content-type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ErrTransport(ctx.Err())
		}
		return ErrTransport(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return ErrAPI(resp.StatusCode, string(b))
	}

	// Line-oriented SSE parse. Reading one line at a time and calling
	// onChunk inline means a slow consumer throttles the read; there is
	// no buffering beyond the line being assembled.
	r := bufio.NewReader(resp.Body)
	for {
		line, err := r.ReadString('\n')
		if len(line) > 0 {
			line = strings.TrimSpace(line)
			if strings.HasPrefix(line, dataPrefix) {
				data := line[len(dataPrefix):]
				if data == "[DONE]" {
					return nil
				}
				var ev streamEvent
				// Malformed frames are tolerated: skip and keep reading.
				if jerr := json.Unmarshal([]byte(data), &ev); jerr == nil {
					if ev.Type == "content_block_delta" && ev.Delta.Text != "" {
						chatChunksTotal.Inc()
						onChunk(ev.Delta.Text)
					}
				}
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			if ctx.Err() != nil {
				return ErrTransport(ctx.Err())
			}
			return ErrTransport(err)
		}
	}
}
