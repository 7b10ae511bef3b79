package claude

import (
	"net"
	"net/http"
	"time"
)

const anthropicVersion = "2023-06-01"

const (
	connectTimeout = 15 * time.Second
	requestTimeout = 300 * time.Second
)

// httpClient is shared by the catalog and chat paths. Timeout is
// intentionally 0: every request carries a context-based deadline, and a
// client-level timeout would cut off long streamed responses.
var httpClient = &http.Client{
	Transport: &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   connectTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	},
}

func setAuthHeaders(req *http.Request, apiKey string) {
	req.Header.Set("x-api-key", apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)
}
