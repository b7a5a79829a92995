package customHttpClient

import (
	"net/http"

	"github.com/akolanti/DocSearch/internal/config"
)

var customTransport = &http.Transport{
	MaxIdleConns:        config.MaxIdleConns,
	MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
	IdleConnTimeout:     config.IdleConnTimeout,
}

// PooledClient is shared by the OpenAI clients so embedding and chat
// calls reuse connections instead of paying handshake latency per call.
func PooledClient() *http.Client {
	return &http.Client{Transport: customTransport}
}
