package ratelimit

import (
	"context"
	"io"
	"strings"

	"github.com/modelzoo-market/mz-indexer/internal/adapter"
)

// Provider classes for outbound metadata fetches. Gateway hosts rotate,
// so limits are keyed by gateway class rather than by hostname.
const (
	ProviderIPFS    = "ipfs"
	ProviderArweave = "arweave"
	ProviderHTTP    = "http"
)

// limitedHTTPClient acquires a rate limit token for the gateway class
// serving each URL before delegating to the wrapped client
type limitedHTTPClient struct {
	proxy Proxy
	inner adapter.HTTPClient
}

// NewHTTPClient wraps an HTTP client with per-gateway-class rate limiting.
// Requests to a class with no configured limit pass through unlimited.
func NewHTTPClient(p Proxy, inner adapter.HTTPClient) adapter.HTTPClient {
	return &limitedHTTPClient{proxy: p, inner: inner}
}

func (c *limitedHTTPClient) Get(ctx context.Context, url string, result interface{}) error {
	provider := ProviderFor(url)
	if !c.proxy.Configured(provider) {
		return c.inner.Get(ctx, url, result)
	}

	_, err := Request(ctx, c.proxy, provider, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, c.inner.Get(ctx, url, result)
	})
	return err
}

func (c *limitedHTTPClient) GetRaw(ctx context.Context, url string) ([]byte, error) {
	provider := ProviderFor(url)
	if !c.proxy.Configured(provider) {
		return c.inner.GetRaw(ctx, url)
	}

	return Request(ctx, c.proxy, provider, func(ctx context.Context) ([]byte, error) {
		return c.inner.GetRaw(ctx, url)
	})
}

func (c *limitedHTTPClient) Post(ctx context.Context, url string, contentType string, body io.Reader) ([]byte, error) {
	provider := ProviderFor(url)
	if !c.proxy.Configured(provider) {
		return c.inner.Post(ctx, url, contentType, body)
	}

	return Request(ctx, c.proxy, provider, func(ctx context.Context) ([]byte, error) {
		return c.inner.Post(ctx, url, contentType, body)
	})
}

// ProviderFor classifies a URL into the gateway class whose limit applies
func ProviderFor(url string) string {
	switch {
	case strings.Contains(url, "/ipfs/"):
		return ProviderIPFS
	case strings.Contains(url, "arweave"):
		return ProviderArweave
	default:
		return ProviderHTTP
	}
}
