package resolver

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// Resolver follows redirects of feed links to find the article's real address.
type Resolver struct {
	client *http.Client
}

func New(timeout time.Duration) *Resolver {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Resolver{client: &http.Client{Timeout: timeout}}
}

// Resolve issues a HEAD request and returns the final URL after redirects.
// Any failure yields the input unchanged.
func (r *Resolver) Resolve(ctx context.Context, link string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, link, nil)
	if err != nil {
		slog.Debug("resolver: invalid link", "url", link, "error", err)
		return link
	}

	resp, err := r.client.Do(req)
	if err != nil {
		slog.Debug("resolver: request failed", "url", link, "error", err)
		return link
	}
	resp.Body.Close()

	if resp.Request == nil || resp.Request.URL == nil {
		return link
	}
	return resp.Request.URL.String()
}
