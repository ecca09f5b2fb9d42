package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client is the remote fetch collaborator: it retrieves a resource and
// hands back a byte stream, failing on network errors and non-success
// status codes.
type Client interface {
	Fetch(ctx context.Context, url string) (io.ReadCloser, error)
}

// HTTPClient fetches assets over plain HTTP with a bounded per-request
// timeout so a stuck transfer cannot hang a render job forever.
type HTTPClient struct {
	client *http.Client
}

func NewHTTPClient(timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &HTTPClient{
		client: &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) Fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid asset url: %w", err)
	}

	res, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch failed: %w", err)
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		res.Body.Close()
		return nil, fmt.Errorf("fetch http %d", res.StatusCode)
	}

	return res.Body, nil
}
