package flatfile

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// Client fetches the legacy delimited inventory file from a remote location.
type Client interface {
	Download(ctx context.Context, url string) ([]byte, error)
}

// APIClient is a resty-backed implementation of Client.
type APIClient struct {
	httpClient *resty.Client
}

// NewClient builds a download client with the given timeout. Zero means 30s.
func NewClient(timeout time.Duration) *APIClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	restyClient := resty.New()
	restyClient.
		SetHeader("Accept", "text/csv, text/plain, */*").
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond)

	return &APIClient{httpClient: restyClient}
}

// Download returns the raw body at url.
func (c *APIClient) Download(ctx context.Context, url string) ([]byte, error) {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", url, err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		return nil, fmt.Errorf("download %s: unexpected status %d", url, resp.StatusCode())
	}

	return resp.Body(), nil
}
