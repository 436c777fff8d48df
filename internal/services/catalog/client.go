package catalog

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-faster/errors"

	"wpsync/internal/logger"
)

// Client reads the remote product export.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logger.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger *logger.Logger) *Client {
	return NewClientWithHTTP(baseURL, &http.Client{Timeout: timeout}, logger)
}

func NewClientWithHTTP(baseURL string, httpClient *http.Client, logger *logger.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     logger,
	}
}

// GetProducts fetches the full export.
func (c *Client) GetProducts(ctx context.Context) ([]RemoteProduct, error) {
	return c.fetch(ctx, nil)
}

// GetPage fetches the export starting at offset.
func (c *Client) GetPage(ctx context.Context, offset int) ([]RemoteProduct, error) {
	q := url.Values{}
	q.Set("offset", strconv.Itoa(offset))
	return c.fetch(ctx, q)
}

func (c *Client) fetch(ctx context.Context, query url.Values) ([]RemoteProduct, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Accept", "application/json")
	if query != nil {
		q := req.URL.Query()
		for k, v := range query {
			q[k] = v
		}
		req.URL.RawQuery = q.Encode()
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{URL: req.URL.String(), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{URL: req.URL.String(), Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &HTTPStatusError{URL: req.URL.String(), StatusCode: resp.StatusCode, Body: truncate(string(body), 512)}
	}

	c.logger.Debug("API response from %s: %d bytes", req.URL.String(), len(body))
	return c.decode(body)
}

func (c *Client) decode(body []byte) ([]RemoteProduct, error) {
	var envelope ProductsResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, errors.Wrapf(ErrParse, "decode products response: %v", err)
	}

	// Every received record stays in the list so the feed size is the raw
	// count. A record whose sku cannot be read keeps an empty SKU and is
	// skipped downstream.
	products := make([]RemoteProduct, len(envelope.Data))
	for i, raw := range envelope.Data {
		if err := json.Unmarshal(raw, &products[i]); err != nil {
			c.logger.Warn("Product at index %d has no usable sku: %v", i, err)
			products[i] = RemoteProduct{}
		}
	}
	return products, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
