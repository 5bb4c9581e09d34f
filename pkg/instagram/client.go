package instagram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	igerrors "shutter/pkg/errors"
	"shutter/pkg/logger"
)

// Client fetches profile pages and media from the public web front end.
// It never retries: one failed request is terminal for that call.
type Client struct {
	httpClient *http.Client
	headers    map[string]string
	baseURL    string
	logger     logger.Logger
}

// NewClient creates a client with the given request timeout. A zero
// timeout leaves requests bounded only by their context. A nil logger
// discards log output.
func NewClient(timeout time.Duration, log logger.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		headers:    make(map[string]string),
		baseURL:    BaseURL,
		logger:     logger.OrNop(log),
	}
}

// SetBaseURL points the client at a different front end
func (c *Client) SetBaseURL(baseURL string) {
	c.baseURL = baseURL
}

// SetHeader sets a header sent with every request
func (c *Client) SetHeader(key, value string) {
	c.headers[key] = value
}

// FetchProfilePage downloads the public profile page for username and
// returns its body.
//
// Transport failures yield ErrorTypeNetwork, a 404 yields
// ErrorTypeUserNotFound, other non-2xx statuses yield
// ErrorTypeHTTPRequest, and a body that cannot be read yields
// ErrorTypeResponseBody.
func (c *Client) FetchProfilePage(ctx context.Context, username string) (string, error) {
	pageURL := GetUserProfileURL(c.baseURL, username)

	c.logger.DebugWithFields("fetching profile page", map[string]interface{}{
		"username": username,
		"url":      pageURL,
	})

	resp, err := c.get(ctx, pageURL)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", igerrors.NewUserNotFound(username)
	}
	if err := checkResponseStatus(resp); err != nil {
		return "", err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", igerrors.NewResponseBodyError(err)
	}

	c.logger.DebugWithFields("fetched profile page", map[string]interface{}{
		"username": username,
		"bytes":    len(body),
	})

	return string(body), nil
}

// OpenMedia starts downloading a media file and returns the response body
// for streaming. The caller must close it.
func (c *Client) OpenMedia(ctx context.Context, mediaURL string) (io.ReadCloser, error) {
	resp, err := c.get(ctx, mediaURL)
	if err != nil {
		return nil, err
	}

	if err := checkResponseStatus(resp); err != nil {
		resp.Body.Close()
		return nil, err
	}

	return resp.Body, nil
}

// get performs a GET with the configured headers
func (c *Client) get(ctx context.Context, target string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, igerrors.NewNetworkError(err)
	}
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logger.DebugWithFields("HTTP request failed", map[string]interface{}{
			"url":      target,
			"error":    err.Error(),
			"duration": duration,
		})
		return nil, igerrors.NewNetworkError(err)
	}

	c.logger.DebugWithFields("HTTP request completed", map[string]interface{}{
		"url":      target,
		"status":   resp.StatusCode,
		"duration": duration,
	})

	return resp, nil
}

// checkResponseStatus maps any non-2xx status to ErrorTypeHTTPRequest
func checkResponseStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	return igerrors.NewHTTPRequestError(resp.StatusCode, fmt.Errorf("unexpected status %s", resp.Status))
}
