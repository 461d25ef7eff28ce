package tiktok

import (
	"io"
	"net/http"
	"time"

	"ttscraper/pkg/errors"
	"ttscraper/pkg/logger"
)

// Client fetches TikTok web pages. It follows redirects (short share
// links resolve to canonical video pages) and sends a fixed browser-like
// header set; a desktop user agent is what makes TikTok serve the HTML
// variant that carries embedded JSON. The client never retries on its
// own - retry policy belongs to the discovery engine and orchestrator.
type Client struct {
	httpClient *http.Client
	headers    map[string]string
	cookie     string
	baseURL    string
	logger     logger.Logger
}

// NewClient creates a client with the default header set.
func NewClient(timeout time.Duration, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		headers: map[string]string{
			"User-Agent": "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
				"(KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36",
			"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
			"Accept-Language":           "en-US,en;q=0.9",
			"Cache-Control":             "no-cache",
			"Pragma":                    "no-cache",
			"Upgrade-Insecure-Requests": "1",
			"Referer":                   "https://www.tiktok.com/",
		},
		baseURL: BaseURL,
		logger:  log,
	}
}

// SetCookie attaches a raw Cookie header value to every request. The
// value is passed through verbatim; supplying a valid session cookie
// improves reliability in geo-blocked regions.
func (c *Client) SetCookie(cookie string) {
	c.cookie = cookie
}

// SetHeader overrides a single request header.
func (c *Client) SetHeader(key, value string) {
	c.headers[key] = value
}

// SetBaseURL points the client at a different host. Used by tests.
func (c *Client) SetBaseURL(base string) {
	c.baseURL = base
}

// BaseURL returns the host the client talks to.
func (c *Client) CurrentBaseURL() string {
	return c.baseURL
}

// FetchPage performs a GET and returns the final response body after
// redirects. Non-2xx statuses and transport failures come back as typed
// errors; the body content is never interpreted here.
func (c *Client) FetchPage(url string) (string, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return "", errors.Newf(errors.ErrorTypeUnknown, "failed to create request: %v", err)
	}
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}
	if c.cookie != "" {
		req.Header.Set("Cookie", c.cookie)
	}

	start := time.Now()
	c.logger.DebugWithFields("sending HTTP request", map[string]interface{}{
		"url": url,
	})

	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)
	if err != nil {
		c.logger.ErrorWithFields("HTTP request failed", map[string]interface{}{
			"url":      url,
			"error":    err.Error(),
			"duration": duration,
		})
		return "", errors.Newf(errors.ErrorTypeNetwork, "network error: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Newf(errors.ErrorTypeNetwork, "failed to read response body: %v", err)
	}

	c.logger.DebugWithFields("HTTP request completed", map[string]interface{}{
		"url":      url,
		"status":   resp.StatusCode,
		"bytes":    len(body),
		"duration": duration,
	})

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return string(body), errors.NewHTTP(resp.StatusCode, "unexpected status from "+url)
	}

	return string(body), nil
}
