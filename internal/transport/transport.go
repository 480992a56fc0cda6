// Package transport issues HTTP requests for the client. In the browser the
// standard library's fetch-backed RoundTripper carries the requests.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/vcrobe/nojs-messenger/logger"
)

// ErrNoMethod is returned by Request when Options.Method is empty.
var ErrNoMethod = errors.New("transport: no method")

// DefaultTimeout bounds a request when Options.Timeout is zero.
const DefaultTimeout = 5 * time.Second

// Options describes one request.
type Options struct {
	Method  string
	Headers map[string]string

	// Data is sent as the query string for GET and as the body otherwise.
	// Bodies of type io.Reader, []byte, string and url.Values are sent as is;
	// anything else is encoded as JSON.
	Data    any
	Timeout time.Duration

	// OmitCredentials stops cookies being sent to other origins.
	OmitCredentials bool
}

// Response is a completed request.
type Response struct {
	Status int
	Body   string
	Header http.Header
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// JSON decodes the body into v.
func (r *Response) JSON(v any) error {
	return json.Unmarshal([]byte(r.Body), v)
}

// Client sends requests.
type Client struct {
	http *http.Client
	log  *logger.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) { c.log = logger.OrNop(l).Named("transport") }
}

// New creates a Client.
func New(opts ...Option) *Client {
	c := &Client{http: http.DefaultClient, log: logger.Nop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Get(ctx context.Context, url string, opts Options) (*Response, error) {
	opts.Method = http.MethodGet
	return c.Request(ctx, url, opts)
}

func (c *Client) Post(ctx context.Context, url string, opts Options) (*Response, error) {
	opts.Method = http.MethodPost
	return c.Request(ctx, url, opts)
}

func (c *Client) Put(ctx context.Context, url string, opts Options) (*Response, error) {
	opts.Method = http.MethodPut
	return c.Request(ctx, url, opts)
}

func (c *Client) Delete(ctx context.Context, url string, opts Options) (*Response, error) {
	opts.Method = http.MethodDelete
	return c.Request(ctx, url, opts)
}

// Request sends a request and reads the whole response. Any status is a
// successful round trip; only transport failures are errors.
func (c *Client) Request(ctx context.Context, rawURL string, opts Options) (*Response, error) {
	if opts.Method == "" {
		return nil, ErrNoMethod
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	isGet := opts.Method == http.MethodGet
	target := rawURL
	var body io.Reader
	contentType := ""
	if isGet {
		if opts.Data != nil {
			q, err := QueryString(opts.Data)
			if err != nil {
				return nil, err
			}
			target = appendQuery(rawURL, q)
		}
	} else if opts.Data != nil {
		var err error
		body, contentType, err = encodeBody(opts.Data)
		if err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, opts.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("transport: build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}
	applyCredentials(req, !opts.OmitCredentials)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warnw("request failed", "method", opts.Method, "url", rawURL, "error", err)
		return nil, fmt.Errorf("transport: %s %s: %w", opts.Method, rawURL, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("transport: read body: %w", err)
	}
	c.log.Debugw("request done", "method", opts.Method, "url", rawURL,
		"status", resp.StatusCode, "duration", time.Since(start))

	return &Response{Status: resp.StatusCode, Body: string(data), Header: resp.Header}, nil
}

// QueryString encodes data as a query string without the leading "?".
// Keys come out sorted.
func QueryString(data any) (string, error) {
	switch d := data.(type) {
	case url.Values:
		return d.Encode(), nil
	case map[string]string:
		v := url.Values{}
		for k, s := range d {
			v.Set(k, s)
		}
		return v.Encode(), nil
	case map[string]any:
		v := url.Values{}
		for k, val := range d {
			v.Set(k, fmt.Sprint(val))
		}
		return v.Encode(), nil
	}
	return "", fmt.Errorf("transport: query data must be a map, got %T", data)
}

func appendQuery(rawURL, q string) string {
	if q == "" {
		return rawURL
	}
	if strings.Contains(rawURL, "?") {
		return rawURL + "&" + q
	}
	return rawURL + "?" + q
}

func encodeBody(data any) (io.Reader, string, error) {
	switch d := data.(type) {
	case io.Reader:
		return d, "", nil
	case []byte:
		return bytes.NewReader(d), "", nil
	case string:
		return strings.NewReader(d), "text/plain; charset=utf-8", nil
	case url.Values:
		return strings.NewReader(d.Encode()), "application/x-www-form-urlencoded", nil
	}
	b, err := json.Marshal(data)
	if err != nil {
		return nil, "", fmt.Errorf("transport: encode body: %w", err)
	}
	return bytes.NewReader(b), "application/json", nil
}
