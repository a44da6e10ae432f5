package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"storefront/internal/config"
	"storefront/internal/model"

	"github.com/rs/zerolog"
)

// HeaderIdempotencyKey deduplicates retried order submissions server-side.
const HeaderIdempotencyKey = "Idempotency-Key"

// Client talks to the restaurant REST API. Authentication, request ids and
// logging are handled by the transport it is built with.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	logger  zerolog.Logger
}

// New creates a client for cfg.BaseURL using transport.
func New(cfg config.APIConfig, transport http.RoundTripper, logger zerolog.Logger) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid API base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid API base URL: %q", cfg.BaseURL)
	}

	return &Client{
		baseURL: u,
		http:    &http.Client{Transport: transport, Timeout: cfg.Timeout},
		logger:  logger.With().Str("client", "api").Logger(),
	}, nil
}

// Error is a non-2xx response from the API.
type Error struct {
	StatusCode int
	Message    string
	Errors     []model.FieldError
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("api: %s (status %d)", e.Message, e.StatusCode)
}

// IsStatus reports whether err is an API error with the given status code.
func IsStatus(err error, status int) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	return IsStatus(err, http.StatusNotFound)
}

// errorBody is the error payload. errors is either the [{attr, detail}]
// array or a {"field": ["message", ...]} map.
type errorBody struct {
	Message string          `json:"message"`
	Errors  json.RawMessage `json:"errors"`
}

// maxRawMessage caps, in bytes, the message taken from a non-JSON error body.
const maxRawMessage = 200

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func parseError(status int, body []byte) *Error {
	apiErr := &Error{StatusCode: status}

	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		apiErr.Message = truncate(strings.TrimSpace(string(body)), maxRawMessage)
		return apiErr
	}
	apiErr.Message = eb.Message

	if len(eb.Errors) == 0 {
		return apiErr
	}

	var list []model.FieldError
	if err := json.Unmarshal(eb.Errors, &list); err == nil {
		apiErr.Errors = list
		return apiErr
	}

	var byField map[string][]string
	if err := json.Unmarshal(eb.Errors, &byField); err == nil {
		fields := make([]string, 0, len(byField))
		for f := range byField {
			fields = append(fields, f)
		}
		sort.Strings(fields)
		for _, f := range fields {
			for _, detail := range byField[f] {
				apiErr.Errors = append(apiErr.Errors, model.FieldError{Attr: f, Detail: detail})
			}
		}
	}

	return apiErr
}

// request describes one API call.
type request struct {
	method string
	path   string
	query  url.Values
	body   any
	form   *multipartForm
	header http.Header
}

// multipartForm is a form upload with an optional file part.
type multipartForm struct {
	fields    [][2]string
	fileField string
	filePath  string
}

func (f *multipartForm) encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, kv := range f.fields {
		if err := w.WriteField(kv[0], kv[1]); err != nil {
			return nil, "", err
		}
	}

	if f.filePath != "" {
		file, err := os.Open(f.filePath)
		if err != nil {
			return nil, "", fmt.Errorf("failed to open %s: %w", f.filePath, err)
		}
		defer file.Close()

		part, err := w.CreateFormFile(f.fileField, filepath.Base(f.filePath))
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(part, file); err != nil {
			return nil, "", fmt.Errorf("failed to read %s: %w", f.filePath, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

func (c *Client) newRequest(ctx context.Context, r request) (*http.Request, error) {
	u := *c.baseURL
	u.Path = c.baseURL.Path + r.path
	if len(r.query) > 0 {
		u.RawQuery = r.query.Encode()
	}

	var (
		body        io.Reader
		contentType string
	)
	switch {
	case r.form != nil:
		b, ct, err := r.form.encode()
		if err != nil {
			return nil, fmt.Errorf("failed to build form: %w", err)
		}
		body, contentType = b, ct
	case r.body != nil:
		b, err := json.Marshal(r.body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		body, contentType = bytes.NewReader(b), "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, r.method, u.String(), body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for k, vs := range r.header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	return req, nil
}

// call sends r and decodes the response envelope. Non-2xx responses become *Error.
func call[T any](ctx context.Context, c *Client, r request) (*model.Envelope[T], error) {
	req, err := c.newRequest(ctx, r)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", r.method, r.path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response of %s %s: %w", r.method, r.path, err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := parseError(resp.StatusCode, body)
		c.logger.Debug().
			Str("method", r.method).
			Str("path", r.path).
			Int("status", resp.StatusCode).
			Int("field_errors", len(apiErr.Errors)).
			Msg("api returned an error")
		return nil, apiErr
	}

	env := &model.Envelope[T]{}
	if len(bytes.TrimSpace(body)) == 0 {
		return env, nil
	}
	if err := json.Unmarshal(body, env); err != nil {
		return nil, fmt.Errorf("failed to decode response of %s %s: %w", r.method, r.path, err)
	}
	return env, nil
}

// payload is call returning only the envelope data.
func payload[T any](ctx context.Context, c *Client, r request) (*T, error) {
	env, err := call[T](ctx, c, r)
	if err != nil {
		return nil, err
	}
	return &env.Data, nil
}

// exec is call for endpoints whose payload is ignored.
func exec(ctx context.Context, c *Client, r request) error {
	_, err := call[json.RawMessage](ctx, c, r)
	return err
}
