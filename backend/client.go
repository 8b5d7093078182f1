package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// ErrSessionExpired marks an unauthorized response from the backend. Callers
// can tell it apart from transport failures with errors.Is; the wrapper has
// already purged the session by the time they see it.
var ErrSessionExpired = errors.New("session expired")

// ErrUnreachable wraps transport-level failures (DNS, refused connection,
// timeout). These are surfaced to the user as a generic network error and
// never retried automatically.
var ErrUnreachable = errors.New("backend unreachable")

// StatusError carries a non-2xx backend response through to the caller.
type StatusError struct {
	Code   int
	Detail string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("backend returned %d: %s", e.Code, e.Detail)
	}
	return fmt.Sprintf("backend returned %d", e.Code)
}

// TokenSource yields the bearer token for the session carried by ctx, when a
// live one exists.
type TokenSource interface {
	Token(ctx context.Context) (string, bool)
}

// Client talks to the merchant backend API. Every call transparently carries
// `Authorization: Bearer <token>` when the token source can produce a value,
// preserves caller headers, and funnels unauthorized responses into the
// forced-logout path.
type Client struct {
	baseURL        string
	http           *http.Client
	tokens         TokenSource
	onUnauthorized func(ctx context.Context)
	log            zerolog.Logger
}

func New(baseURL string, timeout time.Duration, tokens TokenSource, log zerolog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
		log:     log,
	}
}

// OnUnauthorized registers the hook run when the backend rejects a call with
// 401. The hook purges the token store and expires the session.
func (c *Client) OnUnauthorized(fn func(ctx context.Context)) {
	c.onUnauthorized = fn
}

// Do issues a request. Caller headers are copied verbatim, so a multipart
// body keeps the Content-Type boundary the writer chose; the wrapper never
// overrides it.
func (c *Client) Do(ctx context.Context, method, path string, body io.Reader, header http.Header) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	for key, values := range header {
		req.Header[key] = values
	}
	if tok, ok := c.tokens.Token(ctx); ok {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		resp.Body.Close()
		c.log.Warn().Str("path", path).Msg("backend rejected credentials")
		if c.onUnauthorized != nil {
			c.onUnauthorized(ctx)
		}
		return nil, ErrSessionExpired
	}

	return resp, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	resp, err := c.Do(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decodeJSON(resp, out)
}

func (c *Client) postJSON(ctx context.Context, path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return err
	}
	header := http.Header{}
	header.Set("Content-Type", "application/json")

	resp, err := c.Do(ctx, http.MethodPost, path, bytes.NewReader(payload), header)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decodeJSON(resp, out)
}

func (c *Client) postMultipart(ctx context.Context, path string, fields map[string]string, files map[string]UploadFile, out any) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return err
		}
	}
	for field, file := range files {
		part, err := writer.CreateFormFile(field, file.Name)
		if err != nil {
			return err
		}
		if _, err := io.Copy(part, file.Content); err != nil {
			return err
		}
	}
	if err := writer.Close(); err != nil {
		return err
	}

	header := http.Header{}
	header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.Do(ctx, http.MethodPost, path, &buf, header)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decodeJSON(resp, out)
}

func decodeJSON(resp *http.Response, out any) error {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var detail struct {
			Detail string `json:"detail"`
		}
		_ = json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&detail)
		return &StatusError{Code: resp.StatusCode, Detail: detail.Detail}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding backend response: %w", err)
	}
	return nil
}

// UploadFile pairs a filename with its content for multipart submission.
type UploadFile struct {
	Name    string
	Content io.Reader
}
