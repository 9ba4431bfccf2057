package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/technoheaven/portal-client/internal/common"
	"github.com/technoheaven/portal-client/internal/logging"
)

const defaultRequestTimeout = 30 * time.Second

// Client issues REST calls against the portal backend. It owns the cookie
// jar (the session cookie is the authoritative credential) and the
// process-wide anti-forgery token, which is captured opportunistically from
// any response body that carries a fresh one and attached to subsequent
// requests.
//
// The client never mutates session state; callers interpret its errors.
// Safe for concurrent use.
type Client struct {
	baseURL *url.URL
	httpc   *http.Client
	log     logging.Logger

	mu        sync.RWMutex
	csrfToken string
}

// New builds a Client for the given base URL. The URL must be absolute;
// a trailing slash is added if missing so relative endpoint paths resolve
// under it.
func New(baseURL string, log logging.Logger) (*Client, error) {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if !u.IsAbs() {
		return nil, fmt.Errorf("base url must be absolute: %s", baseURL)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	return &Client{
		baseURL: u,
		httpc:   &http.Client{Jar: jar, Timeout: defaultRequestTimeout},
		log:     log.With("component", "api"),
	}, nil
}

// CSRFToken returns the most recently observed anti-forgery token, or "".
func (c *Client) CSRFToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.csrfToken
}

// SetCSRFToken replaces the anti-forgery token.
func (c *Client) SetCSRFToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.csrfToken = token
}

// ClearCSRFToken drops the anti-forgery token, e.g. on logout.
func (c *Client) ClearCSRFToken() {
	c.SetCSRFToken("")
}

// do dispatches a single request. contentType is left empty for multipart
// bodies so the encoder-computed value (with its boundary) in hdr wins;
// callers must never set a bare "multipart/form-data" by hand.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	ref, err := url.Parse(path)
	if err != nil {
		return fmt.Errorf("invalid path %q: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.ResolveReference(ref).String(), body)
	if err != nil {
		return err
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set(common.RequestIDHeaderName, uuid.NewString())
	if tok := c.CSRFToken(); tok != "" && req.Header.Get(common.CSRFHeaderName) == "" {
		req.Header.Set(common.CSRFHeaderName, tok)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading response: %v", ErrUnavailable, err)
	}

	if resp.StatusCode >= 400 {
		return c.errorFromResponse(resp.StatusCode, data)
	}

	c.captureCSRF(data)

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

func (c *Client) errorFromResponse(status int, data []byte) error {
	apiErr := &APIError{StatusCode: status}
	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err == nil {
		apiErr.Fields = payload
		apiErr.Detail = firstDetail(payload)
	}
	return apiErr
}

// captureCSRF records a refreshed anti-forgery token if the response body
// carries one. An explicit empty token clears the stored value.
func (c *Client) captureCSRF(data []byte) {
	if len(data) == 0 {
		return
	}
	var envelope struct {
		CSRFToken *string `json:"csrf_token"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil || envelope.CSRFToken == nil {
		return
	}
	c.SetCSRFToken(*envelope.CSRFToken)
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, "", out)
}

func (c *Client) deleteJSON(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodDelete, path, nil, "", out)
}

func (c *Client) sendJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(data)
	}
	return c.do(ctx, method, path, reader, "application/json", out)
}

func (c *Client) sendForm(ctx context.Context, method, path string, form *Form, out any) error {
	body, contentType, err := form.encode()
	if err != nil {
		return fmt.Errorf("encoding form: %w", err)
	}
	return c.do(ctx, method, path, body, contentType, out)
}

// Form accumulates multipart form fields and file parts.
type Form struct {
	fields []formField
	files  []formFile
}

type formField struct {
	name  string
	value string
}

type formFile struct {
	name     string
	filename string
	content  []byte
}

// AddField appends a text field.
func (f *Form) AddField(name, value string) {
	f.fields = append(f.fields, formField{name: name, value: value})
}

// AddFieldIfSet appends a text field only when the value is non-empty.
func (f *Form) AddFieldIfSet(name, value string) {
	if value != "" {
		f.AddField(name, value)
	}
}

// AddFile appends a file part.
func (f *Form) AddFile(name, filename string, content []byte) {
	f.files = append(f.files, formFile{name: name, filename: filename, content: content})
}

// encode renders the multipart body. The returned content type includes the
// writer-computed boundary and must be passed through unchanged.
func (f *Form) encode() (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, field := range f.fields {
		if err := w.WriteField(field.name, field.value); err != nil {
			return nil, "", err
		}
	}
	for _, file := range f.files {
		part, err := w.CreateFormFile(file.name, file.filename)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(file.content); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
