package clientcli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultTimeout is the default HTTP client timeout.
const DefaultTimeout = 30 * time.Second

// Client performs operations against a Libris server.
type Client struct {
	config     *Config
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// New creates a new Client with the given config and options.
func New(cfg *Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, ErrConfigRequired
	}

	cfg = cfg.WithDefaults()

	c := &Client{
		config: &Config{
			Endpoint: strings.TrimSuffix(cfg.Endpoint, "/"),
			Token:    cfg.Token,
		},
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Register creates a new account and returns the issued access token.
func (c *Client) Register(ctx context.Context, name, email, password string) (string, error) {
	body := map[string]string{"name": name, "email": email, "password": password}
	var resp tokenResponse
	if err := c.postJSON(ctx, "/users", body, http.StatusCreated, &resp); err != nil {
		return "", fmt.Errorf("register: %w", err)
	}
	return resp.AccessToken, nil
}

// Login exchanges credentials for an access token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	body := map[string]string{"email": email, "password": password}
	var resp tokenResponse
	if err := c.postJSON(ctx, "/users/login", body, http.StatusOK, &resp); err != nil {
		return "", fmt.Errorf("login: %w", err)
	}
	return resp.AccessToken, nil
}

// CreateBook uploads a cover image and a document alongside the metadata and
// returns the new record's id.
func (c *Client) CreateBook(ctx context.Context, opts UploadOptions) (uuid.UUID, error) {
	if err := c.config.ValidateWithAuth(); err != nil {
		return uuid.Nil, err
	}

	fields := map[string]string{"title": opts.Title, "genre": opts.Genre}
	files := map[string]string{"coverImage": opts.CoverPath, "file": opts.FilePath}

	req, err := c.newMultipartRequest(ctx, http.MethodPost, "/books", fields, files)
	if err != nil {
		return uuid.Nil, fmt.Errorf("create book: %w", err)
	}

	var resp createResponse
	if err := c.do(req, http.StatusCreated, &resp); err != nil {
		return uuid.Nil, fmt.Errorf("create book: %w", err)
	}

	return resp.ID, nil
}

// UpdateBook patches a record. Empty option fields are not sent.
func (c *Client) UpdateBook(ctx context.Context, id uuid.UUID, opts UpdateOptions) (BookInfo, error) {
	if err := c.config.ValidateWithAuth(); err != nil {
		return BookInfo{}, err
	}

	fields := map[string]string{}
	if opts.Title != "" {
		fields["title"] = opts.Title
	}
	if opts.Genre != "" {
		fields["genre"] = opts.Genre
	}

	files := map[string]string{}
	if opts.CoverPath != "" {
		files["coverImage"] = opts.CoverPath
	}
	if opts.FilePath != "" {
		files["file"] = opts.FilePath
	}

	req, err := c.newMultipartRequest(ctx, http.MethodPatch, "/books/"+id.String(), fields, files)
	if err != nil {
		return BookInfo{}, fmt.Errorf("update book: %w", err)
	}

	var book BookInfo
	if err := c.do(req, http.StatusOK, &book); err != nil {
		return BookInfo{}, fmt.Errorf("update book: %w", err)
	}

	return book, nil
}

// DeleteBook removes a record and its remote assets.
func (c *Client) DeleteBook(ctx context.Context, id uuid.UUID) error {
	if err := c.config.ValidateWithAuth(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.config.Endpoint+"/books/"+id.String(), nil)
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	c.authorize(req)

	if err := c.do(req, http.StatusNoContent, nil); err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	return nil
}

// GetBook fetches a single record.
func (c *Client) GetBook(ctx context.Context, id uuid.UUID) (BookInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.Endpoint+"/books/"+id.String(), nil)
	if err != nil {
		return BookInfo{}, fmt.Errorf("get book: %w", err)
	}

	var book BookInfo
	if err := c.do(req, http.StatusOK, &book); err != nil {
		return BookInfo{}, fmt.Errorf("get book: %w", err)
	}
	return book, nil
}

// ListBooks fetches all records.
func (c *Client) ListBooks(ctx context.Context) ([]BookInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.Endpoint+"/books", nil)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}

	var books []BookInfo
	if err := c.do(req, http.StatusOK, &books); err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return books, nil
}

// Ping checks that the server answers at all.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.Endpoint+"/books", nil)
	if err != nil {
		return fmt.Errorf("ping: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	_ = resp.Body.Close()
	return nil
}

func (c *Client) authorize(req *http.Request) {
	if c.config.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.Token)
	}
}

// postJSON sends a JSON body and decodes a JSON response.
func (c *Client) postJSON(ctx context.Context, path string, body any, wantStatus int, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.Endpoint+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, wantStatus, out)
}

// newMultipartRequest builds an authorized multipart request with the given
// text fields and file fields (field name -> local path).
func (c *Client) newMultipartRequest(ctx context.Context, method, path string, fields, files map[string]string) (*http.Request, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return nil, fmt.Errorf("write field %s: %w", name, err)
		}
	}

	for field, localPath := range files {
		f, err := os.Open(filepath.Clean(localPath))
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", localPath, err)
		}

		part, err := w.CreateFormFile(field, filepath.Base(localPath))
		if err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("create form file %s: %w", field, err)
		}

		if _, err := io.Copy(part, f); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("copy %s: %w", localPath, err)
		}
		_ = f.Close()
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.Endpoint+path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	c.authorize(req)

	return req, nil
}

// do executes the request, checks the status, and decodes the body into out
// (skipped when out is nil).
func (c *Client) do(req *http.Request, wantStatus int, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != wantStatus {
		return decodeServerError(resp)
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// decodeServerError turns a non-success response into an error carrying the
// server's machine-readable code when one is present.
func decodeServerError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var se serverError
	if err := json.Unmarshal(body, &se); err == nil && se.Error != "" {
		return fmt.Errorf("server returned %d (%s): %s", resp.StatusCode, se.Error, se.Message)
	}
	return fmt.Errorf("server returned %d", resp.StatusCode)
}
