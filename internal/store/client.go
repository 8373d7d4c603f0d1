package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Config carries the connection settings for the hosted backend.
type Config struct {
	Endpoint   string // e.g. https://backend.example.com/v1
	ProjectID  string
	DatabaseID string
	APIKey     string
	Timeout    time.Duration
}

// Client is the HTTP implementation of Store. It is stateless apart from the
// underlying http.Client and safe for concurrent use.
type Client struct {
	cfg  Config
	http *http.Client
	log  zerolog.Logger
}

// NewClient builds a store client. The caller owns the lifecycle; construct
// once at startup and pass it down.
func NewClient(cfg Config, logger zerolog.Logger) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("store endpoint is required")
	}
	if cfg.ProjectID == "" {
		return nil, fmt.Errorf("store project id is required")
	}
	if cfg.DatabaseID == "" {
		cfg.DatabaseID = "main"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
		log:  logger.With().Str("module", "store").Logger(),
	}, nil
}

var _ Store = (*Client)(nil)

// listResponse is the envelope the backend wraps list results in.
type listResponse struct {
	Total     int               `json:"total"`
	Documents []json.RawMessage `json:"documents"`
}

func (c *Client) ListDocuments(ctx context.Context, collection string, q Query) ([]json.RawMessage, error) {
	u := c.documentsURL(collection, "")
	params := url.Values{}
	for _, qs := range encodeQuery(q) {
		params.Add("queries[]", qs)
	}
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	body, err := c.do(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	var resp listResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("store: decode list response for %s: %w", collection, err)
	}
	return resp.Documents, nil
}

func (c *Client) CreateDocument(ctx context.Context, collection, id string, data any) (json.RawMessage, error) {
	if id == "" {
		id = uuid.NewString()
	}
	payload := map[string]any{
		"documentId": id,
		"data":       data,
	}
	return c.do(ctx, http.MethodPost, c.documentsURL(collection, ""), payload)
}

func (c *Client) UpdateDocument(ctx context.Context, collection, id string, data any) (json.RawMessage, error) {
	payload := map[string]any{"data": data}
	return c.do(ctx, http.MethodPatch, c.documentsURL(collection, id), payload)
}

func (c *Client) DeleteDocument(ctx context.Context, collection, id string) error {
	_, err := c.do(ctx, http.MethodDelete, c.documentsURL(collection, id), nil)
	return err
}

// Ping checks backend health for readiness probes.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, c.cfg.Endpoint+"/health", nil)
	return err
}

func (c *Client) documentsURL(collection, id string) string {
	u := fmt.Sprintf("%s/databases/%s/collections/%s/documents",
		c.cfg.Endpoint, url.PathEscape(c.cfg.DatabaseID), url.PathEscape(collection))
	if id != "" {
		u += "/" + url.PathEscape(id)
	}
	return u
}

func (c *Client) do(ctx context.Context, method, u string, payload any) (json.RawMessage, error) {
	var body io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("store: encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("store: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Project-ID", c.cfg.ProjectID)
	if c.cfg.APIKey != "" {
		req.Header.Set("X-API-Key", c.cfg.APIKey)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("store: %s %s: %w", method, u, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("store: read response: %w", err)
	}

	c.log.Trace().
		Str("method", method).
		Str("url", u).
		Int("status", resp.StatusCode).
		Dur("took", time.Since(start)).
		Msg("store request")

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Type    string `json:"type"`
			Message string `json:"message"`
		}
		_ = json.Unmarshal(raw, &apiErr)
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return nil, newAPIError(resp.StatusCode, apiErr.Type, apiErr.Message)
	}
	return raw, nil
}

// encodeQuery renders filters and orderings in the backend's query syntax,
// e.g. equal("channelId", ["abc"]) and orderDesc("$createdAt").
func encodeQuery(q Query) []string {
	out := make([]string, 0, len(q.Filters)+len(q.Order))
	for _, f := range q.Filters {
		val, err := json.Marshal([]any{f.Value})
		if err != nil {
			continue
		}
		out = append(out, fmt.Sprintf("equal(%q, %s)", f.Field, val))
	}
	for _, o := range q.Order {
		if o.Desc {
			out = append(out, fmt.Sprintf("orderDesc(%q)", o.Field))
		} else {
			out = append(out, fmt.Sprintf("orderAsc(%q)", o.Field))
		}
	}
	return out
}
