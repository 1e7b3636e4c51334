// Package remote implements the storage.KeyValueStore surface on top of the
// Trakaido HTTP API. Each well-known key maps to one endpoint; values cross
// the wire inside the endpoint's JSON envelope ({"stats": ...},
// {"choices": ...}) so the stores see identical bytes from both backends.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/trakaido/trakaido-backend/internal/domain"
	"github.com/trakaido/trakaido-backend/internal/storage"
)

type endpoint struct {
	path     string
	envelope string
}

// Keys the remote API can hold. The storage-mode flag and voice preferences
// are device-local by definition and never leave the local store.
var endpoints = map[string]endpoint{
	storage.KeyJourneyStats:  {path: "/api/trakaido/journeystats/", envelope: "stats"},
	storage.KeyCorpusChoices: {path: "/api/trakaido/corpuschoices/", envelope: "choices"},
}

// Config holds remote client settings.
type Config struct {
	BaseURL        string
	Token          string
	AttemptTimeout time.Duration
	RetryBackoff   time.Duration
	// MaxRetries is the number of additional attempts after the first.
	MaxRetries uint64
}

// Client talks to the remote Trakaido API.
type Client struct {
	cfg  Config
	http *http.Client
	log  *slog.Logger
}

// New creates a remote client.
func New(logger *slog.Logger, cfg Config) *Client {
	if cfg.AttemptTimeout <= 0 {
		cfg.AttemptTimeout = 5 * time.Second
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = 500 * time.Millisecond
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{
		cfg:  cfg,
		http: &http.Client{},
		log:  logger.With("component", "remote_store"),
	}
}

// Read fetches the value stored at key. Absent data (HTTP 404 or a missing
// envelope field) maps to domain.ErrNotFound; transport failures surface as
// errors after the retry budget is spent.
func (c *Client) Read(ctx context.Context, key string) ([]byte, error) {
	ep, ok := endpoints[key]
	if !ok {
		return nil, fmt.Errorf("remote store: key %s: %w", key, domain.ErrNotFound)
	}

	var body []byte
	err := c.do(ctx, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+ep.path, nil)
		if err != nil {
			return err
		}
		c.authorize(req)

		resp, err := c.http.Do(req)
		if err != nil {
			return retry.RetryableError(err)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return fmt.Errorf("remote store: key %s: %w", key, domain.ErrNotFound)
		case resp.StatusCode >= 500:
			return retry.RetryableError(fmt.Errorf("remote store: GET %s: status %d", ep.path, resp.StatusCode))
		case resp.StatusCode != http.StatusOK:
			return fmt.Errorf("remote store: GET %s: status %d", ep.path, resp.StatusCode)
		}

		body, err = io.ReadAll(resp.Body)
		return err
	})
	if err != nil {
		return nil, err
	}

	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return nil, fmt.Errorf("remote store: decode %s: %w", ep.path, err)
	}
	value, ok := wrapped[ep.envelope]
	if !ok {
		return nil, fmt.Errorf("remote store: key %s: missing %q field: %w", key, ep.envelope, domain.ErrNotFound)
	}
	return value, nil
}

// Write stores the value at key via the endpoint's PUT route.
func (c *Client) Write(ctx context.Context, key string, value []byte) error {
	ep, ok := endpoints[key]
	if !ok {
		return fmt.Errorf("remote store: key %s not writable remotely: %w", key, domain.ErrValidation)
	}

	payload, err := json.Marshal(map[string]json.RawMessage{ep.envelope: value})
	if err != nil {
		return fmt.Errorf("remote store: encode %s: %w", key, err)
	}

	return c.do(ctx, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.cfg.BaseURL+ep.path, bytes.NewReader(payload))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		c.authorize(req)

		resp, err := c.http.Do(req)
		if err != nil {
			return retry.RetryableError(err)
		}
		defer resp.Body.Close()
		io.Copy(io.Discard, resp.Body)

		if resp.StatusCode >= 500 {
			return retry.RetryableError(fmt.Errorf("remote store: PUT %s: status %d", ep.path, resp.StatusCode))
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("remote store: PUT %s: status %d", ep.path, resp.StatusCode)
		}
		return nil
	})
}

// do runs fn under the per-attempt timeout with constant-backoff retries.
func (c *Client) do(ctx context.Context, fn func(ctx context.Context) error) error {
	backoff := retry.WithMaxRetries(c.cfg.MaxRetries, retry.NewConstant(c.cfg.RetryBackoff))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		attemptCtx, cancel := context.WithTimeout(ctx, c.cfg.AttemptTimeout)
		defer cancel()
		return fn(attemptCtx)
	})
}

func (c *Client) authorize(req *http.Request) {
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}
}
