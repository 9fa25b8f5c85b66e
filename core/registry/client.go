// Package registry downloads the public validator registry, which lists each
// validator's domain, UNL and fee votes.
package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/liamzebedee/feevote-go/core"
	"github.com/liamzebedee/feevote-go/core/feevote"
)

var ErrBadStatus = errors.New("unexpected registry response status")

// Limit on the registry body size. The mainnet registry is well under 1 MB.
const maxBodyBytes = 32 * 1024 * 1024

type Config struct {
	URL       string
	Timeout   time.Duration
	UserAgent string
}

func DefaultConfig() Config {
	return Config{
		URL:       "https://api.xrpscan.com/api/v1/validatorregistry",
		Timeout:   30 * time.Second,
		UserAgent: "feevoted/1.0",
	}
}

var _ feevote.RegistrySource = (*Client)(nil)

type Client struct {
	config Config
	http   *http.Client
	log    *log.Logger
}

func NewClient(config Config) *Client {
	return &Client{
		config: config,
		http:   &http.Client{Timeout: config.Timeout},
		log:    core.NewLogger("registry", ""),
	}
}

// FetchRegistry implements feevote.RegistrySource.
func (c *Client) FetchRegistry(ctx context.Context) ([]feevote.RegistryEntry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.config.UserAgent != "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if len(body) > 256 {
			body = body[:256]
		}
		return nil, fmt.Errorf("%w: status=%d, body=\"%s\"", ErrBadStatus, resp.StatusCode, body)
	}

	var entries []feevote.RegistryEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode registry: %w", err)
	}

	c.log.Printf("Fetched %d registry entries\n", len(entries))
	return entries, nil
}
