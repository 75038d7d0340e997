// Package pinecone implements the vector search provider against Pinecone's
// data-plane REST API using integrated-embedding search (the index embeds the
// query text server-side).
package pinecone

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Config configures the Pinecone client.
//
// Either BaseURL (data-plane host) or Index must be set; with only Index, the
// host is resolved once via the controller API.
type Config struct {
	APIKey            string
	Index             string
	BaseURL           string
	ControllerBaseURL string // Default: https://api.pinecone.io
	Timeout           time.Duration
}

// Client is a Pinecone-backed retrieval client.
type Client struct {
	cfg    Config
	logger *zap.Logger
	client *http.Client

	mu      sync.RWMutex
	baseURL string
}

// NewClient creates a Pinecone retrieval client.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.ControllerBaseURL == "" {
		cfg.ControllerBaseURL = "https://api.pinecone.io"
	}

	return &Client{
		cfg:     cfg,
		logger:  logger.With(zap.String("component", "pinecone")),
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
	}
}

func (c *Client) ensureBaseURL(ctx context.Context) error {
	c.mu.RLock()
	if c.baseURL != "" {
		c.mu.RUnlock()
		return nil
	}
	c.mu.RUnlock()

	if strings.TrimSpace(c.cfg.Index) == "" {
		return fmt.Errorf("pinecone base_url is required when index is empty")
	}
	if strings.TrimSpace(c.cfg.APIKey) == "" {
		return fmt.Errorf("pinecone api_key is required")
	}

	// Resolve host via controller API: GET /indexes/{index}
	controller := strings.TrimRight(strings.TrimSpace(c.cfg.ControllerBaseURL), "/")
	endpoint := fmt.Sprintf("%s/indexes/%s", controller, url.PathEscape(c.cfg.Index))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("Api-Key", c.cfg.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("pinecone controller returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var described struct {
		Host string `json:"host"`
	}
	if err := json.Unmarshal(body, &described); err != nil {
		return fmt.Errorf("failed to decode index description: %w", err)
	}
	if described.Host == "" {
		return fmt.Errorf("pinecone controller returned empty host for index %s", c.cfg.Index)
	}

	c.mu.Lock()
	c.baseURL = "https://" + strings.TrimRight(described.Host, "/")
	c.mu.Unlock()

	c.logger.Info("resolved pinecone data-plane host", zap.String("index", c.cfg.Index))
	return nil
}

type searchRequest struct {
	Query  searchQuery `json:"query"`
	Fields []string    `json:"fields"`
}

type searchQuery struct {
	Inputs map[string]string `json:"inputs"`
	TopK   int               `json:"top_k"`
}

type searchResponse struct {
	Result struct {
		Hits []struct {
			ID     string         `json:"_id"`
			Score  float64        `json:"_score"`
			Fields map[string]any `json:"fields"`
		} `json:"hits"`
	} `json:"result"`
}

// Search runs an integrated-embedding search in the given namespace and
// returns the text of the top-k hits, best first.
func (c *Client) Search(ctx context.Context, namespace, query string, topK int) ([]string, error) {
	if err := c.ensureBaseURL(ctx); err != nil {
		return nil, err
	}

	c.mu.RLock()
	base := c.baseURL
	c.mu.RUnlock()

	endpoint := fmt.Sprintf("%s/records/namespaces/%s/search", base, url.PathEscape(namespace))
	payload, err := json.Marshal(searchRequest{
		Query:  searchQuery{Inputs: map[string]string{"text": query}, TopK: topK},
		Fields: []string{"text"},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("accept", "application/json")
	req.Header.Set("Api-Key", c.cfg.APIKey)
	req.Header.Set("X-Pinecone-API-Version", "2025-01")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pinecone search failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pinecone search returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	passages := make([]string, 0, len(parsed.Result.Hits))
	for _, hit := range parsed.Result.Hits {
		if text, ok := hit.Fields["text"].(string); ok && text != "" {
			passages = append(passages, text)
		}
	}

	c.logger.Debug("pinecone search done",
		zap.String("namespace", namespace),
		zap.Int("hits", len(passages)))

	return passages, nil
}
