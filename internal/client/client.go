// Package client is an HTTP client for the spoor REST API. It satisfies
// the canvas Store interface, so the TUI can work against a remote
// server exactly as it does against the local database.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/spoor-app/spoor/internal/models"
)

// Client talks to a spoor server.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a Client for the given base URL (e.g. http://127.0.0.1:7807).
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Error string `json:"error"`
		}
		data, _ := io.ReadAll(resp.Body)
		if err := json.Unmarshal(data, &apiErr); err != nil || apiErr.Error == "" {
			apiErr.Error = strings.TrimSpace(string(data))
		}
		return &APIError{StatusCode: resp.StatusCode, Message: apiErr.Error}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// Health checks that the server is reachable.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/api/health", nil, nil)
}

// ListHunts returns all hunts.
func (c *Client) ListHunts(ctx context.Context) ([]models.Hunt, error) {
	var hunts []models.Hunt
	if err := c.do(ctx, http.MethodGet, "/api/hunts", nil, &hunts); err != nil {
		return nil, err
	}
	return hunts, nil
}

// GetHunt fetches a hunt by id.
func (c *Client) GetHunt(ctx context.Context, huntID string) (*models.Hunt, error) {
	var hunt models.Hunt
	if err := c.do(ctx, http.MethodGet, "/api/hunts/"+url.PathEscape(huntID), nil, &hunt); err != nil {
		return nil, err
	}
	return &hunt, nil
}

// CreateHunt creates a hunt and returns the stored record.
func (c *Client) CreateHunt(ctx context.Context, hunt models.Hunt) (*models.Hunt, error) {
	var created models.Hunt
	if err := c.do(ctx, http.MethodPost, "/api/hunts", hunt, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateHunt updates a hunt and returns the stored record.
func (c *Client) UpdateHunt(ctx context.Context, huntID string, hunt models.Hunt) (*models.Hunt, error) {
	var updated models.Hunt
	if err := c.do(ctx, http.MethodPut, "/api/hunts/"+url.PathEscape(huntID), hunt, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteHunt removes a hunt and its nodes and logs.
func (c *Client) DeleteHunt(ctx context.Context, huntID string) error {
	return c.do(ctx, http.MethodDelete, "/api/hunts/"+url.PathEscape(huntID), nil, nil)
}

// ListNodes retrieves all canvas nodes for a hunt.
func (c *Client) ListNodes(ctx context.Context, huntID string) ([]models.Node, error) {
	var nodes []models.Node
	path := "/api/hunts/" + url.PathEscape(huntID) + "/nodes"
	if err := c.do(ctx, http.MethodGet, path, nil, &nodes); err != nil {
		return nil, err
	}
	return nodes, nil
}

// CreateNode persists a draft for a hunt.
func (c *Client) CreateNode(ctx context.Context, huntID string, draft models.NodeDraft) (*models.Node, error) {
	var node models.Node
	path := "/api/hunts/" + url.PathEscape(huntID) + "/nodes"
	if err := c.do(ctx, http.MethodPost, path, draft, &node); err != nil {
		return nil, err
	}
	return &node, nil
}

// UpdateNode replaces a node record.
func (c *Client) UpdateNode(ctx context.Context, nodeID string, node models.Node) (*models.Node, error) {
	var stored models.Node
	if err := c.do(ctx, http.MethodPut, "/api/nodes/"+url.PathEscape(nodeID), node, &stored); err != nil {
		return nil, err
	}
	return &stored, nil
}

// DeleteNode removes a node.
func (c *Client) DeleteNode(ctx context.Context, nodeID string) error {
	return c.do(ctx, http.MethodDelete, "/api/nodes/"+url.PathEscape(nodeID), nil, nil)
}

// ListLogs returns a hunt's log entries, newest first.
func (c *Client) ListLogs(ctx context.Context, huntID string) ([]models.HuntLog, error) {
	var logs []models.HuntLog
	path := "/api/hunts/" + url.PathEscape(huntID) + "/logs"
	if err := c.do(ctx, http.MethodGet, path, nil, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

// CreateLog adds a log entry to a hunt.
func (c *Client) CreateLog(ctx context.Context, huntID string, log models.HuntLog) (*models.HuntLog, error) {
	var created models.HuntLog
	path := "/api/hunts/" + url.PathEscape(huntID) + "/logs"
	if err := c.do(ctx, http.MethodPost, path, log, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// DeleteLog removes a log entry.
func (c *Client) DeleteLog(ctx context.Context, logID string) error {
	return c.do(ctx, http.MethodDelete, "/api/logs/"+url.PathEscape(logID), nil, nil)
}

// SemanticAnalysis holds the clustering result for a hunt.
type SemanticAnalysis struct {
	Clusters []struct {
		Nodes   []models.Node `json:"nodes"`
		CenterX float64       `json:"centerX"`
		CenterY float64       `json:"centerY"`
	} `json:"clusters"`
	Threshold float64 `json:"threshold"`
}

// AnalyzeHunt requests similarity clustering for a hunt's nodes.
func (c *Client) AnalyzeHunt(ctx context.Context, huntID string) (*SemanticAnalysis, error) {
	var analysis SemanticAnalysis
	path := "/api/hunts/" + url.PathEscape(huntID) + "/semantic-analysis"
	if err := c.do(ctx, http.MethodGet, path, nil, &analysis); err != nil {
		return nil, err
	}
	return &analysis, nil
}
