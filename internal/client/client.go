// Package client is the typed HTTP client for the project API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// ErrProjectNotFound maps the server's 404 so callers can tell a stale
// project id apart from a transport failure.
var ErrProjectNotFound = errors.New("project not found on server")

// Project is the wire shape of GET /projects/:id.
type Project struct {
	ID    string            `json:"id"`
	Files map[string]string `json:"files"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *zap.Logger
}

func New(baseURL string, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		log: log,
	}
}

// CreateProject asks the server for a fresh project owned by userID and
// returns its id.
func (c *Client) CreateProject(ctx context.Context, userID string) (string, error) {
	body, err := json.Marshal(map[string]string{"userId": userID})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/projects", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("call backend: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return "", statusError(resp)
	}

	var out struct {
		ProjectID string `json:"projectId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	c.log.Debug("project created", zap.String("project_id", out.ProjectID))
	return out.ProjectID, nil
}

// GetProject fetches a project by id. A 404 comes back as ErrProjectNotFound.
func (c *Client) GetProject(ctx context.Context, id string) (*Project, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/projects/"+id, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call backend: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrProjectNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}

	var p Project
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &p, nil
}

// SaveProject submits the complete file set; the server replaces the stored
// mapping wholesale.
func (c *Client) SaveProject(ctx context.Context, id string, files map[string]string) error {
	body, err := json.Marshal(map[string]any{"files": files})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/projects/"+id, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call backend: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrProjectNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}
	return nil
}

func statusError(resp *http.Response) error {
	var out struct {
		Error string `json:"error"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if json.Unmarshal(raw, &out) == nil && out.Error != "" {
		return fmt.Errorf("backend returned status %d: %s", resp.StatusCode, out.Error)
	}
	return fmt.Errorf("backend returned status %d", resp.StatusCode)
}
