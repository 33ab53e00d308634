// Package twelvelabs implements ingest.Provider against the Twelve Labs REST API.
package twelvelabs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aretw0/vidnote/pkg/core"
	"github.com/aretw0/vidnote/pkg/ingest"
)

const (
	// DefaultBaseURL is the v1.2 API root.
	DefaultBaseURL = "https://api.twelvelabs.io/v1.2"
	defaultTimeout = 60 * time.Second
	maxErrorBody   = 4 << 10
)

// Engine selects a model and the modalities it indexes.
type Engine struct {
	Name    string   `json:"engine_name"`
	Options []string `json:"engine_options"`
}

// DefaultEngines pairs a generative engine with a search engine.
func DefaultEngines() []Engine {
	return []Engine{
		{Name: "pegasus1.1", Options: []string{"visual", "conversation"}},
		{Name: "marengo2.6", Options: []string{"visual", "conversation", "text_in_video", "logo"}},
	}
}

// Config holds the configuration for the API client.
type Config struct {
	APIKey     string
	BaseURL    string
	Engines    []Engine
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client is an ingest.Provider backed by HTTP calls.
type Client struct {
	apiKey  string
	baseURL string
	engines []Engine
	http    *http.Client
	logger  *slog.Logger
}

var _ ingest.Provider = (*Client)(nil)

// New creates a Client. An empty BaseURL selects DefaultBaseURL.
func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("twelvelabs: API key is required")
	}
	c := &Client{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		engines: cfg.Engines,
		http:    cfg.HTTPClient,
		logger:  cfg.Logger,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if len(c.engines) == 0 {
		c.engines = DefaultEngines()
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: defaultTimeout}
	}
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}
	return c, nil
}

type createIndexRequest struct {
	Name    string   `json:"index_name"`
	Engines []Engine `json:"engines"`
}

type idResponse struct {
	ID string `json:"_id"`
}

// CreateIndex implements ingest.Provider.
func (c *Client) CreateIndex(ctx context.Context, name string) (string, error) {
	var out idResponse
	if err := c.do(ctx, http.MethodPost, "/indexes", createIndexRequest{Name: name, Engines: c.engines}, &out); err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", fmt.Errorf("twelvelabs: create index returned no id")
	}
	return out.ID, nil
}

type externalProviderRequest struct {
	IndexID string `json:"index_id"`
	URL     string `json:"url"`
}

// SubmitURL implements ingest.Provider.
func (c *Client) SubmitURL(ctx context.Context, indexID, videoURL string) (string, error) {
	var out idResponse
	if err := c.do(ctx, http.MethodPost, "/tasks/external-provider", externalProviderRequest{IndexID: indexID, URL: videoURL}, &out); err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", fmt.Errorf("twelvelabs: submit returned no task id")
	}
	return out.ID, nil
}

type taskResponse struct {
	ID      string `json:"_id"`
	IndexID string `json:"index_id"`
	VideoID string `json:"video_id"`
	Status  string `json:"status"`
}

// TaskStatus implements ingest.Provider.
func (c *Client) TaskStatus(ctx context.Context, taskID string) (core.IngestionTask, error) {
	var out taskResponse
	if err := c.do(ctx, http.MethodGet, "/tasks/"+url.PathEscape(taskID), nil, &out); err != nil {
		return core.IngestionTask{}, err
	}
	task := core.IngestionTask{
		TaskID:         taskID,
		IndexID:        out.IndexID,
		Status:         MapStatus(out.Status),
		ProviderStatus: out.Status,
	}
	if task.Status == core.TaskReady {
		task.AssetID = out.VideoID
	}
	return task, nil
}

type generateRequest struct {
	VideoID string `json:"video_id"`
	Prompt  string `json:"prompt"`
}

type generateResponse struct {
	ID   string `json:"id"`
	Data string `json:"data"`
}

// GenerateText implements ingest.Provider.
func (c *Client) GenerateText(ctx context.Context, assetID, prompt string) (string, error) {
	var out generateResponse
	if err := c.do(ctx, http.MethodPost, "/generate", generateRequest{VideoID: assetID, Prompt: prompt}, &out); err != nil {
		return "", err
	}
	return out.Data, nil
}

// MapStatus folds the provider's task statuses into the ingestion lifecycle.
func MapStatus(status string) core.TaskStatus {
	switch strings.ToLower(status) {
	case "ready":
		return core.TaskReady
	case "failed":
		return core.TaskFailed
	default:
		// validating, pending, queued, indexing
		return core.TaskProcessing
	}
}

// APIError is a non-2xx response.
type APIError struct {
	StatusCode int
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("twelvelabs: HTTP %d %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("twelvelabs: HTTP %d", e.StatusCode)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("twelvelabs: encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("twelvelabs: build request: %w", err)
	}
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug("twelvelabs request", "method", method, "path", path)
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("twelvelabs: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		_ = json.Unmarshal(data, apiErr)
		return apiErr
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("twelvelabs: decode %s response: %w", path, err)
	}
	return nil
}
