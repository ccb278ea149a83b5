// Package openai implements a client for OpenAI-compatible chat
// completion endpoints.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/time/rate"

	"github.com/tildaslashalef/remediator/internal/config"
	"github.com/tildaslashalef/remediator/internal/loggy"
)

// chatCompletionsPath is the fixed path appended to the configured base URL
const chatCompletionsPath = "/chat/completions"

// Client is an OpenAI-compatible chat completions API client
type Client struct {
	apiKey           string
	baseURL          string
	defaultModel     string
	httpClient       *http.Client
	maxRetries       int
	defaultMaxTokens int
	limiter          *rate.Limiter
}

// NewClient creates a new client from config
func NewClient(cfg config.OpenAIConfig) *Client {
	// Ensure baseURL doesn't end with a slash
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")

	defaultModel := cfg.Model
	if defaultModel == "" {
		defaultModel = "gpt-4.1-nano"
	}

	defaultMaxTokens := cfg.MaxTokens
	if defaultMaxTokens <= 0 {
		defaultMaxTokens = 2048
	}

	return &Client{
		apiKey:           cfg.APIKey,
		baseURL:          baseURL,
		defaultModel:     defaultModel,
		httpClient:       &http.Client{Timeout: cfg.Timeout},
		maxRetries:       cfg.MaxRetries,
		defaultMaxTokens: defaultMaxTokens,
		limiter:          newLimiter(cfg.RequestsPerMinute, cfg.BurstLimit),
	}
}

// newLimiter creates a rate limiter from RPM and burst values.
// RPM <= 0 means unlimited.
func newLimiter(rpm, burst int) *rate.Limiter {
	if rpm <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	b := burst
	if b <= 0 {
		b = 1
	}
	return rate.NewLimiter(rate.Limit(float64(rpm)/60.0), b)
}

// Model returns the model identifier the client sends by default
func (c *Client) Model() string {
	return c.defaultModel
}

// GenerateChat sends a chat completion request
func (c *Client) GenerateChat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	// Set default model if none specified
	if req.Model == "" {
		req.Model = c.defaultModel
	}

	// Set default max tokens if none specified
	if req.MaxTokens <= 0 {
		req.MaxTokens = c.defaultMaxTokens
	}

	// Force stream to false, this client is synchronous only
	req.Stream = false

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("waiting for rate limiter: %w", err)
	}

	var resp ChatResponse
	if err := c.makeRequest(ctx, http.MethodPost, chatCompletionsPath, req, &resp); err != nil {
		return nil, fmt.Errorf("generating chat completion: %w", err)
	}

	return &resp, nil
}

// makeRequest is a helper function to make HTTP requests.
// The retry budget is applied with exponential backoff; with maxRetries 0
// (the default) exactly one attempt is made.
func (c *Client) makeRequest(ctx context.Context, method, path string, body interface{}, response interface{}) error {
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshaling request body: %w", err)
	}

	url := fmt.Sprintf("%s%s", c.baseURL, path)

	loggy.Debug("sending completion request",
		"method", method,
		"url", url,
		"body_bytes", len(bodyBytes))

	var lastErr error
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(bodyBytes))
		if err != nil {
			return backoff.Permanent(fmt.Errorf("creating request: %w", err))
		}

		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("sending request: %w", err)
			return lastErr
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			lastErr = fmt.Errorf("reading response body: %w", err)
			return lastErr
		}

		loggy.Debug("completion response",
			"status", resp.Status,
			"content_length", len(respBody))

		if resp.StatusCode != http.StatusOK {
			loggy.Error("completion endpoint returned an error",
				"status", resp.Status,
				"body", string(respBody))

			lastErr = c.handleErrorResponse(resp, respBody)
			return lastErr
		}

		if err := json.Unmarshal(respBody, response); err != nil {
			lastErr = fmt.Errorf("decoding response: %w", err)
			return backoff.Permanent(lastErr)
		}

		return nil
	}

	err = backoff.Retry(operation, backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(c.maxRetries)), ctx))
	if err != nil {
		if lastErr != nil {
			return lastErr
		}
		return err
	}

	return nil
}

// handleErrorResponse processes error responses from the API.
// It attempts to parse the error JSON and return a structured error.
func (c *Client) handleErrorResponse(resp *http.Response, body []byte) error {
	var apiErr APIError
	if err := json.Unmarshal(body, &apiErr); err != nil || apiErr.ErrorDetails.Message == "" {
		return fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	apiErr.StatusCode = resp.StatusCode
	return &apiErr
}
