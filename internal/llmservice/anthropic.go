package llmservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"word-qa/internal/config"
)

const maxErrorBody = 512

// AnthropicClient talks to the Messages API directly.
type AnthropicClient struct {
	baseURL string
	apiKey  string
	version string
	client  *http.Client
}

type messagesResponse struct {
	Model   string `json:"model"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

func NewAnthropicClient(cfg *config.AnthropicConfig, apiKey string, timeout time.Duration) (*AnthropicClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: %s", config.ErrMissingAPIKey, cfg.APIKeyEnv)
	}
	return &AnthropicClient{
		baseURL: cfg.BaseURL,
		apiKey:  apiKey,
		version: cfg.Version,
		client:  &http.Client{Timeout: timeout},
	}, nil
}

func (c *AnthropicClient) Send(ctx context.Context, r Request) (*Response, error) {
	jsonData, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", c.version)
	req.Header.Set("content-type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := string(body)
		if len(msg) > maxErrorBody {
			msg = msg[:maxErrorBody]
		}
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: msg}
	}

	var out messagesResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if len(out.Content) == 0 || strings.TrimSpace(out.Content[0].Text) == "" {
		return nil, ErrEmptyResponse
	}

	return &Response{Model: out.Model, Text: out.Content[0].Text}, nil
}
