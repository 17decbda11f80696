package llmservice

import (
	"context"
	"errors"
	"fmt"
)

// StatusOverloaded is the status the Messages API returns when a model is
// temporarily unable to serve requests.
const StatusOverloaded = 529

var (
	ErrOverloaded    = errors.New("model overloaded")
	ErrDecode        = errors.New("decode response")
	ErrEmptyResponse = errors.New("empty response content")
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is a single-turn completion request.
type Request struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []Message `json:"messages"`
}

type Response struct {
	Model string
	Text  string
}

// Transport sends one request to one model.
type Transport interface {
	Send(ctx context.Context, req Request) (*Response, error)
}

// StatusError is returned for non-200 responses.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request failed: %d, %s", e.StatusCode, e.Body)
}

// Is reports overloaded responses as ErrOverloaded.
func (e *StatusError) Is(target error) bool {
	return target == ErrOverloaded && e.StatusCode == StatusOverloaded
}

func userRequest(model, prompt string, maxTokens int) Request {
	return Request{
		Model:     model,
		MaxTokens: maxTokens,
		Messages:  []Message{{Role: "user", Content: prompt}},
	}
}
