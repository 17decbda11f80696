package llmservice

import (
	"context"
	"fmt"
	"strings"

	"word-qa/internal/config"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"
)

// LangChainClient sends requests through a langchaingo model, for
// OpenAI-compatible endpoints and local Ollama servers.
type LangChainClient struct {
	llm llms.Model
}

func NewLangChainClient(provider string, llmConfig *config.LLMConfig) (*LangChainClient, error) {
	log.Debug().Str("provider", provider).Str("base_url", llmConfig.BaseURL).Msg("Creating langchain client")

	var (
		llm llms.Model
		err error
	)
	switch provider {
	case config.ProviderOpenAI:
		llm, err = openai.New(
			openai.WithBaseURL(llmConfig.BaseURL),
			openai.WithToken(strings.TrimPrefix(llmConfig.Key, "Bearer ")),
		)
	case config.ProviderOllama:
		llm, err = ollama.New(
			ollama.WithServerURL(llmConfig.BaseURL),
		)
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownProvider, provider)
	}
	if err != nil {
		return nil, err
	}
	return &LangChainClient{llm: llm}, nil
}

func (c *LangChainClient) Send(ctx context.Context, r Request) (*Response, error) {
	messages := make([]llms.MessageContent, 0, len(r.Messages))
	for _, m := range r.Messages {
		messages = append(messages, llms.TextParts(chatMessageType(m.Role), m.Content))
	}

	res, err := GenerateContent(ctx, c.llm, messages, llms.WithModel(r.Model), llms.WithMaxTokens(r.MaxTokens))
	if err != nil {
		return nil, classifyError(err)
	}
	if len(res.Choices) == 0 || strings.TrimSpace(res.Choices[0].Content) == "" {
		return nil, ErrEmptyResponse
	}
	return &Response{Model: r.Model, Text: res.Choices[0].Content}, nil
}

// call llm
func GenerateContent(ctx context.Context, llm llms.Model, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	return llm.GenerateContent(ctx, messages, options...)
}

func chatMessageType(role string) schema.ChatMessageType {
	switch role {
	case "assistant":
		return schema.ChatMessageTypeAI
	case "system":
		return schema.ChatMessageTypeSystem
	default:
		return schema.ChatMessageTypeHuman
	}
}

// langchaingo reports HTTP failures as plain errors, so overload is matched on the text.
func classifyError(err error) error {
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "overloaded") || strings.Contains(msg, fmt.Sprint(StatusOverloaded)) {
		return fmt.Errorf("%w: %v", ErrOverloaded, err)
	}
	return err
}
