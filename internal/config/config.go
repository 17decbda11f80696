package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"word-qa/internal/models"
)

const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
	ProviderOllama    = "ollama"

	defaultAnthropicURL     = "https://api.anthropic.com/v1/messages"
	defaultAnthropicVersion = "2023-06-01"
	defaultAnthropicKeyEnv  = "ANTHROPIC_API_KEY"
	defaultOpenAIURL        = "https://api.openai.com/v1"
	defaultOpenAIKeyEnv     = "OPENAI_API_KEY"
	defaultOllamaURL        = "http://localhost:11434"

	// one token is roughly four characters of English text
	defaultCharsPerToken      = 4
	defaultMaxChunkTokens     = 150000
	defaultChunkMaxTokens     = 1500
	defaultSynthesisMaxTokens = 2000
	defaultTimeoutSecs        = 60
	defaultDataDir            = "data"
	defaultOutputDir          = "output"
	defaultLogLevel           = "info"
)

var (
	ErrMissingAPIKey        = errors.New("API key not found")
	ErrUnknownProvider      = errors.New("provider must be one of: anthropic, openai, ollama")
	ErrNoModels             = errors.New("at least one model is required")
	ErrModelMissingID       = errors.New("model id is required")
	ErrInvalidChunkTokens   = errors.New("chunking.max_chunk_tokens must be at least 1")
	ErrInvalidCharsPerToken = errors.New("chunking.chars_per_token must be at least 1")
	ErrInvalidMaxTokens     = errors.New("answer max tokens must be at least 1")
	ErrInvalidWordLimit     = errors.New("answer.word_limit must be at least 1")
	ErrInvalidTimeout       = errors.New("timeout_secs must be at least 1")
	ErrInvalidLogLevel      = errors.New("logging.level must be one of: debug, info, warn, error")
)

var (
	DefaultEnvFiles   = []string{".env", "../.env"}
	DefaultCandidates = []models.Candidate{
		{ID: "claude-sonnet-4-20250514", DisplayName: "Claude 4 Sonnet"},
		{ID: "claude-3-5-sonnet-20241022", DisplayName: "Claude 3.5 Sonnet"},
	}
)

type Config struct {
	Provider    string             `yaml:"provider"`
	Anthropic   AnthropicConfig    `yaml:"anthropic"`
	LLM         LLMConfig          `yaml:"llm"`
	Models      []models.Candidate `yaml:"models"`
	Chunking    ChunkingConfig     `yaml:"chunking"`
	Answer      AnswerConfig       `yaml:"answer"`
	TimeoutSecs int                `yaml:"timeout_secs"`
	DataDir     string             `yaml:"data_dir"`
	OutputDir   string             `yaml:"output_dir"`
	Database    DatabaseConfig     `yaml:"database"`
	Logging     LoggingConfig      `yaml:"logging"`
}

// AnthropicConfig configures the Messages API transport.
type AnthropicConfig struct {
	BaseURL   string `yaml:"base_url"`
	APIKeyEnv string `yaml:"api_key_env"`
	Version   string `yaml:"version"`
}

// LLMConfig configures the langchaingo backed transports (openai, ollama).
type LLMConfig struct {
	BaseURL string `yaml:"base_url"`
	KeyEnv  string `yaml:"key_env"`
	Key     string `yaml:"-"`
}

type ChunkingConfig struct {
	MaxChunkTokens int `yaml:"max_chunk_tokens"`
	CharsPerToken  int `yaml:"chars_per_token"`
}

type AnswerConfig struct {
	ChunkMaxTokens     int `yaml:"chunk_max_tokens"`
	SynthesisMaxTokens int `yaml:"synthesis_max_tokens"`
	WordLimit          int `yaml:"word_limit"`
}

// DatabaseConfig enables run history when DSN is set.
type DatabaseConfig struct {
	DSN   string `yaml:"dsn"`
	Debug bool   `yaml:"debug"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// LoadConfig reads the YAML config at path. A missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			log.Debug().Str("path", path).Msg("Config file not found, using defaults")
		case err != nil:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse YAML: %w", err)
			}
		}
	}

	applyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Provider == "" {
		cfg.Provider = ProviderAnthropic
	}
	if cfg.Anthropic.BaseURL == "" {
		cfg.Anthropic.BaseURL = defaultAnthropicURL
	}
	if cfg.Anthropic.APIKeyEnv == "" {
		cfg.Anthropic.APIKeyEnv = defaultAnthropicKeyEnv
	}
	if cfg.Anthropic.Version == "" {
		cfg.Anthropic.Version = defaultAnthropicVersion
	}
	switch cfg.Provider {
	case ProviderOpenAI:
		if cfg.LLM.BaseURL == "" {
			cfg.LLM.BaseURL = defaultOpenAIURL
		}
		if cfg.LLM.KeyEnv == "" {
			cfg.LLM.KeyEnv = defaultOpenAIKeyEnv
		}
	case ProviderOllama:
		if cfg.LLM.BaseURL == "" {
			cfg.LLM.BaseURL = defaultOllamaURL
		}
	}
	if len(cfg.Models) == 0 {
		cfg.Models = append([]models.Candidate(nil), DefaultCandidates...)
	}
	for i := range cfg.Models {
		if cfg.Models[i].DisplayName == "" {
			cfg.Models[i].DisplayName = cfg.Models[i].ID
		}
	}
	if cfg.Chunking.MaxChunkTokens == 0 {
		cfg.Chunking.MaxChunkTokens = defaultMaxChunkTokens
	}
	if cfg.Chunking.CharsPerToken == 0 {
		cfg.Chunking.CharsPerToken = defaultCharsPerToken
	}
	if cfg.Answer.ChunkMaxTokens == 0 {
		cfg.Answer.ChunkMaxTokens = defaultChunkMaxTokens
	}
	if cfg.Answer.SynthesisMaxTokens == 0 {
		cfg.Answer.SynthesisMaxTokens = defaultSynthesisMaxTokens
	}
	if cfg.Answer.WordLimit == 0 {
		cfg.Answer.WordLimit = models.DefaultWordLimit
	}
	if cfg.TimeoutSecs == 0 {
		cfg.TimeoutSecs = defaultTimeoutSecs
	}
	if cfg.DataDir == "" {
		cfg.DataDir = defaultDataDir
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = defaultOutputDir
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = defaultLogLevel
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderAnthropic, ProviderOpenAI, ProviderOllama:
	default:
		return fmt.Errorf("%w: got %q", ErrUnknownProvider, c.Provider)
	}

	if len(c.Models) == 0 {
		return ErrNoModels
	}
	for i, m := range c.Models {
		if strings.TrimSpace(m.ID) == "" {
			return fmt.Errorf("%w: models[%d]", ErrModelMissingID, i)
		}
	}

	if c.Chunking.MaxChunkTokens < 1 {
		return ErrInvalidChunkTokens
	}
	if c.Chunking.CharsPerToken < 1 {
		return ErrInvalidCharsPerToken
	}
	if c.Answer.ChunkMaxTokens < 1 || c.Answer.SynthesisMaxTokens < 1 {
		return ErrInvalidMaxTokens
	}
	if c.Answer.WordLimit < 1 {
		return ErrInvalidWordLimit
	}
	if c.TimeoutSecs < 1 {
		return ErrInvalidTimeout
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return ErrInvalidLogLevel
	}

	return nil
}

// ChunkBudget is the per-chunk character budget derived from the token ceiling.
func (c *Config) ChunkBudget() int {
	return c.Chunking.MaxChunkTokens * c.Chunking.CharsPerToken
}

// Timeout is the bound applied to each outbound model request.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}

// LogLevel returns the zerolog level for logging.level.
func (c *Config) LogLevel() zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(c.Logging.Level))
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}

// APIKeyEnv names the environment variable holding the credential for the
// configured provider. It is empty when the provider needs none.
func (c *Config) APIKeyEnv() string {
	switch c.Provider {
	case ProviderAnthropic:
		return c.Anthropic.APIKeyEnv
	default:
		return c.LLM.KeyEnv
	}
}

// LoadAPIKey reads envName after loading DefaultEnvFiles.
func LoadAPIKey(envName string) (string, error) {
	return LoadAPIKeyFrom(envName, DefaultEnvFiles...)
}

// LoadAPIKeyFrom loads the given .env files, which never override variables
// already set, and returns the value of envName.
func LoadAPIKeyFrom(envName string, files ...string) (string, error) {
	for _, f := range files {
		if err := godotenv.Load(f); err == nil {
			log.Debug().Str("path", f).Msg("Loaded env file")
		}
	}

	key := strings.TrimSpace(os.Getenv(envName))
	if key == "" {
		return "", fmt.Errorf("%w: set %s in the environment or in a .env file", ErrMissingAPIKey, envName)
	}
	return key, nil
}
