package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/rafiki-work/rafiki-backend/internal/platform/envutil"
	"github.com/rafiki-work/rafiki-backend/internal/platform/logger"
)

var ErrMissingAPIKey = errors.New("missing OPENAI_API_KEY")

// Client is the text-generation backend used by the composer.
type Client interface {
	// Plain text (no schema)
	GenerateText(ctx context.Context, system string, user string) (string, error)
}

type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Timeout     time.Duration
	MaxRetries  int
	MaxTokens   int64
	Temperature *float64
}

// ConfigFromEnv reads OPENAI_* settings. An empty APIKey means no backend.
func ConfigFromEnv() Config {
	cfg := Config{
		APIKey:     strings.TrimSpace(envutil.String("OPENAI_API_KEY", "")),
		BaseURL:    strings.TrimSpace(envutil.String("OPENAI_BASE_URL", "")),
		Model:      strings.TrimSpace(envutil.String("OPENAI_MODEL", "gpt-4o-mini")),
		Timeout:    envutil.Seconds("OPENAI_TIMEOUT_SECONDS", 30*time.Second),
		MaxRetries: envutil.Int("OPENAI_MAX_RETRIES", 2),
		MaxTokens:  int64(envutil.Int("OPENAI_MAX_TOKENS", 4096)),
	}
	switch strings.ToLower(strings.TrimSpace(envutil.String("OPENAI_TEMPERATURE", "0.2"))) {
	case "off", "none", "nil", "false":
	default:
		t := envutil.Float("OPENAI_TEMPERATURE", 0.2)
		cfg.Temperature = &t
	}
	return cfg
}

type client struct {
	log       *logger.Logger
	api       openai.Client
	model     string
	maxTokens int64
	temp      *float64
}

func NewClient(log *logger.Logger, cfg Config) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 4096
	}
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if cfg.BaseURL != "" {
		base := cfg.BaseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		opts = append(opts, option.WithBaseURL(base))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}
	return &client{
		log:       log.With("service", "OpenAIClient"),
		api:       openai.NewClient(opts...),
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		temp:      cfg.Temperature,
	}, nil
}

func (c *client) GenerateText(ctx context.Context, system string, user string) (string, error) {
	params := openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		Model:               openai.ChatModel(c.model),
		MaxCompletionTokens: openai.Int(c.maxTokens),
	}
	if c.temp != nil {
		params.Temperature = openai.Float(*c.temp)
	}

	start := time.Now()
	resp, err := c.api.Chat.Completions.New(ctx, params)
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			c.log.Warn("chat completion failed", "model", c.model, "status", apiErr.StatusCode, "duration_ms", time.Since(start).Milliseconds())
			return "", fmt.Errorf("openai chat completion (%d): %w", apiErr.StatusCode, err)
		}
		c.log.Warn("chat completion failed", "model", c.model, "error", err, "duration_ms", time.Since(start).Milliseconds())
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", errors.New("openai chat completion: no choices")
	}
	c.log.Debug("chat completion ok",
		"model", c.model,
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return resp.Choices[0].Message.Content, nil
}
