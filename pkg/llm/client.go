package llm

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/richxcame/restaurant-backoffice/pkg/config"
	"github.com/richxcame/restaurant-backoffice/pkg/logger"
	"github.com/richxcame/restaurant-backoffice/pkg/resilience"
	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// ErrEmptyResponse is returned when the model produced no choices
var ErrEmptyResponse = errors.New("llm returned no choices")

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "llm_requests_total",
		Help: "Total number of language model requests",
	}, []string{"operation", "outcome"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "llm_request_duration_seconds",
		Help:    "Language model request latency",
		Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30},
	}, []string{"operation"})
)

// Request is a single JSON-mode chat completion
type Request struct {
	Operation        string
	SystemPrompt     string
	UserPrompt       string
	Image            []byte
	ImageContentType string
	MaxTokens        int
}

// Client calls an OpenAI-compatible chat completion API.
// Every call is a single attempt bounded by the configured timeout and guarded by a breaker.
type Client struct {
	api     *openai.Client
	model   string
	timeout time.Duration
	breaker *resilience.CircuitBreaker
}

// NewClient creates a new language model client
func NewClient(cfg config.AIConfig) *Client {
	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = cfg.BaseURL
	}

	breaker := resilience.NewCircuitBreaker(resilience.ModelSettings(), resilience.Degraded("openai"))

	logger.Info("LLM client initialized",
		zap.String("model", cfg.Model),
		zap.Duration("timeout", cfg.Timeout()),
	)

	return &Client{
		api:     openai.NewClientWithConfig(apiCfg),
		model:   cfg.Model,
		timeout: cfg.Timeout(),
		breaker: breaker,
	}
}

// CompleteJSON runs the request in JSON mode and decodes the reply into dest
func (c *Client) CompleteJSON(ctx context.Context, req Request, dest interface{}) error {
	ctx, span := otel.Tracer("llm").Start(ctx, "llm."+req.Operation)
	defer span.End()
	span.SetAttributes(
		attribute.String("llm.model", c.model),
		attribute.Bool("llm.has_image", len(req.Image) > 0),
	)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	_, err := c.breaker.Execute(ctx, func(ctx context.Context) (interface{}, error) {
		content, err := c.complete(ctx, req)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(content), dest); err != nil {
			return nil, fmt.Errorf("decode llm response: %w", err)
		}
		return nil, nil
	})
	requestDuration.WithLabelValues(req.Operation).Observe(time.Since(start).Seconds())

	if err != nil {
		requestsTotal.WithLabelValues(req.Operation, "error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	requestsTotal.WithLabelValues(req.Operation, "success").Inc()
	return nil
}

func (c *Client) complete(ctx context.Context, req Request) (string, error) {
	userMessage := openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.UserPrompt,
	}
	if len(req.Image) > 0 {
		userMessage.Content = ""
		userMessage.MultiContent = []openai.ChatMessagePart{
			{Type: openai.ChatMessagePartTypeText, Text: req.UserPrompt},
			{
				Type: openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{
					URL:    DataURL(req.ImageContentType, req.Image),
					Detail: openai.ImageURLDetailAuto,
				},
			},
		}
	}

	messages := []openai.ChatCompletionMessage{userMessage}
	if req.SystemPrompt != "" {
		messages = append([]openai.ChatCompletionMessage{{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.SystemPrompt,
		}}, messages...)
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     c.model,
		Messages:  messages,
		MaxTokens: req.MaxTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to create completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	logger.WithContext(ctx).Debug("LLM completion generated",
		zap.String("operation", req.Operation),
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
	)

	return resp.Choices[0].Message.Content, nil
}

// DataURL encodes an image as a base64 data URL
func DataURL(contentType string, data []byte) string {
	if contentType == "" || !strings.HasPrefix(contentType, "image/") {
		contentType = "image/jpeg"
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
