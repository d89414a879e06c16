package llm

import (
	"context"
	"time"

	"github.com/RichardoC/advisory-board/internal/advisor"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"
)

// Generator is the part of a langchaingo model the relay depends on.
type Generator interface {
	GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error)
}

// Service relays a single user message to the completion provider. It holds
// no per-conversation state and is safe for concurrent use.
type Service struct {
	llm     Generator
	model   string
	timeout time.Duration
}

type Option func(*Service)

// WithTimeout bounds each relay call. Zero leaves the caller's context as is.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) { s.timeout = d }
}

func New(baseURL, token, model string, opts ...Option) (*Service, error) {
	if model == "" {
		model = advisor.DefaultModel
	}
	if token == "" {
		return NewWithGenerator(missingToken{}, model, opts...), nil
	}

	llm, err := openai.New(
		openai.WithToken(token),
		openai.WithBaseURL(baseURL),
		openai.WithModel(model),
		openai.WithHTTPClient(newProbingClient(nil)),
	)
	if err != nil {
		return nil, err
	}
	return NewWithGenerator(llm, model, opts...), nil
}

func NewWithGenerator(gen Generator, model string, opts ...Option) *Service {
	s := &Service{llm: gen, model: model}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Prompt builds the outbound conversation: the board instruction followed by
// the user's message, untouched.
func Prompt(message string) []llms.MessageContent {
	return []llms.MessageContent{
		llms.TextParts(schema.ChatMessageTypeSystem, advisor.SystemPrompt),
		llms.TextParts(schema.ChatMessageTypeHuman, message),
	}
}

// Relay returns the provider's completion text for message. Failures are
// always an *Error.
func (s *Service) Relay(ctx context.Context, message string) (string, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	ctx, p := withProbe(ctx)

	resp, err := s.llm.GenerateContent(ctx, Prompt(message),
		llms.WithModel(s.model),
		llms.WithTemperature(advisor.Temperature),
		llms.WithMaxTokens(advisor.MaxTokens),
	)
	if err != nil {
		return "", classify(ctx, err, p.Status())
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", &Error{Kind: KindMalformed, Status: p.Status(), Err: errNoChoices}
	}
	return resp.Choices[0].Content, nil
}

type missingToken struct{}

func (missingToken) GenerateContent(context.Context, []llms.MessageContent, ...llms.CallOption) (*llms.ContentResponse, error) {
	return nil, &Error{Kind: KindAuth, Err: errMissingToken}
}
