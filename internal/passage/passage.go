package passage

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/abhisek/lectio/internal/leveling"
	"github.com/abhisek/lectio/internal/llm"
)

// ErrEmptyPassage is returned when the model replies with no usable text.
var ErrEmptyPassage = errors.New("generated passage is empty")

// Passage is a generated reading text.
type Passage struct {
	Title string
	Body  string
	Topic string
	Level leveling.Level
}

// Words returns the number of whitespace-separated words in the body.
func (p *Passage) Words() int {
	return len(strings.Fields(p.Body))
}

// Input holds what a passage is generated from.
type Input struct {
	Topic string
	Level leveling.Level
}

// Config holds passage generation settings.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns sensible defaults for passage generation.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   1200,
		Temperature: 0.8,
	}
}

// Service generates passages with an LLM provider.
type Service struct {
	provider llm.Provider
	cfg      Config
}

// NewService creates a passage generation service.
func NewService(provider llm.Provider, cfg Config) *Service {
	return &Service{provider: provider, cfg: cfg}
}

// Generate writes a passage about the topic at the given level.
func (s *Service) Generate(ctx context.Context, input Input) (*Passage, error) {
	topic := strings.TrimSpace(input.Topic)
	if topic == "" {
		return nil, fmt.Errorf("topic is required")
	}

	ctx = llm.WithPurpose(ctx, "passage")

	req := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(topic, input.Level)},
		},
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	}

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("passage generation: %w", err)
	}

	title, body := split(resp.Text())
	if body == "" {
		return nil, ErrEmptyPassage
	}
	if title == "" {
		title = topic
	}

	return &Passage{Title: title, Body: body, Topic: topic, Level: input.Level}, nil
}

var (
	fenceRe   = regexp.MustCompile("(?m)^\\s*```[A-Za-z0-9_-]*\\s*$")
	headingRe = regexp.MustCompile(`^#{1,6}\s+(.+?)\s*#*$`)
)

// split strips code fences and separates a leading markdown heading (or
// bold line) from the body.
func split(raw string) (title, body string) {
	text := strings.TrimSpace(fenceRe.ReplaceAllString(raw, ""))
	if text == "" {
		return "", ""
	}

	first, rest, _ := strings.Cut(text, "\n")
	first = strings.TrimSpace(first)

	if m := headingRe.FindStringSubmatch(first); m != nil {
		return m[1], strings.TrimSpace(rest)
	}
	if len(first) > 4 && strings.HasPrefix(first, "**") && strings.HasSuffix(first, "**") && strings.TrimSpace(rest) != "" {
		return strings.Trim(first, "* "), strings.TrimSpace(rest)
	}
	return "", text
}
