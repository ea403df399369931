package questiongen

import (
	"context"
	"fmt"

	"github.com/abhisek/lectio/internal/llm"
)

// LLMGenerator implements Generator using the LLM provider.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
}

// New creates a new LLMGenerator with the given provider and config.
func New(provider llm.Provider, cfg Config) *LLMGenerator {
	if cfg.Count <= 0 {
		cfg.Count = DefaultCount
	}
	return &LLMGenerator{provider: provider, config: cfg}
}

// Generate asks the provider for a question set and extracts it.
func (g *LLMGenerator) Generate(ctx context.Context, input GenerateInput) (Result, error) {
	ctx = llm.WithPurpose(ctx, "questions")

	count := input.Count
	if count <= 0 {
		count = g.config.Count
	}

	req := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(input, count)},
		},
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}
	if g.config.StructuredOutput {
		req.Schema = QuestionSetSchema
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return Result{Questions: []Question{}, Expected: count}, fmt.Errorf("generate questions: %w", err)
	}

	ex := &Extractor{validators: g.config.Validators, expected: count}
	res, err := ex.Extract(resp.Text())
	if err != nil {
		return res, fmt.Errorf("extract questions: %w", err)
	}
	return res, nil
}
