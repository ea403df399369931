package questiongen

import "github.com/abhisek/lectio/internal/llm"

// QuestionSetSchema defines the JSON schema for structured question output.
// Providers require an object at the top level, so the list is wrapped.
var QuestionSetSchema = &llm.Schema{
	Name:        "question-set",
	Description: "Multiple-choice reading comprehension questions about a passage",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"question": map[string]any{
							"type":        "string",
							"description": "The question shown to the student",
						},
						"options": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "string"},
							"minItems":    MinOptions,
							"maxItems":    MaxOptions,
							"description": "Answer choices. Exactly one is correct.",
						},
						"correct": map[string]any{
							"type":        "string",
							"description": "The exact text of the correct option",
						},
						"category": map[string]any{
							"type": "string",
							"enum": []any{"vocabulary", "inference", "critical-thinking"},
						},
					},
					"required":             []any{"question", "options", "correct", "category"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}
