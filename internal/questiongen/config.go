package questiongen

// Config controls the behavior of the Extractor and LLMGenerator.
type Config struct {
	// Validators is the ordered list of validators run on every extracted
	// element. The first failure drops the element.
	Validators []Validator

	// Count is the number of questions requested per passage.
	Count int

	// MaxTokens is the token budget for the LLM response.
	MaxTokens int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64

	// StructuredOutput asks the provider for schema-constrained JSON.
	// Not every model served through OpenRouter honors it, so it is off
	// by default and the raw content always goes through Extract.
	StructuredOutput bool
}

// DefaultCount is the number of questions asked for per passage.
const DefaultCount = 5

// DefaultConfig returns a Config with the standard validator chain
// and recommended defaults.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			&StructuralValidator{},
			&OptionsValidator{},
			&AnswerValidator{},
			&CategoryValidator{},
		},
		Count:       DefaultCount,
		MaxTokens:   1500,
		Temperature: 0.7,
	}
}
