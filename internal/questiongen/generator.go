package questiongen

import "context"

// Generator produces comprehension questions for a passage.
type Generator interface {
	// Generate returns the validated questions for the input. A partial set
	// is returned with Result.Degraded set; an unusable response yields an
	// error matching ErrMalformedResponse.
	Generate(ctx context.Context, input GenerateInput) (Result, error)
}
