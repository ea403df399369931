package questiongen

import (
	"errors"
	"fmt"
)

// ErrMalformedResponse is matched by every error reporting that a model
// response held no usable questions.
var ErrMalformedResponse = errors.New("malformed response")

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedResponse, fmt.Sprintf(format, args...))
}
