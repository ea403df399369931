package reading

import (
	"time"

	"github.com/abhisek/lectio/internal/practice"
)

// sessionReadyMsg is sent when the passage and questions were generated.
type sessionReadyMsg struct {
	Session *practice.Session
	Err     error
}

// submittedMsg is sent when the answers were graded.
type submittedMsg struct {
	Outcome *practice.Outcome
	Err     error
}

// spinnerTickMsg animates the loading spinner.
type spinnerTickMsg time.Time
