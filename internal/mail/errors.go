package mail

import "fmt"

// Validation failure reasons.
const (
	ReasonNoRecipients     = "no recipients"
	ReasonIncompleteServer = "incomplete server config"
	ReasonIncompleteSender = "incomplete sender config"
	ReasonInvalidPort      = "invalid smtp port"
)

// ValidationError is returned before any network activity when a required
// value is missing or malformed.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation: " + e.Reason
}

// AttachmentError records one attachment that could not be read. It never
// aborts a send.
type AttachmentError struct {
	Path string
	Err  error
}

func (e *AttachmentError) Error() string {
	return fmt.Sprintf("attachment %s: %v", e.Path, e.Err)
}

func (e *AttachmentError) Unwrap() error {
	return e.Err
}

// TransmissionError wraps a failure from the SMTP exchange together with
// the step it happened in.
type TransmissionError struct {
	Stage State
	Err   error
}

func (e *TransmissionError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
}

func (e *TransmissionError) Unwrap() error {
	return e.Err
}
