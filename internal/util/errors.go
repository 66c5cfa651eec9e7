package util

import (
	"fmt"
	"io"
	"os"
)

// ErrorContext names the area a failure belongs to in console output.
type ErrorContext string

const (
	ConfigError     ErrorContext = "Config"
	FileError       ErrorContext = "File"
	NetworkError    ErrorContext = "Network"
	ValidationError ErrorContext = "Validation"
	MailError       ErrorContext = "Mail"
)

// errOut is where LogError and LogErrorf print.
var errOut io.Writer = os.Stderr

// FormatError renders "<Context> error: <operation> - <err>".
func FormatError(ctx ErrorContext, operation string, err error) string {
	return FormatErrorf(ctx, operation, "%v", err)
}

func FormatErrorf(ctx ErrorContext, operation string, format string, args ...any) string {
	return fmt.Sprintf("%s error: %s - %s", ctx, operation, fmt.Sprintf(format, args...))
}

// LogError prints the formatted failure in bold red to stderr.
func LogError(ctx ErrorContext, operation string, err error) {
	RedBold.Fprintln(errOut, FormatError(ctx, operation, err))
}

func LogErrorf(ctx ErrorContext, operation string, format string, args ...any) {
	RedBold.Fprintln(errOut, FormatErrorf(ctx, operation, format, args...))
}
