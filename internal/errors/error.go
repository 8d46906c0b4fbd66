package errors

import (
	"fmt"
	"strings"
)

// Category represents the type of error.
type Category string

const (
	CategoryState    Category = "state"
	CategoryBinding  Category = "binding"
	CategoryView     Category = "view"
	CategoryTemplate Category = "template"
	CategoryConfig   Category = "config"
)

// Location represents a position in a template source.
type Location struct {
	File   string
	Line   int
	Column int
}

// String returns the location as a formatted string.
func (l *Location) String() string {
	if l == nil {
		return ""
	}
	if l.Column > 0 {
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// TreeError is a structured error with a registered code.
type TreeError struct {
	// Code is a unique error identifier (e.g., "E101").
	Code string

	// Category is the error type.
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail names the offending feature, property, node or file.
	Detail string

	// Location is the template source position, if any.
	Location *Location

	// Context contains surrounding source lines.
	Context []string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *TreeError) Error() string {
	var b strings.Builder
	if e.Code != "" {
		b.WriteString(e.Code)
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Wrapped != nil {
		b.WriteString(": ")
		b.WriteString(e.Wrapped.Error())
	}
	return b.String()
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *TreeError) Unwrap() error {
	return e.Wrapped
}

// Is reports whether target is a TreeError with the same code. It lets a
// code-only sentinel match every error raised with that code.
func (e *TreeError) Is(target error) bool {
	t, ok := target.(*TreeError)
	if !ok || t.Code == "" {
		return false
	}
	return t.Code == e.Code
}

// WithDetail adds a detailed explanation to the error.
func (e *TreeError) WithDetail(d string) *TreeError {
	e.Detail = d
	return e
}

// WithDetailf adds a formatted detail to the error.
func (e *TreeError) WithDetailf(format string, args ...any) *TreeError {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *TreeError) WithSuggestion(s string) *TreeError {
	e.Suggestion = s
	return e
}

// WithSource points the error at a line and column of an in-memory source
// and captures the surrounding lines.
func (e *TreeError) WithSource(file, source string, line, column int) *TreeError {
	e.Location = &Location{File: file, Line: line, Column: column}
	e.Context = contextLines(source, line)
	return e
}

// Wrap wraps another error.
func (e *TreeError) Wrap(err error) *TreeError {
	e.Wrapped = err
	return e
}

// contextWindow is the number of source lines captured around an error.
const contextWindow = 5

// contextStart returns the first line number captured for targetLine.
func contextStart(targetLine int) int {
	return max(targetLine-contextWindow/2, 1)
}

// contextLines returns up to contextWindow lines centered on targetLine.
func contextLines(source string, targetLine int) []string {
	if source == "" || targetLine <= 0 {
		return nil
	}
	lines := strings.Split(source, "\n")
	start := contextStart(targetLine)
	end := targetLine + contextWindow/2
	if end > len(lines) {
		end = len(lines)
	}
	if start > end {
		return nil
	}
	return append([]string(nil), lines[start-1:end]...)
}

// New creates a TreeError from a registered error code.
func New(code string) *TreeError {
	template, ok := registry[code]
	if !ok {
		return &TreeError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &TreeError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
	}
}

// Newf creates a new TreeError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *TreeError {
	return &TreeError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a TreeError.
func FromError(err error, code string) *TreeError {
	if err == nil {
		return nil
	}
	if te, ok := err.(*TreeError); ok {
		return te
	}
	return New(code).Wrap(err)
}
