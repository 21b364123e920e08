package olxgpu

import (
	"errors"
	"fmt"
	"strings"
)

// Application error codes.
const (
	EINTERNAL = "internal"
	EINVALID  = "invalid"
	ENOTFOUND = "not_found"
)

// Error represents an application-specific error. Application errors can be
// unwrapped by the caller to extract out the code & message.
type Error struct {
	Code    string
	Message string
}

// Error implements the error interface. Not used by the application otherwise.
func (e *Error) Error() string {
	return fmt.Sprintf("olxgpu error: code=%s message=%s", e.Code, e.Message)
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors always return "Internal error".
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}

// Errorf is a helper function to return an Error with a given code and formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// ErrBarter marks an offer that asks for a trade instead of a price.
// Such offers are excluded from the dataset.
var ErrBarter = errors.New("barter offer")

// FetchError is returned when a page could not be fetched within the retry budget.
type FetchError struct {
	URL      string
	Attempts int
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: giving up after %d attempts: %v", e.URL, e.Attempts, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// NoMatchError is returned when no catalog model occurs in a title.
// Suggestion holds the most similar catalog model, if any, for diagnostics.
type NoMatchError struct {
	Title      string
	Suggestion string
}

func (e *NoMatchError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("no model matches %q (closest: %s)", e.Title, e.Suggestion)
	}
	return fmt.Sprintf("no model matches %q", e.Title)
}

// AmbiguousMatchError is returned when several catalog models of equal
// length occur in a title.
type AmbiguousMatchError struct {
	Title      string
	Candidates []string
}

func (e *AmbiguousMatchError) Error() string {
	return fmt.Sprintf("ambiguous model for %q: %s", e.Title, strings.Join(e.Candidates, ", "))
}

// InvalidPriceError is returned when price text does not reduce to digits.
type InvalidPriceError struct {
	Text string
}

func (e *InvalidPriceError) Error() string {
	return fmt.Sprintf("invalid price %q", e.Text)
}

// CatalogLoadError is returned when the model catalog cannot be loaded.
type CatalogLoadError struct {
	Source string
	Err    error
}

func (e *CatalogLoadError) Error() string {
	return fmt.Sprintf("load catalog %s: %v", e.Source, e.Err)
}

func (e *CatalogLoadError) Unwrap() error {
	return e.Err
}
