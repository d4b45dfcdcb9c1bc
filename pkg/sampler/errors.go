package sampler

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidURL        = errors.New("invalid url")
	ErrUnsupportedScheme = errors.New("unsupported url scheme")
	ErrNavigation        = errors.New("navigation failed")
	ErrTimeout           = errors.New("sampling timed out")
	ErrEvaluation        = errors.New("style evaluation failed")
)

// Code is a stable lowercase identifier for a sampling failure.
type Code string

const (
	CodeInvalidURL        Code = "invalid_url"
	CodeUnsupportedScheme Code = "unsupported_scheme"
	CodeNavigation        Code = "navigation_failed"
	CodeTimeout           Code = "timeout"
	CodeEvaluation        Code = "evaluation_failed"
	CodeFailed            Code = "failed"
)

// Error describes why a page could not be sampled.
type Error struct {
	Code Code
	URL  string
	Err  error
}

func (e *Error) Error() string {
	if e.URL == "" {
		return fmt.Sprintf("sampler: %s: %v", e.Code, e.Err)
	}
	return fmt.Sprintf("sampler: %s %s: %v", e.Code, e.URL, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the sentinel that corresponds to e.Code.
func (e *Error) Is(target error) bool {
	return codeSentinel[e.Code] == target
}

var codeSentinel = map[Code]error{
	CodeInvalidURL:        ErrInvalidURL,
	CodeUnsupportedScheme: ErrUnsupportedScheme,
	CodeNavigation:        ErrNavigation,
	CodeTimeout:           ErrTimeout,
	CodeEvaluation:        ErrEvaluation,
}

func newError(code Code, url string, err error) *Error {
	return &Error{Code: code, URL: url, Err: err}
}

// Describe is the user-facing explanation of a failure.
type Describe struct {
	Code    Code
	Title   string
	Message string
	Hint    string
}

// Explain turns any error returned by a Sampler into a user-facing
// description. Unknown errors map to CodeFailed.
func Explain(err error) Describe {
	var se *Error
	code := CodeFailed
	if errors.As(err, &se) {
		code = se.Code
	} else {
		for c, sentinel := range codeSentinel {
			if errors.Is(err, sentinel) {
				code = c
				break
			}
		}
	}

	d := Describe{Code: code}
	switch code {
	case CodeInvalidURL:
		d.Title = "That doesn't look like a website"
		d.Message = "Enter a valid domain like example.com."
	case CodeUnsupportedScheme:
		d.Title = "Only web pages are supported"
		d.Message = "Use an http:// or https:// address."
	case CodeNavigation:
		d.Title = "We couldn't reach this site"
		d.Message = "The page failed to load."
		d.Hint = "Check the address, or the site may be blocking automated browsers."
	case CodeTimeout:
		d.Title = "This site took too long"
		d.Message = "The page did not finish loading in time."
		d.Hint = "Heavy pages sometimes time out. Try again or try a lighter page."
	case CodeEvaluation:
		d.Title = "We couldn't read this page's styles"
		d.Message = "The page loaded but its styles could not be sampled."
	default:
		d.Title = "We couldn't extract this site"
		d.Message = "Try another website and try again."
	}
	return d
}
