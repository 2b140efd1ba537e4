package parser

import (
	"context"
	"fmt"
	"unicode/utf8"
)

type Type = string

var (
	Paragraphs  = Type("paragraphs")
	Readability = Type("readability")
)

// Parser turns a page URL into article text.
type Parser interface {
	Parse(ctx context.Context, url string) Result
}

// Failure names why a page produced no usable text. The zero value means success.
type Failure string

const (
	AccessRestricted Failure = "access_restricted"
	NoContent        Failure = "no_content"
	FetchError       Failure = "error"
)

// Result carries either extracted text or a typed failure, never both.
type Result struct {
	Text    string
	Failure Failure
	Err     error // set for FetchError
}

func Success(text string) Result {
	return Result{Text: text}
}

func Failed(reason Failure, err error) Result {
	return Result{Failure: reason, Err: err}
}

func (r Result) OK() bool {
	return r.Failure == ""
}

// String renders the text, or the in-band marker shown to the summarizer and the user.
func (r Result) String() string {
	switch r.Failure {
	case "":
		return r.Text
	case AccessRestricted:
		return "content fetch failed (access restricted)"
	case NoContent:
		return "content fetch failed (no content)"
	default:
		if r.Err != nil {
			return fmt.Sprintf("content fetch failed (error: %s)", r.Err)
		}
		return "content fetch failed (error)"
	}
}

// Truncate cuts s to at most limit characters (runes, not bytes).
func Truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}
