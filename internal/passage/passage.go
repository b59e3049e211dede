// Package passage validates free-text Bible references.
//
// Validation is purely syntactic: "Mateus 3:11" and "Foo 99:1" are both
// accepted because nothing here knows which books exist.
package passage

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// FormatHint is shown to the user when a reference does not parse.
const FormatHint = "Use: Book Chapter:Verse (e.g. Mateus 3:11, 1 Jo 1:9)"

// Sentinel errors, matched with errors.Is against a *ValidationError.
var (
	ErrEmpty     = errors.New("passage is empty")
	ErrBadFormat = errors.New("passage has an invalid format")
)

// Kind classifies a validation failure.
type Kind int

const (
	KindEmpty Kind = iota
	KindBadFormat
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindBadFormat:
		return "bad_format"
	default:
		return "unknown"
	}
}

// ValidationError reports why an input was rejected.
type ValidationError struct {
	Kind  Kind
	Input string
	Hint  string
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case KindEmpty:
		return "please enter a Bible passage"
	default:
		return fmt.Sprintf("invalid passage %q. %s", e.Input, e.Hint)
	}
}

// Is lets errors.Is match the package sentinels.
func (e *ValidationError) Is(target error) bool {
	switch e.Kind {
	case KindEmpty:
		return target == ErrEmpty
	case KindBadFormat:
		return target == ErrBadFormat
	}
	return false
}

// space matches what browsers treat as whitespace, NBSP and the other
// Unicode separators included; Go's \s alone is ASCII only.
const space = `[\s\p{Z}\x{FEFF}]`

// referencePattern mirrors the accepted shape:
//
//	optional digit prefix ("1 Jo"), book letters incl. Latin-1 accents and
//	periods, mandatory whitespace, chapter, optional [:.]verse[-verse].
var referencePattern = regexp.MustCompile(`^` + space + `*(?:(\d)` + space + `*)?([a-zA-Z\x{00C0}-\x{00FF}.]+)` + space +
	`+(\d+)(?:[:.](\d+)(?:-(\d+))?)?` + space + `*$`)

// Passage is a reference that passed validation.
type Passage struct {
	// Text is the trimmed input, echoed back as the study reference.
	Text       string
	Book       string
	Chapter    int
	VerseStart int
	VerseEnd   int
}

// HasVerses reports whether the reference names at least one verse.
func (p Passage) HasVerses() bool {
	return p.VerseStart > 0
}

func (p Passage) String() string {
	return p.Text
}

// Slug is a path-safe form of the reference: "1 Jo 1:9" -> "1jo-1-9",
// "Gn 1" -> "gn-1", "1Co 13:1-13" -> "1co-13-1-13".
func (p Passage) Slug() string {
	book := strings.ToLower(strings.NewReplacer(" ", "", ".", "").Replace(p.Book))
	s := fmt.Sprintf("%s-%d", book, p.Chapter)
	if p.HasVerses() {
		s += fmt.Sprintf("-%d", p.VerseStart)
		if p.VerseEnd != p.VerseStart {
			s += fmt.Sprintf("-%d", p.VerseEnd)
		}
	}
	return s
}

// Validate checks input against the reference shape.
func Validate(input string) (Passage, error) {
	if strings.TrimFunc(input, isSpace) == "" {
		return Passage{}, &ValidationError{Kind: KindEmpty, Input: input}
	}

	m := referencePattern.FindStringSubmatch(input)
	if m == nil {
		return Passage{}, &ValidationError{Kind: KindBadFormat, Input: input, Hint: FormatHint}
	}

	book := m[2]
	if m[1] != "" {
		book = m[1] + " " + book
	}

	p := Passage{
		Text:    strings.TrimFunc(input, isSpace),
		Book:    book,
		Chapter: atoi(m[3]),
	}
	if m[4] != "" {
		p.VerseStart = atoi(m[4])
		p.VerseEnd = p.VerseStart
	}
	if m[5] != "" {
		p.VerseEnd = atoi(m[5])
	}
	return p, nil
}

func isSpace(r rune) bool {
	return unicode.IsSpace(r) || unicode.Is(unicode.Z, r) || r == '\uFEFF'
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		// the pattern only admits digits; overflow is the only failure
		return 0
	}
	return n
}
