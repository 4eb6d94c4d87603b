// Package tokenizer implements a greedy longest-match tokenizer.
//
// A Parser is an ordered list of rules, each a regular expression and a
// function that converts the matched text into a token of type A. Scanning
// starts at the cursor and tries the longest remaining substring first,
// shrinking it one character at a time until some rule matches the whole
// substring. When several rules match the same substring the rule that was
// registered first wins.
//
//	p := tokenizer.New[string]().
//		Push(`[0-9]+`, func(s string) string { return "num:" + s }).
//		Push(`[+\-*/]`, func(s string) string { return "op:" + s })
//
//	it := p.Parse("125+14")
//	for {
//		tok, err := it.Next()
//		if err == iterator.Done {
//			break
//		}
//		if err != nil {
//			// No rule matches at it.Pos().
//			break
//		}
//		fmt.Println(tok)
//	}
//
// A Parser must not be modified once scanning starts. After that it can be
// shared by any number of Iters, including from different goroutines.
package tokenizer

import (
	"errors"
	"fmt"
	"iter"
	"regexp"
	"unicode/utf8"

	"go.scalc.org/scalc/go/skerr"
	"google.golang.org/api/iterator"
)

// maxRemaining is the most bytes of unconsumed input kept in a LexError.
const maxRemaining = 20

// ErrNoMatch is matched by every *LexError via errors.Is.
var ErrNoMatch = errors.New("no rule matches input")

// LexError is returned by Iter.Next when no rule matches any non-empty
// substring starting at the cursor. It is always the last item of a stream.
type LexError struct {
	// Pos is the byte offset where scanning stopped.
	Pos int `json:"pos"`

	// Remaining is the start of the unconsumed input, truncated.
	Remaining string `json:"remaining"`
}

// Error implements error.
func (e *LexError) Error() string {
	return fmt.Sprintf("no rule matches input at position %d: %q", e.Pos, e.Remaining)
}

// Is allows errors.Is(err, ErrNoMatch).
func (e *LexError) Is(target error) bool {
	return target == ErrNoMatch
}

func newLexError(content string, pos int) *LexError {
	rest := content[pos:]
	if len(rest) > maxRemaining {
		cut := maxRemaining
		for cut > 0 && !utf8.RuneStart(rest[cut]) {
			cut--
		}
		if cut == 0 {
			// Not UTF-8 at all, cut anywhere.
			cut = maxRemaining
		}
		rest = rest[:cut]
	}
	return &LexError{
		Pos:       pos,
		Remaining: rest,
	}
}

type rule[A any] struct {
	pattern string
	re      *regexp.Regexp
	convert func(string) A
}

// Parser is an ordered set of rules. The zero value has no rules and is ready
// to use.
type Parser[A any] struct {
	rules []rule[A]
}

// New returns an empty Parser.
func New[A any]() *Parser[A] {
	return &Parser[A]{}
}

// anchor makes pattern match only the whole candidate, not a part of it.
func anchor(pattern string) string {
	return `^(?:` + pattern + `)$`
}

// Add compiles pattern and appends it to the rule set. It returns an error if
// the pattern doesn't compile or convert is nil.
func (p *Parser[A]) Add(pattern string, convert func(string) A) error {
	if convert == nil {
		return skerr.Fmt("rule %d %q has no converter", len(p.rules), pattern)
	}
	re, err := regexp.Compile(anchor(pattern))
	if err != nil {
		return skerr.Wrapf(err, "compiling rule %d %q", len(p.rules), pattern)
	}
	p.rules = append(p.rules, rule[A]{
		pattern: pattern,
		re:      re,
		convert: convert,
	})
	return nil
}

// Push is like Add but panics on a bad pattern, and returns p so calls can be
// chained. Use it for rules that are fixed at compile time.
func (p *Parser[A]) Push(pattern string, convert func(string) A) *Parser[A] {
	if err := p.Add(pattern, convert); err != nil {
		panic(err.Error())
	}
	return p
}

// Len returns the number of rules.
func (p *Parser[A]) Len() int {
	return len(p.rules)
}

// Patterns returns the rule patterns in registration order, as passed to Add.
func (p *Parser[A]) Patterns() []string {
	ret := make([]string, len(p.rules))
	for i, r := range p.rules {
		ret[i] = r.pattern
	}
	return ret
}

// Parse returns a token stream over content with the cursor at 0.
func (p *Parser[A]) Parse(content string) *Iter[A] {
	return &Iter[A]{
		parser:  p,
		content: content,
	}
}

// Tokenize drains a stream over content. On a LexError it returns the tokens
// scanned before the failure along with the error.
func (p *Parser[A]) Tokenize(content string) ([]A, error) {
	var ret []A
	it := p.Parse(content)
	for {
		tok, err := it.Next()
		if err == iterator.Done {
			return ret, nil
		}
		if err != nil {
			return ret, err
		}
		ret = append(ret, tok)
	}
}

// Iter is a lazy token stream. It is not safe for concurrent use.
type Iter[A any] struct {
	parser  *Parser[A]
	content string

	// pos only moves forward.
	pos int

	// start and end of the last token returned.
	start int
	end   int

	done bool
}

// Next returns the next token. It returns iterator.Done once the input is
// consumed. If no rule matches at the cursor it returns a *LexError, and every
// call after that returns iterator.Done.
func (it *Iter[A]) Next() (A, error) {
	var zero A
	if it.done || it.pos == len(it.content) {
		it.done = true
		return zero, iterator.Done
	}
	for end := len(it.content); end > it.pos; {
		candidate := it.content[it.pos:end]
		for _, r := range it.parser.rules {
			if !r.re.MatchString(candidate) {
				continue
			}
			it.start, it.end = it.pos, end
			it.pos = end
			return r.convert(candidate), nil
		}
		// Shrink by one character. A byte that isn't part of a valid UTF-8
		// sequence counts as a character of width 1.
		_, width := utf8.DecodeLastRuneInString(candidate)
		end -= width
	}
	it.done = true
	return zero, newLexError(it.content, it.pos)
}

// All returns the rest of the stream as a sequence for use with range. A
// failure is yielded as a final (zero, error) pair.
func (it *Iter[A]) All() iter.Seq2[A, error] {
	return func(yield func(A, error) bool) {
		for {
			tok, err := it.Next()
			if err == iterator.Done {
				return
			}
			if !yield(tok, err) || err != nil {
				return
			}
		}
	}
}

// Pos returns the cursor, a byte offset into the input.
func (it *Iter[A]) Pos() int {
	return it.pos
}

// Span returns the byte offsets of the last token returned by Next.
func (it *Iter[A]) Span() (start, end int) {
	return it.start, it.end
}

// Text returns the input text of the last token returned by Next.
func (it *Iter[A]) Text() string {
	return it.content[it.start:it.end]
}
