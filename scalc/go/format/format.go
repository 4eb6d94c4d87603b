// Package format turns a token stream into printable results.
package format

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"go.scalc.org/scalc/go/skerr"
	"go.scalc.org/scalc/go/tokenizer"
)

// Describer is implemented by token types that can be printed.
type Describer interface {
	// Describe returns the token kind and its value as text.
	Describe() (kind, value string)
}

// skipper is implemented by token types that can be consumed silently.
type skipper interface {
	Skipped() bool
}

// Item is a single scanned token.
type Item struct {
	Text  string `json:"text"`
	Start int    `json:"start"`
	End   int    `json:"end"`
	Kind  string `json:"kind"`
	Value string `json:"value"`
}

// Result is everything produced by one scan.
type Result struct {
	Items []Item `json:"items"`

	// Error is set if scanning stopped before the end of the input.
	Error *tokenizer.LexError `json:"error"`
}

// Collect drains it. Skipped tokens are left out of Items.
func Collect[A Describer](it *tokenizer.Iter[A]) Result {
	ret := Result{
		Items: []Item{},
	}
	for tok, err := range it.All() {
		if err != nil {
			var lexErr *tokenizer.LexError
			if errors.As(err, &lexErr) {
				ret.Error = lexErr
			} else {
				ret.Error = &tokenizer.LexError{Pos: it.Pos()}
			}
			break
		}
		if s, ok := any(tok).(skipper); ok && s.Skipped() {
			continue
		}
		start, end := it.Span()
		kind, value := tok.Describe()
		ret.Items = append(ret.Items, Item{
			Text:  it.Text(),
			Start: start,
			End:   end,
			Kind:  kind,
			Value: value,
		})
	}
	return ret
}

// Format is an output format.
type Format string

const (
	Text  Format = "text"
	Table Format = "table"
	JSON  Format = "json"
)

// AllFormats lists the supported formats.
var AllFormats = []Format{Text, Table, JSON}

// ToFormat converts s to a Format.
func ToFormat(s string) (Format, error) {
	for _, f := range AllFormats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", skerr.Fmt("unknown format %q, want one of %q", s, AllFormats)
}

// Write writes r to w in format f.
func Write(w io.Writer, f Format, r Result) error {
	switch f {
	case Text:
		return WriteText(w, r)
	case Table:
		return WriteTable(w, r)
	case JSON:
		return WriteJSON(w, r)
	}
	return skerr.Fmt("unknown format %q", f)
}

var errorColor = color.New(color.FgRed)

// WriteText writes one line per item, then the error in red if there was one.
func WriteText(w io.Writer, r Result) error {
	for _, item := range r.Items {
		if _, err := fmt.Fprintf(w, "%d-%d\t%s\t%s\n", item.Start, item.End, item.Kind, item.Value); err != nil {
			return skerr.Wrap(err)
		}
	}
	if r.Error != nil {
		if _, err := errorColor.Fprintf(w, "error: %s\n", r.Error); err != nil {
			return skerr.Wrap(err)
		}
	}
	return nil
}

// WriteTable writes the items as an ASCII table.
func WriteTable(w io.Writer, r Result) error {
	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Start", "End", "Kind", "Value"})
	for _, item := range r.Items {
		table.Append([]string{
			strconv.Itoa(item.Start),
			strconv.Itoa(item.End),
			item.Kind,
			item.Value,
		})
	}
	table.Render()
	if r.Error != nil {
		if _, err := errorColor.Fprintf(w, "error: %s\n", r.Error); err != nil {
			return skerr.Wrap(err)
		}
	}
	return nil
}

// WriteJSON writes r as indented JSON.
func WriteJSON(w io.Writer, r Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return skerr.Wrap(enc.Encode(r))
}
