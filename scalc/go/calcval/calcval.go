// Package calcval defines the tokens of the calculator and the rule set that
// produces them.
package calcval

import (
	"fmt"
	"io"
	"strconv"
	"unicode/utf8"

	"go.scalc.org/scalc/go/skerr"
	"go.scalc.org/scalc/go/sklog"
	"go.scalc.org/scalc/go/tokenizer"
)

// Kind tags a CalcVal.
type Kind int

const (
	Number Kind = iota
	Operator
	Error
)

func (k Kind) String() string {
	switch k {
	case Number:
		return "Number"
	case Operator:
		return "Operator"
	default:
		return "Error"
	}
}

// CalcVal is a single calculator token. Only the field matching Kind is set.
type CalcVal struct {
	Kind Kind
	Num  int64
	Op   rune
	Msg  string
}

// NewNumber returns Number(n).
func NewNumber(n int64) CalcVal {
	return CalcVal{Kind: Number, Num: n}
}

// NewOperator returns Operator(op).
func NewOperator(op rune) CalcVal {
	return CalcVal{Kind: Operator, Op: op}
}

// NewError returns Error(msg).
func NewError(msg string) CalcVal {
	return CalcVal{Kind: Error, Msg: msg}
}

// String renders the value as e.g. Number(125), Operator('+').
func (v CalcVal) String() string {
	switch v.Kind {
	case Number:
		return fmt.Sprintf("Number(%d)", v.Num)
	case Operator:
		return fmt.Sprintf("Operator(%q)", v.Op)
	default:
		return fmt.Sprintf("Error(%q)", v.Msg)
	}
}

// Describe returns the kind name and the value as text.
func (v CalcVal) Describe() (string, string) {
	switch v.Kind {
	case Number:
		return v.Kind.String(), strconv.FormatInt(v.Num, 10)
	case Operator:
		return v.Kind.String(), string(v.Op)
	default:
		return v.Kind.String(), v.Msg
	}
}

// Patterns of the calculator rules, in priority order.
const (
	NumberPattern   = `[0-9]+`
	OperatorPattern = `[+\-*/]`
)

func convertNumber(s string) CalcVal {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return NewError("Unable to parse integer: " + s)
	}
	return NewNumber(n)
}

func convertOperator(s string) CalcVal {
	r, _ := utf8.DecodeRuneInString(s)
	return NewOperator(r)
}

// NewParser returns the calculator rule set: integer literals, then the four
// arithmetic operators.
func NewParser() *tokenizer.Parser[CalcVal] {
	return tokenizer.New[CalcVal]().
		Push(NumberPattern, convertNumber).
		Push(OperatorPattern, convertOperator)
}

// ErrorMessage is printed by PrintExpression in place of the first token that
// can't be scanned.
const ErrorMessage = "An error happened !"

// PrintExpression tokenizes s and writes one token per line to w, stopping at
// the first failure. Scan failures are reported in the output, not as an
// error; only write errors are returned.
func PrintExpression(w io.Writer, s string) error {
	for v, err := range NewParser().Parse(s).All() {
		if err != nil {
			sklog.Debugf("Tokenizing %q: %s", s, err)
			if _, werr := fmt.Fprintln(w, ErrorMessage); werr != nil {
				return skerr.Wrap(werr)
			}
			break
		}
		if _, werr := fmt.Fprintln(w, v); werr != nil {
			return skerr.Wrap(werr)
		}
	}
	return nil
}
