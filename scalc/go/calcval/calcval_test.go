package calcval

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.scalc.org/scalc/go/tokenizer"
)

func TestNewParser_Tokenize(t *testing.T) {
	testCases := []struct {
		input string
		want  []CalcVal
		err   bool
	}{
		{
			input: "125",
			want:  []CalcVal{NewNumber(125)},
		},
		{
			input: "125+14",
			want:  []CalcVal{NewNumber(125), NewOperator('+'), NewNumber(14)},
		},
		{
			input: "7/0-3*2",
			want: []CalcVal{
				NewNumber(7), NewOperator('/'), NewNumber(0), NewOperator('-'),
				NewNumber(3), NewOperator('*'), NewNumber(2),
			},
		},
		{
			input: "12#3",
			want:  []CalcVal{NewNumber(12)},
			err:   true,
		},
		{
			input: "",
			want:  nil,
		},
	}
	p := NewParser()
	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got, err := p.Tokenize(tc.input)
			if tc.err {
				assert.True(t, errors.Is(err, tokenizer.ErrNoMatch))
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNewParser_Overflow_YieldsErrorValue(t *testing.T) {
	got, err := NewParser().Tokenize("99999999999999999999")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, NewError("Unable to parse integer: 99999999999999999999"), got[0])
}

func TestString(t *testing.T) {
	assert.Equal(t, "Number(125)", NewNumber(125).String())
	assert.Equal(t, "Operator('+')", NewOperator('+').String())
	assert.Equal(t, `Error("bad")`, NewError("bad").String())
}

func TestDescribe(t *testing.T) {
	kind, value := NewNumber(-4).Describe()
	assert.Equal(t, "Number", kind)
	assert.Equal(t, "-4", value)

	kind, value = NewOperator('*').Describe()
	assert.Equal(t, "Operator", kind)
	assert.Equal(t, "*", value)

	kind, value = NewError("bad").Describe()
	assert.Equal(t, "Error", kind)
	assert.Equal(t, "bad", value)
}

func TestPrintExpression(t *testing.T) {
	testCases := []struct {
		input string
		want  string
	}{
		{
			input: "125+14",
			want:  "Number(125)\nOperator('+')\nNumber(14)\n",
		},
		{
			input: "12#3",
			want:  "Number(12)\nAn error happened !\n",
		},
		{
			input: "",
			want:  "",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			var b bytes.Buffer
			require.NoError(t, PrintExpression(&b, tc.input))
			assert.Equal(t, tc.want, b.String())
		})
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestPrintExpression_WriteFails_ReturnsError(t *testing.T) {
	err := PrintExpression(failingWriter{}, "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}
