package format

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.scalc.org/scalc/go/tokenizer"
)

type tok struct {
	kind string
	text string
	skip bool
}

func (t tok) Describe() (string, string) {
	return t.kind, t.text
}

func (t tok) Skipped() bool {
	return t.skip
}

func newTestParser() *tokenizer.Parser[tok] {
	return tokenizer.New[tok]().
		Push(`[0-9]+`, func(s string) tok { return tok{kind: "number", text: s} }).
		Push(`[+\-*/]`, func(s string) tok { return tok{kind: "operator", text: s} }).
		Push(` +`, func(s string) tok { return tok{kind: "space", text: s, skip: true} })
}

func TestCollect(t *testing.T) {
	r := Collect(newTestParser().Parse("125 + 14"))
	assert.Nil(t, r.Error)
	assert.Equal(t, []Item{
		{Text: "125", Start: 0, End: 3, Kind: "number", Value: "125"},
		{Text: "+", Start: 4, End: 5, Kind: "operator", Value: "+"},
		{Text: "14", Start: 6, End: 8, Kind: "number", Value: "14"},
	}, r.Items)
}

func TestCollect_Failure_RecordsError(t *testing.T) {
	r := Collect(newTestParser().Parse("12#3"))
	require.NotNil(t, r.Error)
	assert.Equal(t, 2, r.Error.Pos)
	assert.Equal(t, "#3", r.Error.Remaining)
	assert.Len(t, r.Items, 1)
}

func TestCollect_EmptyInput_NonNilItems(t *testing.T) {
	r := Collect(newTestParser().Parse(""))
	assert.NotNil(t, r.Items)
	assert.Empty(t, r.Items)
}

func TestToFormat(t *testing.T) {
	f, err := ToFormat("table")
	require.NoError(t, err)
	assert.Equal(t, Table, f)

	_, err = ToFormat("yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown format "yaml"`)
}

func TestWriteText(t *testing.T) {
	color.NoColor = true
	var b bytes.Buffer
	require.NoError(t, Write(&b, Text, Collect(newTestParser().Parse("1+#"))))
	assert.Equal(t, "0-1\tnumber\t1\n1-2\toperator\t+\nerror: no rule matches input at position 2: \"#\"\n", b.String())
}

func TestWriteTable(t *testing.T) {
	color.NoColor = true
	var b bytes.Buffer
	require.NoError(t, Write(&b, Table, Collect(newTestParser().Parse("125+14"))))
	out := b.String()
	assert.Contains(t, out, "Kind")
	assert.Contains(t, out, "operator")
	assert.Contains(t, out, "125")
	assert.NotContains(t, out, "error:")
}

func TestWriteJSON(t *testing.T) {
	var b bytes.Buffer
	require.NoError(t, Write(&b, JSON, Collect(newTestParser().Parse("7#"))))

	var got struct {
		Items []Item `json:"items"`
		Error *struct {
			Pos       int    `json:"pos"`
			Remaining string `json:"remaining"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(b.Bytes(), &got))
	assert.Equal(t, []Item{{Text: "7", Start: 0, End: 1, Kind: "number", Value: "7"}}, got.Items)
	require.NotNil(t, got.Error)
	assert.Equal(t, 1, got.Error.Pos)
	assert.Equal(t, "#", got.Error.Remaining)
}

func TestWrite_UnknownFormat(t *testing.T) {
	err := Write(&bytes.Buffer{}, Format("xml"), Result{})
	assert.Error(t, err)
}
