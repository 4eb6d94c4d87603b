package util

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithWriteFile_ThenWithReadFile_RoundTrips(t *testing.T) {
	file := filepath.Join(t.TempDir(), "rules.json5")

	require.NoError(t, WithWriteFile(file, func(w io.Writer) error {
		_, err := io.WriteString(w, "{rule_sets: {}}")
		return err
	}))

	var got []byte
	require.NoError(t, WithReadFile(file, func(r io.Reader) error {
		var err error
		got, err = io.ReadAll(r)
		return err
	}))
	assert.Equal(t, "{rule_sets: {}}", string(got))
}

func TestWithWriteFile_WriteFnFails_LeavesNoFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "schema.json")
	myErr := errors.New("write failed")

	err := WithWriteFile(file, func(w io.Writer) error {
		return myErr
	})
	assert.ErrorIs(t, err, myErr)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestWithReadFile_MissingFile_ReturnsError(t *testing.T) {
	err := WithReadFile(filepath.Join(t.TempDir(), "missing"), func(io.Reader) error {
		return nil
	})
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
