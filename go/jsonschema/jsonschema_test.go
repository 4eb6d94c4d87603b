package jsonschema

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `{
  "$schema": "http://json-schema.org/draft-04/schema#",
  "type": "object",
  "required": ["pattern"],
  "properties": {
    "pattern": {"type": "string", "minLength": 1}
  }
}`

func TestValidate_ValidDocument_NoViolations(t *testing.T) {
	violations, err := Validate(context.Background(), []byte(`{"pattern": "[0-9]+"}`), []byte(testSchema))
	require.NoError(t, err)
	assert.Empty(t, violations)
}

func TestValidate_InvalidDocument_ReturnsViolations(t *testing.T) {
	violations, err := Validate(context.Background(), []byte(`{"pattern": ""}`), []byte(testSchema))
	assert.ErrorIs(t, err, ErrSchemaViolation)
	require.Len(t, violations, 1)
	assert.Contains(t, violations[0], "pattern")
}

func TestValidate_MalformedDocument_ReturnsError(t *testing.T) {
	_, err := Validate(context.Background(), []byte(`{`), []byte(testSchema))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrSchemaViolation)
}

type rule struct {
	Pattern string `json:"pattern"`
	Kind    string `json:"kind,omitempty"`
}

func TestSchema_ReflectsJSONTags(t *testing.T) {
	b, err := Schema(&rule{})
	require.NoError(t, err)
	var parsed map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &parsed))
	assert.Contains(t, string(b), `"pattern"`)
	assert.Contains(t, string(b), `"kind"`)
}
