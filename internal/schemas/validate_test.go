package schemas

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const personSchema = `{
  "type": "object",
  "required": ["name"],
  "properties": {
    "name": {"type": "string"},
    "tags": {"type": "array", "items": {"type": "string"}}
  }
}`

func TestCompile_InvalidSchema(t *testing.T) {
	_, err := Compile("broken", `{"type": 12}`)
	require.Error(t, err)

	var loadErr *SchemaLoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, "broken", loadErr.Name)
	assert.Contains(t, err.Error(), "failed to load schema broken")
}

func TestValidator_Validate(t *testing.T) {
	v, err := Compile("person", personSchema)
	require.NoError(t, err)

	assert.NoError(t, v.Validate(map[string]interface{}{"name": "Jane", "tags": []interface{}{"a"}}))

	err = v.Validate(map[string]interface{}{"tags": []interface{}{1}})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Len(t, verr.Errors, 2)
}

func TestValidator_ValidateBytes(t *testing.T) {
	v, err := Compile("person", personSchema)
	require.NoError(t, err)

	assert.NoError(t, v.ValidateBytes([]byte(`{"name": "Jane"}`)))

	err = v.ValidateBytes([]byte(`{"name": 5}`))
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr.Errors, 1)
	assert.Equal(t, "name", verr.Errors[0].Field)
	assert.Contains(t, verr.Summary(), "name: ")
}

func TestValidator_RootField(t *testing.T) {
	v, err := Compile("person", personSchema)
	require.NoError(t, err)

	err = v.ValidateBytes([]byte(`[]`))
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "(root)", verr.Errors[0].Field)
}

func TestValidator_MalformedDocument(t *testing.T) {
	v, err := Compile("person", personSchema)
	require.NoError(t, err)

	err = v.ValidateBytes([]byte(`{ invalid json }`))
	require.Error(t, err)
	var verr *ValidationError
	assert.False(t, errors.As(err, &verr))
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{Errors: []FieldError{
		{Field: "name", Message: "is required"},
		{Field: "tags.0", Message: "Invalid type"},
	}}
	assert.Equal(t, "validation failed:\n  1. name: is required\n  2. tags.0: Invalid type\n", err.Error())
	assert.Equal(t, "name: is required; tags.0: Invalid type", err.Summary())
}
