package validation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,basicemail"`
	Password string `json:"password" validate:"required,pwd"`
}

func TestFieldsUseJSONNamesInOrder(t *testing.T) {
	err := New().Struct(sample{})
	require.Error(t, err)
	assert.Equal(t, []string{"name", "email", "password"}, Fields(err))
}

func TestBasicEmailAndPasswordAlias(t *testing.T) {
	v := New()

	err := v.Struct(sample{Name: "Ana", Email: "ana@x", Password: "123"})
	require.Error(t, err)
	tags := FailedTags(err)
	assert.Equal(t, "basicemail", tags["email"])
	assert.Contains(t, []string{"pwd", "min"}, tags["password"])

	assert.NoError(t, v.Struct(sample{Name: "Ana", Email: "ana@x.com", Password: "secret1"}))
}

func TestToDetails(t *testing.T) {
	err := New().Struct(sample{Email: "nope"})
	details := ToDetails(err)
	assert.Equal(t, "is required", details["name"])
	assert.Equal(t, "must be a valid email", details["email"])

	var target map[string]any
	jsonErr := json.Unmarshal([]byte("{"), &target)
	assert.Equal(t, map[string]string{"payload": "invalid json"}, ToDetails(jsonErr))
	assert.Nil(t, ToDetails(nil))
}
