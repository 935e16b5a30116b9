package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeFields(t *testing.T) {
	keys := []string{"nik", "name", "religion", "rt_rw", "age", "missing"}
	got := NormalizeFields(map[string]any{
		"nik":      3174012345678901.0,
		"name":     "  BUDI SANTOSO ",
		"religion": "not found",
		"rt_rw":    "   ",
		"age":      nil,
		"extra":    "ignored",
	}, keys)

	assert.Equal(t, Result{
		"nik":      "3174012345678901",
		"name":     "BUDI SANTOSO",
		"religion": NotFound,
		"rt_rw":    NotFound,
		"age":      NotFound,
		"missing":  NotFound,
	}, got)
}

func TestNormalizeFieldsNonStringScalars(t *testing.T) {
	got := NormalizeFields(map[string]any{"a": true, "b": 12.5}, []string{"a", "b"})
	assert.Equal(t, "true", got["a"])
	assert.Equal(t, "12.5", got["b"])
}

func TestAllPresent(t *testing.T) {
	keys := []string{"a", "b"}
	assert.True(t, AllPresent(Result{"a": "x", "b": "y"}, keys))
	assert.False(t, AllPresent(Result{"a": "x", "b": "Not Found"}, keys))
	assert.False(t, AllPresent(Result{"a": "x"}, keys))
	assert.Equal(t, 1, Result{"a": "x", "b": NotFound}.Count(keys))
}

func TestNormalizeOCRText(t *testing.T) {
	assert.Equal(t, "JL. CEMPAKA 5-7\nNAMA : RENE", NormalizeOCRText("JL. CEMPAKA 5–7  \r\nNAMA : RENÉ"))
}
