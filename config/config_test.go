package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetEnv(t *testing.T) {
	t.Setenv("SHOPAPI_TEST_PORT", "9090")

	assert.Equal(t, "9090", GetEnv("SHOPAPI_TEST_PORT", "8080"))
	assert.Equal(t, "8080", GetEnv("SHOPAPI_TEST_UNSET", "8080"))
}

func TestMissingEnv(t *testing.T) {
	t.Setenv("SHOPAPI_TEST_SET", "value")
	t.Setenv("SHOPAPI_TEST_EMPTY", "")

	missing := MissingEnv("SHOPAPI_TEST_SET", "SHOPAPI_TEST_EMPTY", "SHOPAPI_TEST_ABSENT")
	assert.Equal(t, []string{"SHOPAPI_TEST_EMPTY", "SHOPAPI_TEST_ABSENT"}, missing)

	assert.Nil(t, MissingEnv("SHOPAPI_TEST_SET"))
}
