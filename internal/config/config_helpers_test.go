package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEnvGetters(t *testing.T) {
	t.Run("int", func(t *testing.T) {
		t.Setenv("TEST_INT", "12")
		assert.Equal(t, 12, getEnvAsInt("TEST_INT", 3))
		t.Setenv("TEST_INT", "12.5")
		assert.Equal(t, 3, getEnvAsInt("TEST_INT", 3))
		assert.Equal(t, 3, getEnvAsInt("TEST_INT_UNSET", 3))
	})

	t.Run("duration", func(t *testing.T) {
		t.Setenv("TEST_DUR", "90s")
		assert.Equal(t, 90*time.Second, getEnvAsDuration("TEST_DUR", time.Minute))
		t.Setenv("TEST_DUR", "90")
		assert.Equal(t, time.Minute, getEnvAsDuration("TEST_DUR", time.Minute), "bare numbers have no unit")
	})

	t.Run("bool", func(t *testing.T) {
		t.Setenv("TEST_BOOL", "0")
		assert.False(t, getEnvAsBool("TEST_BOOL", true))
		t.Setenv("TEST_BOOL", "maybe")
		assert.True(t, getEnvAsBool("TEST_BOOL", true))
	})

	t.Run("string keeps explicit empty", func(t *testing.T) {
		t.Setenv("TEST_STR", "")
		assert.Equal(t, "", getEnv("TEST_STR", "fallback"))
		assert.Equal(t, "fallback", getEnv("TEST_STR_UNSET", "fallback"))
	})

	t.Run("list", func(t *testing.T) {
		t.Setenv("TEST_LIST", " 10.0.0.1, ,10.0.0.2 ")
		assert.Equal(t, []string{"10.0.0.1", "10.0.0.2"}, getEnvAsList("TEST_LIST"))
		assert.Nil(t, getEnvAsList("TEST_LIST_UNSET"))
	})
}
