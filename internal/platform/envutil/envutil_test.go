package envutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDuration(t *testing.T) {
	t.Setenv("SG_TEST_DURATION", "90s")
	assert.Equal(t, 90*time.Second, Duration("SG_TEST_DURATION", time.Second))

	t.Setenv("SG_TEST_DURATION", "45")
	assert.Equal(t, 45*time.Second, Duration("SG_TEST_DURATION", time.Second))

	t.Setenv("SG_TEST_DURATION", "soon")
	assert.Equal(t, time.Second, Duration("SG_TEST_DURATION", time.Second))
}

func TestBoolAndInt(t *testing.T) {
	t.Setenv("SG_TEST_BOOL", "On")
	assert.True(t, Bool("SG_TEST_BOOL", false))
	assert.False(t, Bool("SG_TEST_UNSET_BOOL", false))

	t.Setenv("SG_TEST_INT", "x")
	assert.Equal(t, 7, Int("SG_TEST_INT", 7))
	assert.Equal(t, "fallback", String("SG_TEST_UNSET_STRING", "fallback"))
}
