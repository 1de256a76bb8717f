package audioclip

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeWindow_ClampsNegativeBounds(t *testing.T) {
	start, end, err := NormalizeWindow(-5, 3)
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), start)
	assert.Equal(t, 3*time.Second, end)
}

func TestNormalizeWindow_CapsDurationAt30Seconds(t *testing.T) {
	start, end, err := NormalizeWindow(0, 100)
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), start)
	assert.Equal(t, MaxClipDuration, end-start)
}

func TestNormalizeWindow_RejectsNonPositiveDuration(t *testing.T) {
	_, _, err := NormalizeWindow(5, 5)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, _, err = NormalizeWindow(5, 2)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestNormalizeWindow_RejectsNonFiniteBounds(t *testing.T) {
	_, _, err := NormalizeWindow(math.Inf(1), 5)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, _, err = NormalizeWindow(0, math.NaN())
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestHintExtensionFromURL(t *testing.T) {
	cases := map[string]string{
		"https://cdn.example/seg-000.ts":         "ts",
		"https://cdn.example/init.m4s":           "mp4",
		"https://cdn.example/init.m4s?token=abc": "mp4",
		"https://cdn.example/seg.M4A":            "mp4",
		"https://cdn.example/noext":              "",
		"https://cdn.example/path/":              "",
	}
	for url, want := range cases {
		assert.Equal(t, want, hintExtensionFromURL(url), url)
	}
}
