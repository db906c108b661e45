package log

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFilter(t *testing.T) {
	filter, err := ParseFilter("info+:* debug:*,-noisy")
	require.NoError(t, err)

	var buf bytes.Buffer
	l := New(&buf, DebugLevel, filter)
	l.Named("noisy").Debug("dropped entry")
	l.Named("noisy").Info("kept info")
	l.Named("other").Debug("kept debug")

	out := buf.String()
	assert.NotContains(t, out, "dropped entry")
	assert.Contains(t, out, "kept info")
	assert.Contains(t, out, "kept debug")
}

func TestParseFilter_Empty(t *testing.T) {
	filter, err := ParseFilter("")
	require.NoError(t, err)

	var buf bytes.Buffer
	New(&buf, DebugLevel, filter).Debug("entry")
	assert.Contains(t, buf.String(), "entry")
}

func TestParseFilter_Invalid(t *testing.T) {
	_, err := ParseFilter("nope:*")
	assert.ErrorContains(t, err, "invalid log filter")
}
