package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	lg := NewWithWriter(&buf, true).With(Field{Key: "invocation_id", Val: "abc"})

	lg.Error("review failed", Err(errors.New("boom")), Field{Key: "url", Val: "https://example.com/post"})

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))

	assert.Equal(t, "ERROR", got["severity"])
	assert.Equal(t, "review failed", got["message"])
	assert.Equal(t, "boom", got["err"])
	assert.Equal(t, "abc", got["invocation_id"])
	assert.Equal(t, "https://example.com/post", got["url"])
}

func TestLogger_JSONUnsupportedField(t *testing.T) {
	var buf bytes.Buffer
	lg := NewWithWriter(&buf, true)

	lg.Info("poll done", Field{Key: "fetched", Val: 3}, Field{Key: "done", Val: make(chan struct{})})

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))

	assert.Equal(t, "poll done", got["message"])
	assert.Equal(t, float64(3), got["fetched"])
	assert.True(t, strings.HasPrefix(got["done"].(string), "0x"))
}

func TestLogger_Text(t *testing.T) {
	var buf bytes.Buffer
	lg := NewWithWriter(&buf, false)

	lg.Info("poll done", Field{Key: "published", Val: 2})

	line := buf.String()
	assert.True(t, strings.Contains(line, "INFO poll done published=2"), line)
}

func TestLogger_WithDoesNotLeak(t *testing.T) {
	var buf bytes.Buffer
	base := NewWithWriter(&buf, true)
	_ = base.With(Field{Key: "child", Val: true})

	base.Info("plain")

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	_, ok := got["child"]
	assert.False(t, ok)
}
