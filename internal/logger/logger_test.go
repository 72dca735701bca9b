package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "WARN", "text", false)

	Info("should not appear")
	require.Empty(t, buf.String())

	Warn("should appear")
	require.Contains(t, buf.String(), "should appear")
	require.Contains(t, buf.String(), "WARN")
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "DEBUG", "json", false)

	Info("hello", "mount", "ABCD")
	require.Contains(t, buf.String(), `"mount":"ABCD"`)
}

func TestContextFieldsPropagate(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "DEBUG", "text", false)

	lc := NewLogContext("127.0.0.1").WithMount("MOUNT1").WithCID(7)
	ctx := WithContext(context.Background(), lc)

	InfoCtx(ctx, "admitted")
	out := buf.String()
	require.True(t, strings.Contains(out, "mount=MOUNT1"))
	require.True(t, strings.Contains(out, "cid=7"))
}
