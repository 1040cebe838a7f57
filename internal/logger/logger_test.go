package logger

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogger_SilentByDefault(t *testing.T) {
	assert.False(t, L().Enabled(context.Background(), slog.LevelError))
}

func TestLogger_Set(t *testing.T) {
	var buf bytes.Buffer
	Set(slog.New(slog.NewTextHandler(&buf, nil)))
	defer Set(nil)

	L().Info("shape recognised", "kind", "circle")
	assert.Contains(t, buf.String(), "kind=circle")

	Set(nil)
	L().Info("dropped")
	assert.NotContains(t, buf.String(), "dropped")
}
