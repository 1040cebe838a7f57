//go:build !fitz

package background

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackground_PDFNeedsFitz(t *testing.T) {
	path := filepath.Join(t.TempDir(), "slides.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4\n"), 0644))

	m := NewManager(30, 20)
	err := m.SetSource(path)
	assert.ErrorContains(t, err, "fitz")
	assert.Equal(t, Solid, m.Kind())
	assert.Equal(t, err, m.LastError())
}
