package blob

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agentreg/pkg/platform/sentinel"
)

func TestCleanKey(t *testing.T) {
	for _, bad := range []string{"", "/etc/passwd", "../secret", "a/../../b", "..", "a\\b", "x\x00y"} {
		_, err := CleanKey(bad)
		assert.ErrorIs(t, err, ErrInvalidKey, bad)
	}

	got, err := CleanKey("uploads/IND-APP-2026-0001/./id.pdf")
	require.NoError(t, err)
	assert.Equal(t, "uploads/IND-APP-2026-0001/id.pdf", got)
}

func TestInMemory(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory()
	data := []byte("%PDF-1.4")
	require.NoError(t, s.Put(ctx, "a/b.pdf", data))

	data[0] = 'X'
	got, err := s.Fetch(ctx, "a/b.pdf")
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4"), got)

	_, err = s.Fetch(ctx, "a/missing.pdf")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestDirStore(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "uploads"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "uploads", "small.pdf"), []byte("12345"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(root, "uploads", "big.pdf"), make([]byte, 100), 0o600))

	s := NewDirStore(root, 10)

	got, err := s.Fetch(ctx, "uploads/small.pdf")
	require.NoError(t, err)
	assert.Equal(t, []byte("12345"), got)

	big, err := s.Fetch(ctx, "uploads/big.pdf")
	require.NoError(t, err)
	assert.Len(t, big, 11, "reads stop one byte past the limit")

	_, err = s.Fetch(ctx, "uploads/none.pdf")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)

	_, err = s.Fetch(ctx, "../outside.pdf")
	assert.ErrorIs(t, err, ErrInvalidKey)
}
