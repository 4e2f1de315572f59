package blob

import (
	"context"
	"io"
	"strings"
	"testing"

	"go-bi-stack/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]Store {
	t.Helper()
	fs, err := NewFilesystem(t.TempDir())
	require.NoError(t, err)
	return map[string]Store{"memory": NewMemory(), "fs": fs}
}

func TestStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			info, err := s.Put(ctx, "exports/a.csv", strings.NewReader("id\n1\n"), PutOptions{
				ContentType: "text/csv",
				Metadata:    map[string]string{"job": "j1"},
			})
			require.NoError(t, err)
			assert.Equal(t, "exports/a.csv", info.Key)
			assert.EqualValues(t, 5, info.Size)
			assert.Equal(t, "text/csv", info.ContentType)

			_, err = s.Put(ctx, "exports/a.csv", strings.NewReader("x"), PutOptions{})
			assert.ErrorIs(t, err, ErrExists)

			got, rc, err := s.Get(ctx, "exports/a.csv")
			require.NoError(t, err)
			body, err := io.ReadAll(rc)
			require.NoError(t, rc.Close())
			require.NoError(t, err)
			assert.Equal(t, "id\n1\n", string(body))
			assert.Equal(t, "j1", got.Metadata["job"])

			_, err = s.Put(ctx, "exports/b.json", strings.NewReader("[]"), PutOptions{})
			require.NoError(t, err)
			_, err = s.Put(ctx, "other/c.json", strings.NewReader("[]"), PutOptions{})
			require.NoError(t, err)

			list, err := s.List(ctx, "exports/")
			require.NoError(t, err)
			require.Len(t, list, 2)
			assert.Equal(t, "exports/a.csv", list[0].Key)
			assert.Equal(t, "exports/b.json", list[1].Key)

			ok, err := s.Delete(ctx, "exports/a.csv")
			require.NoError(t, err)
			assert.True(t, ok)
			ok, err = s.Delete(ctx, "exports/a.csv")
			require.NoError(t, err)
			assert.False(t, ok)

			_, err = s.Head(ctx, "exports/a.csv")
			assert.ErrorIs(t, err, model.ErrNotFound)
			_, _, err = s.Get(ctx, "missing.csv")
			assert.ErrorIs(t, err, model.ErrNotFound)

			_, err = s.PresignURL(ctx, "exports/b.json", SignedURLOptions{})
			assert.ErrorIs(t, err, ErrUnsupported)
		})
	}
}

func TestRejectsUnsafeKeys(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			for _, key := range []string{"", "  ", "../etc/passwd", "/abs", "a/../../b"} {
				_, err := s.Put(ctx, key, strings.NewReader("x"), PutOptions{})
				assert.Error(t, err, key)
			}
		})
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, Config{Driver: "memory"})
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, s.Driver())

	s, err = Open(ctx, Config{Root: t.TempDir()})
	require.NoError(t, err)
	assert.Equal(t, DriverFilesystem, s.Driver())

	_, err = Open(ctx, Config{Driver: "gcs"})
	assert.Error(t, err)

	_, err = Open(ctx, Config{Driver: DriverS3})
	assert.Error(t, err, "bucket is required")
}
