package file

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"datavault/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileAdapter(t *testing.T) {
	tmpDir := t.TempDir()
	backend, err := NewAdapter(filepath.Join(tmpDir, "objects"))
	require.NoError(t, err)

	ctx := context.Background()

	// Put
	err = backend.Put(ctx, "project-abc123.prj", []byte("hello world"))
	require.NoError(t, err)

	// 文件必须真实存在于磁盘
	_, err = os.Stat(filepath.Join(tmpDir, "objects", "project-abc123.prj"))
	assert.NoError(t, err)

	// Get
	data, err := backend.Get(ctx, "project-abc123.prj")
	require.NoError(t, err)
	assert.Equal(t, []byte("hello world"), data)

	// Get 不存在的 Key
	_, err = backend.Get(ctx, "ghost.obj")
	assert.ErrorIs(t, err, store.ErrNotFound)

	// Put 覆盖
	require.NoError(t, backend.Put(ctx, "project-abc123.prj", []byte("v2")))
	data, err = backend.Get(ctx, "project-abc123.prj")
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), data)

	// Delete 幂等
	require.NoError(t, backend.Delete(ctx, "project-abc123.prj"))
	require.NoError(t, backend.Delete(ctx, "project-abc123.prj"))
	_, err = backend.Get(ctx, "project-abc123.prj")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestFileAdapter_Keys(t *testing.T) {
	backend, err := NewAdapter(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	keys, err := backend.Keys(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)

	require.NoError(t, backend.Put(ctx, "a.obj", []byte("1")))
	require.NoError(t, backend.Put(ctx, "b.obj", []byte("2")))

	keys, err = backend.Keys(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a.obj", "b.obj"}, keys)
}

func TestFileAdapter_KeysSkipInFlightTemp(t *testing.T) {
	root := t.TempDir()
	backend, err := NewAdapter(root)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, backend.Put(ctx, "a.obj", []byte("1")))

	// 模拟一次进行到一半的写入
	require.NoError(t, os.WriteFile(filepath.Join(root, "temp-123456"), []byte("partial"), 0644))

	keys, err := backend.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.obj"}, keys, "in-flight temp files must not surface as keys")
}

func TestFileAdapter_AtomicWrite(t *testing.T) {
	root := t.TempDir()
	backend, err := NewAdapter(root)
	require.NoError(t, err)

	require.NoError(t, backend.Put(context.Background(), "x.obj", []byte("data")))

	// 临时文件不应残留
	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), "temp-", "temp file leaked: %s", e.Name())
	}
}

func TestFileAdapter_BadRoot(t *testing.T) {
	// 根路径是一个已存在的普通文件 -> MkdirAll 必须失败
	tmpDir := t.TempDir()
	f := filepath.Join(tmpDir, "occupied")
	require.NoError(t, os.WriteFile(f, []byte("x"), 0644))

	_, err := NewAdapter(f)
	assert.Error(t, err)
	assert.False(t, errors.Is(err, store.ErrNotFound))
}
