package app

import (
	"context"
	"path/filepath"
	"testing"

	"datavault/pkg/store"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildBackend_File(t *testing.T) {
	// 1. Mock 配置
	viper.Reset()
	viper.Set("store.backend", "file")
	viper.Set("store.path", filepath.Join(t.TempDir(), "objects"))

	// 2. 调用私有函数 (因为我们在同一个包)
	backend, _, err := buildBackend(context.Background())

	// 3. 验证
	require.NoError(t, err)
	assert.NotNil(t, backend)
}

func TestBuildBackend_File_MissingPath(t *testing.T) {
	viper.Reset()
	viper.Set("store.backend", "file")
	// 故意不设置 path

	backend, _, err := buildBackend(context.Background())
	assert.Error(t, err)
	assert.Nil(t, backend)
	assert.Contains(t, err.Error(), "store path not set")
}

func TestBuildBackend_UnknownBackend(t *testing.T) {
	viper.Reset()
	viper.Set("store.backend", "ftp") // 不支持的类型

	backend, _, err := buildBackend(context.Background())
	assert.Error(t, err)
	assert.Nil(t, backend)
	assert.Contains(t, err.Error(), "unknown store backend")
}

func TestNewApp_FreshRepo(t *testing.T) {
	viper.Reset()
	viper.Set("store.backend", "file")
	viper.Set("store.path", filepath.Join(t.TempDir(), "objects"))

	// 空仓库：索引还没保存过，NewApp 不该报错
	a, err := NewApp(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, a.Store.Len())
	assert.Nil(t, a.Catalog)
}

func TestNewApp_WithCatalog(t *testing.T) {
	dir := t.TempDir()
	viper.Reset()
	viper.Set("store.backend", "file")
	viper.Set("store.path", filepath.Join(dir, "objects"))
	viper.Set("catalog.enabled", true)
	viper.Set("catalog.driver", "sqlite")
	viper.Set("catalog.path", filepath.Join(dir, "catalog.db"))

	a, err := NewApp(context.Background())
	require.NoError(t, err)
	require.NotNil(t, a.Catalog)

	// 走一遍 Add，确认投影被写入
	uid, err := a.Store.Add(context.Background(), map[string]any{"k": "v"}, store.Options{TypePrefix: "project", Label: "demo"})
	require.NoError(t, err)

	stored, err := a.Catalog.GetHandle(context.Background(), uid)
	require.NoError(t, err)
	assert.Equal(t, "demo", stored.Label)
}
