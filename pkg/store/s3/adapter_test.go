package s3

import (
	"context"
	"net"
	"testing"
	"time"

	"datavault/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 检查本地 MinIO 端口是否开放 (9000)
// 如果没开，跳过测试，避免报错干扰
func isMinIOAvailable(t *testing.T) bool {
	host := "localhost:9000"
	conn, err := net.DialTimeout("tcp", host, 1*time.Second)
	if err != nil {
		t.Logf("MinIO not reachable at %s. Skipping integration tests.", host)
		return false
	}
	conn.Close()
	return true
}

func TestS3Adapter_Integration(t *testing.T) {
	if !isMinIOAvailable(t) {
		t.Skip("Skipping S3 integration tests (MinIO down)")
	}

	// docker-compose.yaml 里的默认配置
	cfg := Config{
		Endpoint:        "http://localhost:9000",
		Region:          "us-east-1",
		Bucket:          "datavault-test-bucket",
		AccessKeyID:     "admin",
		SecretAccessKey: "password",
	}

	ctx := context.Background()
	backend, err := NewAdapter(ctx, cfg)
	require.NoError(t, err, "Failed to connect to MinIO")

	key := "project-8888aaaa.obj"
	payload := []byte("Hello S3 World from DataVault")

	t.Run("Put", func(t *testing.T) {
		assert.NoError(t, backend.Put(ctx, key, payload))
	})

	t.Run("Get", func(t *testing.T) {
		data, err := backend.Get(ctx, key)
		assert.NoError(t, err)
		assert.Equal(t, payload, data)
	})

	t.Run("GetMissing", func(t *testing.T) {
		_, err := backend.Get(ctx, "ghost-ffffffff.obj")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("Keys", func(t *testing.T) {
		keys, err := backend.Keys(ctx)
		assert.NoError(t, err)
		assert.Contains(t, keys, key)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, backend.Delete(ctx, key))
		// 幂等：删不存在的 Key 也不报错
		require.NoError(t, backend.Delete(ctx, key))

		_, err := backend.Get(ctx, key)
		assert.ErrorIs(t, err, store.ErrNotFound)
	})
}
