package store

import (
	"context"
	"errors"
)

var (
	// ErrNotFound: 后端里没有这个 Key，或索引里没有这个 UID
	ErrNotFound = errors.New("object not found")
	// ErrIndexNotFound: 索引从未被持久化过
	ErrIndexNotFound = errors.New("datastore index has not been saved yet")
)

// Backend 定义 payload 存储后端的接口
// 实现可以是本地目录、Redis 或对象存储
type Backend interface {
	// Put 持久化一条 payload，Key 重复时覆盖
	Put(ctx context.Context, key string, data []byte) error

	// Get 按 Key 读取 payload，不存在时返回 ErrNotFound
	Get(ctx context.Context, key string) ([]byte, error)

	// Delete 删除一条 payload，Key 不存在时也应返回 nil (幂等)
	Delete(ctx context.Context, key string) error

	// Keys 列出后端里所有的 Key (用于诊断和清空操作)
	Keys(ctx context.Context) ([]string, error)
}
