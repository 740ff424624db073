package redisdb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"datavault/pkg/store"

	"github.com/redis/go-redis/v9"
)

// Adapter 实现了 store.Backend 接口，payload 存在 Redis 里
type Adapter struct {
	client *redis.Client
	prefix string // Key 命名空间前缀，防止和别的应用冲突
}

type Config struct {
	// URL 是标准连接字符串: redis://<user>:<password>@<host>:<port>/<db>
	URL string
	// Prefix 为空时使用 "dv:"
	Prefix string
}

// NewAdapter 解析连接 URL 并建立连接
func NewAdapter(cfg Config) (*Adapter, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(opts)

	// Fail-fast 连接检查
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "dv:"
	}

	return &Adapter{client: client, prefix: prefix}, nil
}

// NewWithClient 复用现有连接，方便测试和依赖注入
func NewWithClient(client *redis.Client, prefix string) *Adapter {
	if prefix == "" {
		prefix = "dv:"
	}
	return &Adapter{client: client, prefix: prefix}
}

func (s *Adapter) storageKey(key string) string {
	return s.prefix + key
}

func (s *Adapter) Put(ctx context.Context, key string, data []byte) error {
	// 不设 TTL：DataStore 的 payload 是持久数据，不是缓存
	if err := s.client.Set(ctx, s.storageKey(key), data, 0).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (s *Adapter) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.storageKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}
	return data, nil
}

func (s *Adapter) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.storageKey(key)).Err(); err != nil {
		return fmt.Errorf("redis del failed: %w", err)
	}
	return nil
}

// Keys 用 SCAN 遍历命名空间下的所有 Key
// 不用 KEYS 命令：它会阻塞整个 Redis
func (s *Adapter) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	iter := s.client.Scan(ctx, 0, s.prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		// 去掉命名空间前缀，返回逻辑 Key
		keys = append(keys, iter.Val()[len(s.prefix):])
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("redis scan failed: %w", err)
	}
	return keys, nil
}

// Client 暴露底层连接 (测试用)
func (s *Adapter) Client() *redis.Client { return s.client }
