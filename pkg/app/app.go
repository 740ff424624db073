// pkg/app/app.go
package app

import (
	"context"
	"errors"
	"fmt"

	"datavault/pkg/catalog"
	"datavault/pkg/store"
	"datavault/pkg/store/file"
	"datavault/pkg/store/redisdb"
	"datavault/pkg/store/s3"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// App 是整个应用程序的依赖容器 (Dependency Container)
// 它持有所有“单例”服务
type App struct {
	Store   *store.DataStore
	Backend store.Backend
	Catalog *catalog.Repository // 可选，catalog.enabled=false 时为 nil

	StorePath string
}

// NewApp 是工厂函数，负责组装这一台机器
// 它遵循 Viper 的配置，但不知道具体的 CLI 命令
func NewApp(ctx context.Context) (*App, error) {
	backend, storePath, err := buildBackend(ctx)
	if err != nil {
		return nil, err
	}

	ds := store.New(backend)

	// 可选的 SQL 投影
	var repo *catalog.Repository
	if viper.GetBool("catalog.enabled") {
		db, err := catalog.Open(ctx, catalog.Config{
			Driver:   viper.GetString("catalog.driver"),
			Path:     viper.GetString("catalog.path"),
			Host:     viper.GetString("catalog.host"),
			Port:     viper.GetInt("catalog.port"),
			User:     viper.GetString("catalog.user"),
			Password: viper.GetString("catalog.password"),
			DBName:   viper.GetString("catalog.dbname"),
			SSLMode:  viper.GetString("catalog.sslmode"),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to open catalog: %w", err)
		}
		repo = catalog.NewRepository(db)
		ds.SetMirror(repo)
	}

	// 加载持久化索引。第一次使用时索引还不存在，空仓库不是错误。
	if err := ds.LoadIndex(ctx); err != nil && !errors.Is(err, store.ErrIndexNotFound) {
		return nil, fmt.Errorf("failed to load index: %w", err)
	}

	return &App{
		Store:     ds,
		Backend:   backend,
		Catalog:   repo,
		StorePath: storePath,
	}, nil
}

// buildBackend 按配置组装后端适配器
func buildBackend(ctx context.Context) (store.Backend, string, error) {
	mode := viper.GetString("store.backend")

	switch mode {
	case "", "file":
		storePath := viper.GetString("store.path")
		if storePath == "" {
			return nil, "", fmt.Errorf("store path not set")
		}
		backend, err := file.NewAdapter(storePath)
		if err != nil {
			return nil, "", fmt.Errorf("failed to init file backend: %w", err)
		}
		return backend, storePath, nil

	case "redis":
		backend, err := redisdb.NewAdapter(redisdb.Config{
			URL:    viper.GetString("redis.url"),
			Prefix: viper.GetString("redis.prefix"),
		})
		if err != nil {
			return nil, "", fmt.Errorf("failed to init redis backend: %w", err)
		}
		return backend, viper.GetString("redis.url"), nil

	case "s3":
		backend, err := s3.NewAdapter(ctx, s3.Config{
			Endpoint:        viper.GetString("s3.endpoint"),
			Region:          viper.GetString("s3.region"),
			Bucket:          viper.GetString("s3.bucket"),
			AccessKeyID:     viper.GetString("s3.access_key_id"),
			SecretAccessKey: viper.GetString("s3.secret_access_key"),
		})
		if err != nil {
			return nil, "", fmt.Errorf("failed to init s3 backend: %w", err)
		}
		return backend, viper.GetString("s3.bucket"), nil

	default:
		logrus.WithField("backend", mode).Error("unknown store backend")
		return nil, "", fmt.Errorf("unknown store backend: %q", mode)
	}
}
