package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Load 初始化 Viper 配置
// cfgFile: 可选，用户显式指定的配置文件路径
func Load(cfgFile string) error {
	// 1. 设置默认值 (Defaults)
	setDefaults()

	// 2. 配置搜索路径
	if cfgFile != "" {
		// 如果用户指定了文件，直接使用
		viper.SetConfigFile(cfgFile)
	} else {
		// 否则按优先级搜索
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}

		// 搜索顺序：
		// 1. 当前目录
		viper.AddConfigPath(".")
		// 2. 当前目录下的 .dv
		viper.AddConfigPath(".dv")
		// 3. 用户主目录下的 .dv
		viper.AddConfigPath(filepath.Join(home, ".dv"))

		viper.SetConfigType("yaml")
		viper.SetConfigName("config") // 找 config.yaml
	}

	// 3. 读取环境变量 (DV_REDIS_URL 等)
	viper.SetEnvPrefix("DV")
	viper.AutomaticEnv()

	// 4. 读取配置文件
	if err := viper.ReadInConfig(); err != nil {
		// 如果只是没找到配置文件，但可能有环境变量，不一定算错
		// 但如果是配置文件格式错，那就是错
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			fmt.Println("⚠️  No config file found, using defaults/env vars")
		} else {
			return fmt.Errorf("fatal error config file: %w", err)
		}
	} else {
		fmt.Println("🔧 Using config file:", viper.ConfigFileUsed())
	}

	return nil
}

func setDefaults() {
	// 存储默认值
	wd, _ := os.Getwd()
	defaultStorePath := filepath.Join(wd, ".dv", "objects")
	viper.SetDefault("store.backend", "file")
	viper.SetDefault("store.path", defaultStorePath)

	// Redis 默认值
	viper.SetDefault("redis.url", "redis://localhost:6379/0")
	viper.SetDefault("redis.prefix", "dv:")

	// S3 默认值 (本地 MinIO)
	viper.SetDefault("s3.endpoint", "")
	viper.SetDefault("s3.region", "us-east-1")
	viper.SetDefault("s3.bucket", "datavault")

	// Catalog (SQL 投影) 默认关闭
	viper.SetDefault("catalog.enabled", false)
	viper.SetDefault("catalog.driver", "sqlite")
	viper.SetDefault("catalog.path", filepath.Join(wd, ".dv", "catalog.db"))
	viper.SetDefault("catalog.host", "localhost")
	viper.SetDefault("catalog.port", 5432)
	viper.SetDefault("catalog.sslmode", "disable")
}
