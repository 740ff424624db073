package commands

import (
	"context"
	"fmt"
	"os"

	"datavault/pkg/app"
	"datavault/pkg/config"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	// 全局应用实例，供子命令使用
	DV *app.App
)

var rootCmd = &cobra.Command{
	Use:   "dv",
	Short: "DataVault: versioned object storage for structured data",
	// 【关键】PersistentPreRunE 会在所有子命令执行前运行
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// 跳过 init 命令的依赖检查 (因为它就是去创建环境的)
		if cmd.Name() == "init" {
			return nil
		}

		// 统一初始化 App
		var err error
		DV, err = app.NewApp(context.Background())
		if err != nil {
			return fmt.Errorf("failed to initialize datavault: %w\n(Did you run 'dv init'?)", err)
		}
		return nil
	},
}

// Execute 是入口
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// 在初始化时，加载配置
	cobra.OnInitialize(initConfig)

	// 1. 定义全局参数 --config
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.dv/config.yaml)")

	// 2. 定义 store 参数，并绑定到 Viper
	// 这样用户既可以在 yaml 里写，也可以用命令行覆盖
	rootCmd.PersistentFlags().String("store-path", "", "Directory to store objects (file backend)")
	rootCmd.PersistentFlags().String("backend", "", "Storage backend: file, redis or s3")

	if err := viper.BindPFlag("store.path", rootCmd.PersistentFlags().Lookup("store-path")); err != nil {
		fmt.Println("Failed to bind flag:", err)
		os.Exit(1)
	}
	if err := viper.BindPFlag("store.backend", rootCmd.PersistentFlags().Lookup("backend")); err != nil {
		fmt.Println("Failed to bind flag:", err)
		os.Exit(1)
	}
}

// initConfig 读取配置文件和环境变量
func initConfig() {
	if err := config.Load(cfgFile); err != nil {
		fmt.Println("Config error:", err)
		os.Exit(1)
	}
}
