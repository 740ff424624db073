package commands

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

// keys 列出后端的物理 Key，主要用于排查索引和后端不同步的情况
var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List raw backend keys (debugging)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if DV == nil {
			return fmt.Errorf("app not initialized")
		}

		keys, err := DV.Store.Keys(context.Background())
		if err != nil {
			return fmt.Errorf("failed to list keys: %w", err)
		}

		sort.Strings(keys)
		for _, k := range keys {
			fmt.Println(k)
		}
		fmt.Printf("\n%d keys (index included).\n", len(keys))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(keysCmd)
}
