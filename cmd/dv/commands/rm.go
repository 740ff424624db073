package commands

import (
	"context"
	"errors"
	"fmt"

	"datavault/pkg/store"
	"datavault/pkg/types"

	"github.com/spf13/cobra"
)

var rmCmd = &cobra.Command{
	Use:   "rm [uids...]",
	Short: "Delete objects from the vault",
	Args:  cobra.MinimumNArgs(1), // 至少指定一个 UID
	RunE: func(cmd *cobra.Command, args []string) error {
		if DV == nil {
			return fmt.Errorf("app not initialized")
		}

		ctx := context.Background()
		count := 0
		for _, arg := range args {
			uid, err := types.ParseUID(arg)
			if err != nil {
				return fmt.Errorf("invalid uid %q: %w", arg, err)
			}

			if err := DV.Store.Delete(ctx, uid); err != nil {
				if errors.Is(err, store.ErrNotFound) {
					fmt.Printf("⚠️  Not found: %s\n", uid)
					continue
				}
				return fmt.Errorf("delete failed: %w", err)
			}
			fmt.Printf("Deleted: %s\n", uid)
			count++
		}

		if count > 0 {
			fmt.Printf("✅ Removed %d objects.\n", count)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rmCmd)
}
