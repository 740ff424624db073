package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var flushForce bool

var flushCmd = &cobra.Command{
	Use:   "flush",
	Short: "Delete every object and reset the vault",
	Long:  `Remove all payloads from the backend (including orphans without an index entry) and clear the index. This cannot be undone.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if DV == nil {
			return fmt.Errorf("app not initialized")
		}

		if !flushForce {
			return fmt.Errorf("flush is destructive; re-run with --force to confirm")
		}

		before := DV.Store.Len()
		if err := DV.Store.Flush(context.Background()); err != nil {
			return fmt.Errorf("flush failed: %w", err)
		}

		fmt.Printf("✅ Flushed vault (%d indexed objects removed).\n", before)
		return nil
	},
}

func init() {
	flushCmd.Flags().BoolVar(&flushForce, "force", false, "Actually do it")
	rootCmd.AddCommand(flushCmd)
}
