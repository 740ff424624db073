package commands

import (
	"fmt"

	"datavault/pkg/handle"
	"datavault/pkg/store"

	"github.com/spf13/cobra"
)

var findPrefix string

var findCmd = &cobra.Command{
	Use:   "find [label]",
	Short: "Look up object UIDs by label",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if DV == nil {
			return fmt.Errorf("app not initialized")
		}
		label := args[0]

		prefix := findPrefix
		if prefix == "" {
			prefix = handle.DefaultTypePrefix
		}

		uids := DV.Store.FindAllUIDs(prefix, label)
		if len(uids) == 0 {
			return fmt.Errorf("no object with prefix %q and label %q: %w", prefix, label, store.ErrNotFound)
		}

		for _, uid := range uids {
			fmt.Println(uid)
		}
		if len(uids) > 1 {
			fmt.Printf("⚠️  %d objects share this label (oldest first).\n", len(uids))
		}
		return nil
	},
}

func init() {
	findCmd.Flags().StringVarP(&findPrefix, "prefix", "p", "", "Type prefix to search under (default \"obj\")")
	rootCmd.AddCommand(findCmd)
}
