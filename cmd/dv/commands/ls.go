package commands

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var lsPrefix string

var lsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List stored objects",
	RunE: func(cmd *cobra.Command, args []string) error {
		if DV == nil {
			return fmt.Errorf("app not initialized")
		}

		handles := DV.Store.Handles()
		if len(handles) == 0 {
			fmt.Println("Vault is empty.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "UID\tPREFIX\tLABEL\tCREATED")
		shown := 0
		for _, h := range handles {
			if lsPrefix != "" && h.TypePrefix != lsPrefix {
				continue
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				h.UID, h.TypePrefix, h.Label, h.Created.Format(time.RFC3339))
			shown++
		}
		if err := w.Flush(); err != nil {
			return err
		}

		fmt.Printf("\n%d objects.\n", shown)
		return nil
	},
}

func init() {
	lsCmd.Flags().StringVarP(&lsPrefix, "prefix", "p", "", "Only show objects with this type prefix")
	rootCmd.AddCommand(lsCmd)
}
