package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"datavault/pkg/blob"
	"datavault/pkg/codec"
	"datavault/pkg/types"

	"github.com/spf13/cobra"
)

var getOutput string

var getCmd = &cobra.Command{
	Use:   "get [uid]",
	Short: "Retrieve an object by UID",
	Long:  `Fetch an object from the vault. Blobs are written back to disk, everything else is printed as JSON to stdout.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if DV == nil {
			return fmt.Errorf("app not initialized")
		}

		uid, err := types.ParseUID(args[0])
		if err != nil {
			return fmt.Errorf("invalid uid %q: %w", args[0], err)
		}

		obj, err := DV.Store.Retrieve(context.Background(), uid)
		if err != nil {
			return fmt.Errorf("get failed: %w", err)
		}

		switch v := obj.(type) {
		case *blob.Blob:
			// Blob 落回文件系统；--output 优先，否则用原始文件名
			path, err := v.Save(getOutput)
			if err != nil {
				return fmt.Errorf("failed to write blob: %w", err)
			}
			fmt.Printf("✅ Wrote %d bytes to %s\n", v.Size(), path)
			return nil

		case *codec.Failed:
			// 类型解析失败的占位对象：把诊断信息给用户，但不算命令失败
			fmt.Fprintf(os.Stderr, "⚠️  %s\n", v)
			fmt.Printf("unresolvable payload: %d raw bytes preserved\n", len(v.Raw))
			return nil

		default:
			out, err := json.MarshalIndent(v, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to render object: %w", err)
			}
			fmt.Println(string(out))
			return nil
		}
	},
}

func init() {
	getCmd.Flags().StringVarP(&getOutput, "output", "o", "", "Output path for blob payloads")
	rootCmd.AddCommand(getCmd)
}
