// cmd/dv/commands/put.go

package commands

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"datavault/pkg/blob"
	"datavault/pkg/fsutil"
	"datavault/pkg/store"

	"github.com/spf13/cobra"
)

var putLabel string

var putCmd = &cobra.Command{
	Use:   "put [path]",
	Short: "Store a file (or every file under a directory) in the vault",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if DV == nil {
			return fmt.Errorf("app not initialized")
		}
		targetPath := args[0] // 可能是文件，也可能是目录

		ctx := context.Background()
		start := time.Now()

		// 忽略规则以遍历起点为根 (.dvignore 放在那里)
		matcher, err := fsutil.NewMatcher(targetPath)
		if err != nil {
			return fmt.Errorf("failed to load ignore rules: %w", err)
		}

		addedCount := 0
		var totalSize int64

		walkFn := func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err // 权限错误等
			}

			rel, relErr := filepath.Rel(targetPath, path)
			if relErr != nil {
				rel = path
			}
			if rel == "." {
				// 起点本身就是一个文件
				rel = filepath.Base(path)
			}

			if matcher.Matches(rel) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			// 目录本身不需要存，只处理文件
			if d.IsDir() {
				return nil
			}

			b, err := blob.FromFile(path)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}

			// 标签默认是相对路径，方便 dv find 反查
			label := putLabel
			if label == "" {
				label = filepath.ToSlash(rel)
			}

			uid, err := DV.Store.Add(ctx, b, store.Options{
				TypePrefix: "blob",
				Label:      label,
			})
			if err != nil {
				return fmt.Errorf("failed to store %s: %w", path, err)
			}

			addedCount++
			totalSize += b.Size()
			fmt.Printf("%s  %s\n", uid, path)
			return nil
		}

		if err := filepath.WalkDir(targetPath, walkFn); err != nil {
			return fmt.Errorf("walk failed: %w", err)
		}

		if addedCount > 0 {
			fmt.Printf("✅ Stored %d files (%d bytes) in %s\n", addedCount, totalSize, time.Since(start))
		} else {
			fmt.Println("⚠️  No files stored.")
		}

		return nil
	},
}

func init() {
	putCmd.Flags().StringVarP(&putLabel, "label", "l", "", "Label to attach (default: relative path)")
	rootCmd.AddCommand(putCmd)
}
