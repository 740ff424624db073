// pkg/fsutil/fsutil.go
package fsutil

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

var (
	// 直接丢弃的字符：shell 和两大平台都讨厌它们
	dropChars = regexp.MustCompile(`[!?"'<>]`)
	// 可能被当作分隔符的字符，统一替换为下划线
	sepChars = regexp.MustCompile(`[:/\\*|,]`)
)

// SanitizeFilename 把一个潜在危险的文件名清洗成两大平台都能接受的形式
func SanitizeFilename(raw string) string {
	out := dropChars.ReplaceAllString(raw, "")
	out = sepChars.ReplaceAllString(out, "_")
	return out
}

// MakeFilePath 把 filename/folder/ext 组合成一条可用的绝对路径
// mkdir 为 true 时顺便创建目标目录
func MakeFilePath(filename, folder, ext string, mkdir bool) (string, error) {
	base := filepath.Base(filename)
	if base == "" || base == "." {
		base = "default"
	}
	if ext != "" && !strings.HasSuffix(base, ext) {
		base += ext
	}

	dir := folder
	if dir == "" {
		dir = filepath.Dir(filename)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve folder %q: %w", dir, err)
	}

	if mkdir {
		if err := os.MkdirAll(abs, 0755); err != nil {
			return "", fmt.Errorf("failed to create folder %q: %w", abs, err)
		}
	}

	return filepath.Join(abs, base), nil
}

// SaveText 写文本文件的便捷函数
func SaveText(path, text string) error {
	return os.WriteFile(path, []byte(text), 0644)
}

// LoadText 读文本文件的便捷函数
func LoadText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// LoadLines 读文本文件并按行切分
func LoadLines(path string) ([]string, error) {
	text, err := LoadText(path)
	if err != nil {
		return nil, err
	}
	return strings.Split(strings.TrimRight(text, "\n"), "\n"), nil
}

// ListFiles 列出目录下匹配 pattern 的文件，排序后返回
// pattern 为空时等价于 "*"
func ListFiles(folder, pattern string) ([]string, error) {
	if folder == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		folder = wd
	}
	if pattern == "" {
		pattern = "*"
	}

	matches, err := filepath.Glob(filepath.Join(folder, pattern))
	if err != nil {
		return nil, fmt.Errorf("bad file pattern %q: %w", pattern, err)
	}
	sort.Strings(matches)
	return matches, nil
}
