// pkg/fsutil/ignore.go
package fsutil

import (
	"os"
	"path/filepath"

	gitignore "github.com/sabhiram/go-gitignore"
)

// Matcher 封装目录遍历时的忽略逻辑
type Matcher struct {
	ignorer *gitignore.GitIgnore
}

// NewMatcher 初始化忽略匹配器
// rootPath: 用于查找 .dvignore 文件的根目录
func NewMatcher(rootPath string) (*Matcher, error) {
	// 系统级默认规则，强制生效
	defaultRules := []string{
		".dv",  // 仓库自身的数据目录，索引进去会无限递归
		".git", // Git 的数据目录

		"config.yaml", // 配置文件里可能有 Redis/S3 凭据
		".env",

		".DS_Store", // macOS
		"Thumbs.db", // Windows
	}

	var ignorer *gitignore.GitIgnore
	var err error

	ignoreFilePath := filepath.Join(rootPath, ".dvignore")
	if _, errStat := os.Stat(ignoreFilePath); errStat == nil {
		// 用户定义了 .dvignore -> 与默认规则合并编译
		ignorer, err = gitignore.CompileIgnoreFileAndLines(ignoreFilePath, defaultRules...)
	} else {
		ignorer = gitignore.CompileIgnoreLines(defaultRules...)
	}
	if err != nil {
		return nil, err
	}

	return &Matcher{ignorer: ignorer}, nil
}

// Matches 返回 true 表示该路径应当被忽略
// path 应该是相对于根目录的相对路径
func (m *Matcher) Matches(path string) bool {
	if m.ignorer == nil {
		return false
	}
	return m.ignorer.MatchesPath(path)
}
