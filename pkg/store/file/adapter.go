package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"datavault/pkg/store"
)

// tempPrefix 标记写入中的临时文件，它们不是有效的 Key
const tempPrefix = "temp-"

// Adapter 实现了 store.Backend 接口，payload 落在一个本地目录里
// 每个 Key 对应一个文件
type Adapter struct {
	rootPath string // 比如: /var/lib/datavault/objects
}

// NewAdapter 创建一个新的目录存储适配器
func NewAdapter(root string) (*Adapter, error) {
	// 确保根目录存在
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create root storage dir: %w", err)
	}
	return &Adapter{rootPath: root}, nil
}

// Root 返回适配器的根目录
func (s *Adapter) Root() string { return s.rootPath }

func (s *Adapter) layout(key string) string {
	return filepath.Join(s.rootPath, key)
}

func (s *Adapter) Put(ctx context.Context, key string, data []byte) error {
	targetPath := s.layout(key)

	// 原子写入：先写临时文件，再 Rename
	// 保证要么文件不存在，要么文件是完整的
	tempFile, err := os.CreateTemp(s.rootPath, tempPrefix+"*")
	if err != nil {
		return err
	}
	// 成功 Rename 后这个删除会失效，无害
	defer os.Remove(tempFile.Name())

	if _, err := tempFile.Write(data); err != nil {
		tempFile.Close()
		return err
	}
	// 必须先关闭才能 Rename
	if err := tempFile.Close(); err != nil {
		return err
	}

	if err := os.Rename(tempFile.Name(), targetPath); err != nil {
		return fmt.Errorf("failed to finalize %s: %w", key, err)
	}
	return nil
}

func (s *Adapter) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(s.layout(key))
	if os.IsNotExist(err) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (s *Adapter) Delete(ctx context.Context, key string) error {
	err := os.Remove(s.layout(key))
	if os.IsNotExist(err) {
		return nil // 幂等
	}
	return err
}

func (s *Adapter) Keys(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.rootPath)
	if err != nil {
		return nil, fmt.Errorf("failed to list storage dir: %w", err)
	}

	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		// 正在写入的临时文件不算 Key，否则 Flush 会跟 Rename 赛跑
		if strings.HasPrefix(e.Name(), tempPrefix) {
			continue
		}
		keys = append(keys, e.Name())
	}
	return keys, nil
}
