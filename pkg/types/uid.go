// pkg/types/uid.go
package types

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// UID 是存储对象的不透明唯一标识 (UUID hex, 32 字符)
// 这是一个“值对象”，应当是不可变的。
type UID string

func (u UID) String() string { return string(u) }

func (u UID) IsZero() bool { return u == "" }

// 简单的长度检查
func (u UID) IsValid() bool { return len(u) == 32 }

// NewUID 生成一个新的随机标识
func NewUID() UID {
	id := uuid.New()
	return UID(hexString(id))
}

// ParseUID 校验并规范化外部输入
// 同时接受 canonical 形式 ("xxxxxxxx-xxxx-...") 和 32 位 hex 形式
func ParseUID(s string) (UID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("empty uid")
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return "", fmt.Errorf("invalid uid %q: %w", s, err)
	}
	return UID(hexString(id)), nil
}

// hexString 去掉 dash，统一为 32 位 hex (与存储 Key 保持一致)
func hexString(id uuid.UUID) string {
	return strings.ReplaceAll(id.String(), "-", "")
}
