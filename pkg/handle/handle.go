// pkg/handle/handle.go
package handle

import (
	"fmt"
	"time"

	"datavault/pkg/types"
)

// 默认的命名元数据，与历史数据保持兼容
const (
	DefaultTypePrefix = "obj"
	DefaultFileSuffix = ".obj"
)

// Handle 把一个不透明的 UID 映射到后端里的一条 payload
// 它只是元数据记录：不做 IO，不持有数据
// 除了被整体替换之外是不可变的
type Handle struct {
	UID        types.UID `json:"uid" cbor:"uid"`
	TypePrefix string    `json:"type_prefix" cbor:"type_prefix"`
	FileSuffix string    `json:"file_suffix" cbor:"file_suffix"`
	Label      string    `json:"label" cbor:"label"`

	// Seq 是插入序号，保证按 Label 查找时的确定性顺序
	Seq     int64     `json:"seq" cbor:"seq"`
	Created time.Time `json:"created" cbor:"created"`
}

// New 创建一个新的 Handle，空字段填默认值
func New(uid types.UID, typePrefix, fileSuffix, label string) *Handle {
	if typePrefix == "" {
		typePrefix = DefaultTypePrefix
	}
	if fileSuffix == "" {
		fileSuffix = DefaultFileSuffix
	}
	return &Handle{
		UID:        uid,
		TypePrefix: typePrefix,
		FileSuffix: fileSuffix,
		Label:      label,
		Created:    time.Now(),
	}
}

// Key 返回 payload 在后端里的 Key: "<prefix>-<uid>"
// Redis 直接用它，文件后端在它后面追加 FileSuffix
func (h *Handle) Key() string {
	return fmt.Sprintf("%s-%s", h.TypePrefix, h.UID)
}

// Filename 返回文件后端使用的文件名: "<prefix>-<uid><suffix>"
func (h *Handle) Filename() string {
	return h.Key() + h.FileSuffix
}

// Matches 检查 Handle 是否同时匹配给定的前缀和标签
func (h *Handle) Matches(typePrefix, label string) bool {
	return h.TypePrefix == typePrefix && h.Label == label
}

func (h *Handle) String() string {
	return fmt.Sprintf("Handle{uid=%s, prefix=%s, label=%q}", h.UID, h.TypePrefix, h.Label)
}
