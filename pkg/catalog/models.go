package catalog

import (
	"time"

	"gorm.io/datatypes"
)

// HandleModel 是 handle.Handle 在关系型数据库中的投影 (索引)
// 主索引仍然在 DataStore 内存里，这里只是给 SQL 查询用的镜像：
// 按标签、按前缀、按时间范围检索，内存索引做不到的都走这里
type HandleModel struct {
	// UID 是主键 (32 位 hex)
	UID string `gorm:"primaryKey;type:char(32)"`

	// 基础元数据 (B-Tree 索引，适合精确查找)
	TypePrefix string `gorm:"index;type:varchar(64)"`
	Label      string `gorm:"index;type:varchar(255)"`
	FileSuffix string `gorm:"type:varchar(32)"`

	// Seq 保留插入顺序，歧义查询按它排序
	Seq int64 `gorm:"index"`

	// Meta: 存储调用方附加的非结构化数据 (来源、版本号、Tags 等)
	Meta datatypes.JSON

	Created   time.Time
	UpdatedAt time.Time
}

// TableName 强制指定表名
func (HandleModel) TableName() string {
	return "handles"
}
