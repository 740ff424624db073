package catalog

import (
	"context"
	"errors"
	"fmt"

	"datavault/pkg/handle"
	"datavault/pkg/types"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrHandleNotFound = errors.New("handle not found in catalog")

// Repository 封装所有对 SQL 数据库的操作
// 它实现了 store.Mirror，由 DataStore 在每次变更后调用
type Repository struct {
	db *DB
}

func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// IndexHandle 把 Handle 投影到 SQL 数据库 (幂等写入)
// UID 相同则整行更新：重复 Add 等于覆盖，catalog 要跟主索引保持一致
func (r *Repository) IndexHandle(ctx context.Context, h *handle.Handle) error {
	model := HandleModel{
		UID:        string(h.UID),
		TypePrefix: h.TypePrefix,
		Label:      h.Label,
		FileSuffix: h.FileSuffix,
		Seq:        h.Seq,
		Created:    h.Created,
	}

	err := r.db.GetConn().WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "uid"}},
			UpdateAll: true,
		}).
		Create(&model).Error

	if err != nil {
		return fmt.Errorf("failed to index handle: %w", err)
	}
	return nil
}

// DeleteHandle 移除投影，Key 不存在也算成功 (幂等)
func (r *Repository) DeleteHandle(ctx context.Context, uid types.UID) error {
	return r.db.GetConn().WithContext(ctx).
		Where("uid = ?", string(uid)).
		Delete(&HandleModel{}).Error
}

// DeleteAll 清空整张投影表
func (r *Repository) DeleteAll(ctx context.Context) error {
	return r.db.GetConn().WithContext(ctx).
		Where("1 = 1").
		Delete(&HandleModel{}).Error
}

// GetHandle 按 UID 查单条记录
func (r *Repository) GetHandle(ctx context.Context, uid types.UID) (*HandleModel, error) {
	var model HandleModel
	err := r.db.GetConn().WithContext(ctx).
		Where("uid = ?", string(uid)).
		First(&model).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrHandleNotFound
	}
	if err != nil {
		return nil, err
	}
	return &model, nil
}

// FindByLabel 利用 SQL 索引按前缀+标签检索，按插入顺序返回
func (r *Repository) FindByLabel(ctx context.Context, typePrefix, label string) ([]HandleModel, error) {
	var models []HandleModel
	err := r.db.GetConn().WithContext(ctx).
		Where("type_prefix = ? AND label = ?", typePrefix, label).
		Order("seq ASC").
		Find(&models).Error
	return models, err
}

// List 返回全部记录，按插入顺序
func (r *Repository) List(ctx context.Context) ([]HandleModel, error) {
	var models []HandleModel
	err := r.db.GetConn().WithContext(ctx).
		Order("seq ASC").
		Find(&models).Error
	return models, err
}
