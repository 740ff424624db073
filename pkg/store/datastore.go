// pkg/store/datastore.go
package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"datavault/pkg/codec"
	"datavault/pkg/handle"
	"datavault/pkg/types"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// IndexKey 是索引本身在后端里的固定 Key
const IndexKey = "datavault.index"

// deleteWorkers 限制 DeleteAll 对后端的并发删除数
const deleteWorkers = 8

// Mirror 是 Handle 元数据的可选投影 (比如 SQL catalog)
// 投影失败只告警，不影响主流程
type Mirror interface {
	IndexHandle(ctx context.Context, h *handle.Handle) error
	DeleteHandle(ctx context.Context, uid types.UID) error
	DeleteAll(ctx context.Context) error
}

// Options 控制 Add 时生成的 Handle
// 零值全部使用默认 (生成 UID、"obj" 前缀、".obj" 后缀、空标签)
type Options struct {
	UID        types.UID
	TypePrefix string
	FileSuffix string
	Label      string
}

// DataStore 是对象持久化的门面：
// 内存里一张 UID -> Handle 的索引，payload 交给 Backend。
// 注意：索引和 payload 之间没有事务保证 ——
// 操作中途被打断可能让两者失去同步，这是设计上接受的代价。
type DataStore struct {
	mu      sync.RWMutex
	handles map[types.UID]*handle.Handle
	nextSeq int64

	backend Backend
	mirror  Mirror
}

// indexDoc 是索引落盘的格式
type indexDoc struct {
	Handles []*handle.Handle `json:"handles" cbor:"handles"`
}

// New 创建一个空的 DataStore
func New(backend Backend) *DataStore {
	return &DataStore{
		handles: make(map[types.UID]*handle.Handle),
		nextSeq: 1,
		backend: backend,
	}
}

// SetMirror 挂上可选的元数据投影
func (ds *DataStore) SetMirror(m Mirror) { ds.mirror = m }

// -----------------------------------------------------------------------------
// CRUD
// -----------------------------------------------------------------------------

// Add 序列化 obj 并写入后端，返回它的 UID
// opts.UID 非空时沿用调用方的 UID (重复 Add 等于覆盖)
func (ds *DataStore) Add(ctx context.Context, obj any, opts Options) (types.UID, error) {
	uid := opts.UID
	if uid.IsZero() {
		uid = types.NewUID()
	}

	payload, err := codec.Dump(obj)
	if err != nil {
		return "", fmt.Errorf("failed to serialize object: %w", err)
	}

	h := handle.New(uid, opts.TypePrefix, opts.FileSuffix, opts.Label)

	// 先落 payload，成功了才登记 Handle ——
	// 否则写入失败会在索引里留下一条指向空 Key 的悬挂记录
	if err := ds.backend.Put(ctx, h.Filename(), payload); err != nil {
		return "", fmt.Errorf("failed to store payload for %s: %w", uid, err)
	}

	ds.mu.Lock()
	if old, ok := ds.handles[uid]; ok {
		// 覆盖：沿用原插入序号，保持查找顺序稳定
		h.Seq = old.Seq
	} else {
		h.Seq = ds.nextSeq
		ds.nextSeq++
	}
	ds.handles[uid] = h
	ds.mu.Unlock()

	ds.mirrorIndex(ctx, h)

	if err := ds.SaveIndex(ctx); err != nil {
		return "", err
	}
	return uid, nil
}

// Retrieve 按 UID 取回对象
// 未知 UID 返回 ErrNotFound；类型无法还原时返回 *codec.Failed 占位对象
func (ds *DataStore) Retrieve(ctx context.Context, uid types.UID) (any, error) {
	h, err := ds.handleFor(uid)
	if err != nil {
		return nil, err
	}

	payload, err := ds.backend.Get(ctx, h.Filename())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch payload for %s: %w", uid, err)
	}
	return codec.LoadAny(payload)
}

// Update 用新对象覆盖已有 payload，Handle 保持不变
func (ds *DataStore) Update(ctx context.Context, uid types.UID, obj any) error {
	h, err := ds.handleFor(uid)
	if err != nil {
		return err
	}

	payload, err := codec.Dump(obj)
	if err != nil {
		return fmt.Errorf("failed to serialize object: %w", err)
	}
	if err := ds.backend.Put(ctx, h.Filename(), payload); err != nil {
		return fmt.Errorf("failed to overwrite payload for %s: %w", uid, err)
	}
	return nil
}

// Delete 删除 payload 和对应的 Handle，并持久化索引
func (ds *DataStore) Delete(ctx context.Context, uid types.UID) error {
	h, err := ds.handleFor(uid)
	if err != nil {
		return err
	}

	if err := ds.backend.Delete(ctx, h.Filename()); err != nil {
		return fmt.Errorf("failed to delete payload for %s: %w", uid, err)
	}

	ds.mu.Lock()
	delete(ds.handles, uid)
	ds.mu.Unlock()

	ds.mirrorDelete(ctx, uid)

	return ds.SaveIndex(ctx)
}

// DeleteAll 清空所有 payload 和整个索引
// 后端删除是并发的 (有上限)，索引只在最后保存一次
func (ds *DataStore) DeleteAll(ctx context.Context) error {
	snapshot := ds.Handles()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(deleteWorkers)
	for _, h := range snapshot {
		g.Go(func() error {
			return ds.backend.Delete(gctx, h.Filename())
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("failed to delete payloads: %w", err)
	}

	ds.mu.Lock()
	ds.handles = make(map[types.UID]*handle.Handle)
	ds.nextSeq = 1
	ds.mu.Unlock()

	if ds.mirror != nil {
		if err := ds.mirror.DeleteAll(ctx); err != nil {
			logrus.WithError(err).Warn("datastore: catalog mirror delete-all failed")
		}
	}

	return ds.SaveIndex(ctx)
}

// -----------------------------------------------------------------------------
// 查找
// -----------------------------------------------------------------------------

// GetHandle 返回 UID 对应的 Handle
func (ds *DataStore) GetHandle(uid types.UID) (*handle.Handle, error) {
	return ds.handleFor(uid)
}

// FindUID 按 (前缀, 标签) 找到第一个匹配的 UID (插入顺序)
// 没有匹配返回 ErrNotFound；多条匹配只告警，返回最早插入的那条
func (ds *DataStore) FindUID(typePrefix, label string) (types.UID, error) {
	matches := ds.FindAllUIDs(typePrefix, label)
	if len(matches) == 0 {
		return "", ErrNotFound
	}
	if len(matches) > 1 {
		logrus.WithFields(logrus.Fields{
			"type_prefix": typePrefix,
			"label":       label,
			"matches":     len(matches),
		}).Warn("datastore: ambiguous label, returning first match")
	}
	return matches[0], nil
}

// FindAllUIDs 返回所有匹配的 UID，按插入顺序排列
// 需要显式处理歧义的调用方用它替代 FindUID
func (ds *DataStore) FindAllUIDs(typePrefix, label string) []types.UID {
	ds.mu.RLock()
	var matched []*handle.Handle
	for _, h := range ds.handles {
		if h.Matches(typePrefix, label) {
			matched = append(matched, h)
		}
	}
	ds.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool { return matched[i].Seq < matched[j].Seq })

	uids := make([]types.UID, len(matched))
	for i, h := range matched {
		uids[i] = h.UID
	}
	return uids
}

// Handles 返回当前索引的快照，按插入顺序排列
func (ds *DataStore) Handles() []*handle.Handle {
	ds.mu.RLock()
	snap := make([]*handle.Handle, 0, len(ds.handles))
	for _, h := range ds.handles {
		snap = append(snap, h)
	}
	ds.mu.RUnlock()

	sort.Slice(snap, func(i, j int) bool { return snap[i].Seq < snap[j].Seq })
	return snap
}

// Len 返回索引里的 Handle 数量
func (ds *DataStore) Len() int {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	return len(ds.handles)
}

// -----------------------------------------------------------------------------
// 索引持久化
// -----------------------------------------------------------------------------

// SaveIndex 把整个索引写到后端的固定 Key 下
// 每次变更都全量重写 —— O(索引大小)，小索引无压力
func (ds *DataStore) SaveIndex(ctx context.Context) error {
	doc := indexDoc{Handles: ds.Handles()}

	data, err := codec.Dump(doc)
	if err != nil {
		return fmt.Errorf("failed to serialize index: %w", err)
	}
	if err := ds.backend.Put(ctx, IndexKey, data); err != nil {
		return fmt.Errorf("failed to persist index: %w", err)
	}
	return nil
}

// LoadIndex 从后端恢复索引
// 从未保存过时返回 ErrIndexNotFound (调用方可据此从空索引开始)
func (ds *DataStore) LoadIndex(ctx context.Context) error {
	data, err := ds.backend.Get(ctx, IndexKey)
	if errors.Is(err, ErrNotFound) {
		logrus.Warn("datastore: index has not been saved yet, starting empty")
		return ErrIndexNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to fetch index: %w", err)
	}

	var doc indexDoc
	if err := codec.Load(data, &doc); err != nil {
		return fmt.Errorf("corrupted index payload: %w", err)
	}

	ds.mu.Lock()
	defer ds.mu.Unlock()
	ds.handles = make(map[types.UID]*handle.Handle, len(doc.Handles))
	ds.nextSeq = 1
	for _, h := range doc.Handles {
		ds.handles[h.UID] = h
		if h.Seq >= ds.nextSeq {
			ds.nextSeq = h.Seq + 1
		}
	}
	return nil
}

// -----------------------------------------------------------------------------
// 后端诊断
// -----------------------------------------------------------------------------

// Keys 列出后端里所有的物理 Key (包括索引自身)
func (ds *DataStore) Keys(ctx context.Context) ([]string, error) {
	return ds.backend.Keys(ctx)
}

// Flush 删除后端里的每一个 Key 并重置内存索引
// 这是比 DeleteAll 更彻底的清场：孤儿 payload 也会被扫掉
func (ds *DataStore) Flush(ctx context.Context) error {
	keys, err := ds.backend.Keys(ctx)
	if err != nil {
		return err
	}
	for _, key := range keys {
		if err := ds.backend.Delete(ctx, key); err != nil {
			return fmt.Errorf("failed to flush key %s: %w", key, err)
		}
	}

	ds.mu.Lock()
	ds.handles = make(map[types.UID]*handle.Handle)
	ds.nextSeq = 1
	ds.mu.Unlock()

	if ds.mirror != nil {
		if err := ds.mirror.DeleteAll(ctx); err != nil {
			logrus.WithError(err).Warn("datastore: catalog mirror delete-all failed")
		}
	}
	return nil
}

// -----------------------------------------------------------------------------
// 内部
// -----------------------------------------------------------------------------

func (ds *DataStore) handleFor(uid types.UID) (*handle.Handle, error) {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	h, ok := ds.handles[uid]
	if !ok {
		return nil, ErrNotFound
	}
	return h, nil
}

func (ds *DataStore) mirrorIndex(ctx context.Context, h *handle.Handle) {
	if ds.mirror == nil {
		return
	}
	if err := ds.mirror.IndexHandle(ctx, h); err != nil {
		logrus.WithError(err).WithField("uid", h.UID).Warn("datastore: catalog mirror index failed")
	}
}

func (ds *DataStore) mirrorDelete(ctx context.Context, uid types.UID) {
	if ds.mirror == nil {
		return
	}
	if err := ds.mirror.DeleteHandle(ctx, uid); err != nil {
		logrus.WithError(err).WithField("uid", uid).Warn("datastore: catalog mirror delete failed")
	}
}
