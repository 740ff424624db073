// pkg/blob/blob.go
package blob

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"datavault/pkg/codec"
	"datavault/pkg/fsutil"
)

// Blob 是一个二进制文件的内存包装
// 它让文件内容可以像普通对象一样被 DataStore 存取，
// 不需要落盘就能在各处传递。
type Blob struct {
	Name     string    `json:"name" cbor:"name"`
	Filename string    `json:"filename" cbor:"filename"`
	Created  time.Time `json:"created" cbor:"created"`
	Modified time.Time `json:"modified" cbor:"modified"`
	Data     []byte    `json:"data" cbor:"data"`
}

func init() {
	// 让 Blob 能从 DataStore 里按具体类型还原
	codec.Register("datavault.blob", func() any { return new(Blob) })
}

// New 从内存数据构造 Blob
func New(name string, data []byte) *Blob {
	now := time.Now()
	return &Blob{
		Name:     name,
		Created:  now,
		Modified: now,
		Data:     data,
	}
}

// FromFile 读取磁盘文件构造 Blob
func FromFile(path string) (*Blob, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read blob source %q: %w", path, err)
	}
	b := New(filepath.Base(path), data)
	b.Filename = path
	return b, nil
}

// FromReader 从流构造 Blob (例如 HTTP 上传)
func FromReader(name string, r io.Reader) (*Blob, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read blob stream: %w", err)
	}
	return New(name, data), nil
}

// Load 重新读取 path 的内容，覆盖当前数据
// path 为空时回退到 Filename
func (b *Blob) Load(path string) error {
	if path == "" {
		path = b.Filename
	}
	if path == "" {
		return fmt.Errorf("nothing to load: no path and no filename")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to load blob from %q: %w", path, err)
	}
	b.Data = data
	b.Filename = path
	b.Modified = time.Now()
	return nil
}

// Save 把二进制内容写回磁盘，返回实际写入的路径
// path 为空时依次回退到 Filename、Name
func (b *Blob) Save(path string) (string, error) {
	if path == "" {
		path = b.Filename
	}
	if path == "" {
		path = b.Name
	}
	if path == "" {
		return "", fmt.Errorf("nothing to save to: no path, filename or name")
	}

	full, err := fsutil.MakeFilePath(path, filepath.Dir(path), "", true)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(full, b.Data, 0644); err != nil {
		return "", fmt.Errorf("failed to save blob to %q: %w", full, err)
	}
	b.Filename = full
	return full, nil
}

// Reader 返回一个可重复消费的内存 Reader
// 下游可以直接把它喂给任何需要 io.Reader 的解析器
func (b *Blob) Reader() *bytes.Reader {
	return bytes.NewReader(b.Data)
}

func (b *Blob) Size() int64 { return int64(len(b.Data)) }

func (b *Blob) String() string {
	return fmt.Sprintf("Blob{name=%s, size=%d}", b.Name, len(b.Data))
}
