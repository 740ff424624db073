// pkg/codec/codec.go
package codec

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"reflect"

	"github.com/fxamacker/cbor/v2"
)

// 双编码器链 (Codec Chain):
// 主编码器是 JSON —— 最常见、最易调试的路径。
// 当 JSON 编不下去时 (NaN/Inf 浮点数、非字符串 Key 的 Map、大量二进制)，
// 自动降级到 CBOR —— 它更宽容，几乎什么都能装。
// 解码侧按信封里记录的编码器 ID 还原。
const (
	FormatJSON uint8 = 1
	FormatCBOR uint8 = 2
)

// envelopeVersion 是信封格式版本号，用于未来的格式演进
const envelopeVersion uint8 = 1

// DefaultCompression: gzip level 5
// 更高的级别慢很多但压不了多少
const DefaultCompression = 5

// envelope 是落盘的统一外壳
// 信封本身永远用 canonical CBOR 编码，Body 按 Format 编码
type envelope struct {
	Version uint8  `cbor:"v"`
	Format  uint8  `cbor:"f"`
	Type    string `cbor:"t"`
	Body    []byte `cbor:"b"`
}

// 编码选项：强制 Canonical
// 保证相同的值生成相同的字节序列
var encOptions = cbor.EncOptions{
	Sort:          cbor.SortCanonical,
	ShortestFloat: cbor.ShortestFloatNone,
	// 时间统一为 Unix 整数，不生成 Tag 0/1
	Time:          cbor.TimeUnix,
	TimeTag:       cbor.EncTagNone,
	IndefLength:   cbor.IndefLengthForbidden,
	BigIntConvert: cbor.BigIntConvertShortest,
}

var em, _ = encOptions.EncMode()

// 信封解码选项：限制容器规模和嵌套深度，防止恶意构造的头部耗尽内存
// 只用于信封本身 (固定 4 个字段)，不碰 Body
var decOptions = cbor.DecOptions{
	MaxArrayElements: 131072,
	MaxMapPairs:      131072,
	MaxNestedLevels:  100,
	IndefLength:      cbor.IndefLengthForbidden,
	DupMapKey:        cbor.DupMapKeyEnforcedAPF,
	TimeTag:          cbor.DecTagIgnored,
	DefaultMapType:   reflect.TypeOf(map[string]any(nil)),
}

var dm, _ = decOptions.DecMode()

// Body 解码选项：必须比编码侧宽容
// Dump 对容器规模没有上限，所以这里也不能设 ——
// 写得进去的数据必须读得回来
var bodyDecOptions = cbor.DecOptions{
	MaxArrayElements: 2147483647,
	MaxMapPairs:      2147483647,
	MaxNestedLevels:  100,
	DupMapKey:        cbor.DupMapKeyEnforcedAPF,
	TimeTag:          cbor.DecTagIgnored,
	DefaultMapType:   reflect.TypeOf(map[string]any(nil)),
}

var dmBody, _ = bodyDecOptions.DecMode()

// Dump 将任意对象序列化为压缩字节流 (默认压缩级别)
func Dump(v any) ([]byte, error) {
	return DumpLevel(v, DefaultCompression)
}

// DumpLevel 带压缩级别的 Dump
// 链式尝试：JSON -> CBOR。两个都失败才算失败。
func DumpLevel(v any, level int) ([]byte, error) {
	return dump(typeNameOf(v), v, level)
}

// DumpNamed 在指定的类型名下序列化
// 给写入方和读取方不共享注册表的场景用 (比如跨服务的旧数据)
func DumpNamed(typeName string, v any) ([]byte, error) {
	return dump(typeName, v, DefaultCompression)
}

func dump(typeName string, v any, level int) ([]byte, error) {
	body, format, err := encodeBody(v)
	if err != nil {
		return nil, err
	}

	env := envelope{
		Version: envelopeVersion,
		Format:  format,
		Type:    typeName,
		Body:    body,
	}

	raw, err := em.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal envelope: %w", err)
	}

	return compress(raw, level)
}

// encodeBody 按编码器链编码值本身
func encodeBody(v any) ([]byte, uint8, error) {
	body, jsonErr := json.Marshal(v)
	if jsonErr == nil {
		return body, FormatJSON, nil
	}

	// JSON 拒绝了 —— 交给更宽容的 CBOR
	body, cborErr := em.Marshal(v)
	if cborErr == nil {
		return body, FormatCBOR, nil
	}

	return nil, 0, fmt.Errorf("value not serializable (json: %v): %w", jsonErr, cborErr)
}

// Load 反序列化到调用方给定的目标 (typed load)
func Load(data []byte, v any) error {
	raw, err := decompress(data)
	if err != nil {
		return err
	}

	var env envelope
	if err := dm.Unmarshal(raw, &env); err != nil || env.Version == 0 {
		// 没有信封 (或者信封损坏)：对裸字节做试探性解码
		return decodeTrial(raw, v)
	}

	return decodeBody(env.Format, env.Body, v)
}

// decodeBody 按声明的编码器解码，声明的那个失败时再试另一个
func decodeBody(format uint8, body []byte, v any) error {
	var primary, secondary func([]byte, any) error
	switch format {
	case FormatCBOR:
		primary, secondary = dmBody.Unmarshal, jsonUnmarshal
	default:
		primary, secondary = jsonUnmarshal, dmBody.Unmarshal
	}

	if err := primary(body, v); err != nil {
		if err2 := secondary(body, v); err2 != nil {
			return fmt.Errorf("failed to decode body: %w", err)
		}
	}
	return nil
}

// decodeTrial 对来源不明的字节依次尝试 JSON、CBOR
func decodeTrial(raw []byte, v any) error {
	if err := json.Unmarshal(raw, v); err == nil {
		return nil
	}
	if err := dmBody.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("unrecognized payload: %w", err)
	}
	return nil
}

func jsonUnmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// -----------------------------------------------------------------------------
// gzip 压缩层
// -----------------------------------------------------------------------------

func compress(data []byte, level int) ([]byte, error) {
	var buf bytes.Buffer
	zw, err := gzip.NewWriterLevel(&buf, level)
	if err != nil {
		return nil, fmt.Errorf("invalid compression level %d: %w", level, err)
	}
	if _, err := zw.Write(data); err != nil {
		zw.Close()
		return nil, err
	}
	// 必须先 Close 才能 flush 出完整的 gzip 流
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decompress(data []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("payload is not gzip compressed: %w", err)
	}
	defer zr.Close()

	raw, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress payload: %w", err)
	}
	return raw, nil
}
