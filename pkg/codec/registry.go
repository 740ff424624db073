// pkg/codec/registry.go
package codec

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/sirupsen/logrus"
)

// 类型注册表：存储时把类型名写进信封，加载时按名字还原实例。
// 这是 LoadAny 能返回具体类型 (而不是 map[string]any) 的前提。
// 没注册的类型不会让加载失败 —— 它们降级为 *Failed 占位对象。

var registry = struct {
	mu        sync.RWMutex
	factories map[string]func() any
	names     map[reflect.Type]string
}{
	factories: make(map[string]func() any),
	names:     make(map[reflect.Type]string),
}

// Register 登记一个类型名和它的构造函数
// factory 必须返回指针，例如 func() any { return new(Blob) }
func Register(name string, factory func() any) {
	if name == "" {
		panic("codec: cannot register empty type name")
	}
	probe := factory()
	t := reflect.TypeOf(probe)
	if t == nil || t.Kind() != reflect.Pointer {
		panic(fmt.Sprintf("codec: factory for %q must return a pointer", name))
	}

	registry.mu.Lock()
	defer registry.mu.Unlock()
	if _, dup := registry.factories[name]; dup {
		panic(fmt.Sprintf("codec: type %q registered twice", name))
	}
	registry.factories[name] = factory
	registry.names[t] = name
	registry.names[t.Elem()] = name
}

// typeNameOf 反查值对应的注册名，没注册则返回空串
func typeNameOf(v any) string {
	t := reflect.TypeOf(v)
	if t == nil {
		return ""
	}
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	return registry.names[t]
}

func lookupFactory(name string) (func() any, bool) {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	f, ok := registry.factories[name]
	return f, ok
}

// Failed 是“尽力而为加载”的占位对象
// 当 payload 指向的类型无法还原时，返回它而不是报错
type Failed struct {
	TypeName string `json:"type_name"`
	Format   uint8  `json:"format"`
	Err      string `json:"error"`
	// Raw 保留未解码的 Body，调用方仍有机会自行处理
	Raw []byte `json:"-"`
}

func (f *Failed) String() string {
	return fmt.Sprintf("Failed{type=%s, codec=%d, err=%s}", f.TypeName, f.Format, f.Err)
}

func newFailed(env envelope, cause error) *Failed {
	return &Failed{
		TypeName: env.Type,
		Format:   env.Format,
		Err:      cause.Error(),
		Raw:      env.Body,
	}
}

// LoadAny 反序列化为“某个对象”，类型由信封里的类型名决定
//
// 降级链:
//  1. 信封完整且类型已注册 -> 具体类型实例
//  2. 类型未注册或 Body 解不开 -> *Failed 占位对象 (带诊断信息)，不报错
//  3. 信封缺失 -> 对裸字节做泛型解码 (map[string]any 等)
func LoadAny(data []byte) (any, error) {
	raw, err := decompress(data)
	if err != nil {
		return nil, err
	}

	var env envelope
	if err := dm.Unmarshal(raw, &env); err != nil || env.Version == 0 {
		var generic any
		if err := decodeTrial(raw, &generic); err != nil {
			return nil, err
		}
		return generic, nil
	}

	// 匿名 payload：没有类型名，直接泛型解码 Body
	if env.Type == "" {
		var generic any
		if err := decodeBody(env.Format, env.Body, &generic); err != nil {
			return nil, err
		}
		return generic, nil
	}

	factory, ok := lookupFactory(env.Type)
	if !ok {
		cause := fmt.Errorf("type %q is not registered", env.Type)
		logrus.WithField("type", env.Type).Warn("codec: degrading unresolvable payload to Failed placeholder")
		return newFailed(env, cause), nil
	}

	inst := factory()
	if err := decodeBody(env.Format, env.Body, inst); err != nil {
		logrus.WithFields(logrus.Fields{
			"type": env.Type,
			"err":  err,
		}).Warn("codec: body decode failed, degrading to Failed placeholder")
		return newFailed(env, err), nil
	}
	return inst, nil
}
