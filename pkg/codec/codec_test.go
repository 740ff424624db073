package codec

import (
	"bytes"
	"compress/gzip"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 测试用的领域对象
type testProject struct {
	Name    string         `json:"name" cbor:"name"`
	Count   int            `json:"count" cbor:"count"`
	Tags    []string       `json:"tags" cbor:"tags"`
	Budgets map[string]int `json:"budgets" cbor:"budgets"`
}

func init() {
	Register("codec_test.project", func() any { return new(testProject) })
}

func TestDumpLoad_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		in   any
	}{
		{"String", "hello world"},
		{"Int", 42},
		{"Float", 3.75},
		{"Bool", true},
		{"Slice", []string{"a", "b", "c"}},
		{"Map", map[string]int{"x": 1, "y": 2}},
		{"Nested", map[string][]float64{"series": {1.5, 2.5}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := Dump(tt.in)
			require.NoError(t, err)

			// 解回与输入同类型的目标
			switch want := tt.in.(type) {
			case string:
				var got string
				require.NoError(t, Load(data, &got))
				assert.Equal(t, want, got)
			case int:
				var got int
				require.NoError(t, Load(data, &got))
				assert.Equal(t, want, got)
			case float64:
				var got float64
				require.NoError(t, Load(data, &got))
				assert.Equal(t, want, got)
			case bool:
				var got bool
				require.NoError(t, Load(data, &got))
				assert.Equal(t, want, got)
			case []string:
				var got []string
				require.NoError(t, Load(data, &got))
				assert.Equal(t, want, got)
			case map[string]int:
				var got map[string]int
				require.NoError(t, Load(data, &got))
				assert.Equal(t, want, got)
			case map[string][]float64:
				var got map[string][]float64
				require.NoError(t, Load(data, &got))
				assert.Equal(t, want, got)
			}
		})
	}
}

func TestDumpLoad_Struct(t *testing.T) {
	in := testProject{
		Name:    "demo",
		Count:   7,
		Tags:    []string{"alpha", "beta"},
		Budgets: map[string]int{"2026": 100},
	}

	data, err := Dump(in)
	require.NoError(t, err)

	var out testProject
	require.NoError(t, Load(data, &out))
	assert.Equal(t, in, out)
}

func TestDump_FallbackCodec(t *testing.T) {
	// JSON 编不了 NaN —— 必须走 CBOR 降级路径
	t.Run("NaN float", func(t *testing.T) {
		data, err := Dump(math.NaN())
		require.NoError(t, err)

		var got float64
		require.NoError(t, Load(data, &got))
		assert.True(t, math.IsNaN(got))
	})

	// JSON 编不了 float key 的 Map
	t.Run("Float-keyed map", func(t *testing.T) {
		in := map[float64]string{1.5: "a", 2.5: "b"}
		data, err := Dump(in)
		require.NoError(t, err)

		var got map[float64]string
		require.NoError(t, Load(data, &got))
		assert.Equal(t, in, got)
	})

	t.Run("Inf float", func(t *testing.T) {
		data, err := Dump(math.Inf(1))
		require.NoError(t, err)

		var got float64
		require.NoError(t, Load(data, &got))
		assert.True(t, math.IsInf(got, 1))
	})
}

func TestDumpLoad_OversizeFallbackContainer(t *testing.T) {
	// 超过信封解码限制 (131072) 的容器也必须能读回来：
	// Dump 不设上限，Load 就不能设
	const n = 131073
	in := make(map[float64]int, n)
	for i := range n {
		in[float64(i)+0.5] = i
	}

	// float key 保证走 CBOR 降级路径
	data, err := Dump(in)
	require.NoError(t, err)

	var got map[float64]int
	require.NoError(t, Load(data, &got), "payload written by Dump must be readable")
	assert.Equal(t, n, len(got))
	assert.Equal(t, 7, got[7.5])
}

func TestDump_Unserializable(t *testing.T) {
	// 两个编码器都处理不了 channel
	_, err := Dump(make(chan int))
	assert.Error(t, err)
}

func TestLoad_BarePayload(t *testing.T) {
	// 没有信封的裸 JSON (gzip 压缩过)：试探性解码应当兜住
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(`{"legacy": true, "n": 3}`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	var got map[string]any
	require.NoError(t, Load(buf.Bytes(), &got))
	assert.Equal(t, true, got["legacy"])
}

func TestLoad_NotGzip(t *testing.T) {
	var got any
	err := Load([]byte("plainly not compressed"), &got)
	assert.Error(t, err)
}

func TestDump_Compresses(t *testing.T) {
	// 高度重复的数据压缩后必须显著变小
	in := make([]int, 0, 4096)
	for range 4096 {
		in = append(in, 7)
	}
	data, err := Dump(in)
	require.NoError(t, err)
	assert.Less(t, len(data), 1024)
}
