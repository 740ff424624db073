package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUID(t *testing.T) {
	a := NewUID()
	b := NewUID()

	assert.True(t, a.IsValid())
	assert.False(t, a.IsZero())
	// 随机性：两次生成不应相同
	assert.NotEqual(t, a, b)
	// hex 形式不应包含 dash
	assert.NotContains(t, a.String(), "-")
}

func TestParseUID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"Canonical form", "12345678-1234-5678-1234-567812345678", false},
		{"Hex form", "12345678123456781234567812345678", false},
		{"With whitespace", "  12345678123456781234567812345678 ", false},
		{"Empty", "", true},
		{"Garbage", "not-a-uuid", true},
		{"Too short", "1234", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseUID(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.IsValid())
		})
	}
}

func TestParseUID_Normalization(t *testing.T) {
	// canonical 和 hex 形式必须解析到同一个 UID
	a, err := ParseUID("12345678-1234-5678-1234-567812345678")
	require.NoError(t, err)
	b, err := ParseUID("12345678123456781234567812345678")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
