package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"plain.obj", "plain.obj"},
		{`what?is"this'`, "whatisthis"},
		{"a:b/c\\d", "a_b_c_d"},
		{"pipe|comma,star*", "pipe_comma_star_"},
		{"<tag>", "tag"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, SanitizeFilename(tt.input))
	}
}

func TestMakeFilePath(t *testing.T) {
	tmpDir := t.TempDir()

	// 扩展名补全 + 目录创建
	sub := filepath.Join(tmpDir, "nested", "deeper")
	path, err := MakeFilePath("report", sub, ".obj", true)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(sub, "report.obj"), path)

	// 目录应当已被创建
	info, err := os.Stat(sub)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// 已有扩展名不重复追加
	path, err = MakeFilePath("report.obj", sub, ".obj", false)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(sub, "report.obj"), path)
}

func TestSaveLoadText(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "notes.txt")

	require.NoError(t, SaveText(path, "line one\nline two\n"))

	text, err := LoadText(path)
	require.NoError(t, err)
	assert.Equal(t, "line one\nline two\n", text)

	lines, err := LoadLines(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"line one", "line two"}, lines)
}

func TestListFiles(t *testing.T) {
	tmpDir := t.TempDir()
	for _, name := range []string{"b.obj", "a.obj", "c.txt"} {
		require.NoError(t, SaveText(filepath.Join(tmpDir, name), "x"))
	}

	matches, err := ListFiles(tmpDir, "*.obj")
	require.NoError(t, err)
	require.Len(t, matches, 2)
	// 结果必须有序
	assert.Equal(t, "a.obj", filepath.Base(matches[0]))
	assert.Equal(t, "b.obj", filepath.Base(matches[1]))
}

func TestMatcher_Defaults(t *testing.T) {
	m, err := NewMatcher(t.TempDir())
	require.NoError(t, err)

	assert.True(t, m.Matches(".dv/objects/xx"))
	assert.True(t, m.Matches(".git/HEAD"))
	assert.True(t, m.Matches(".env"))
	assert.False(t, m.Matches("data/model.bin"))
}

func TestMatcher_UserRules(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, SaveText(filepath.Join(tmpDir, ".dvignore"), "*.tmp\n"))

	m, err := NewMatcher(tmpDir)
	require.NoError(t, err)

	assert.True(t, m.Matches("scratch.tmp"), "user rule should apply")
	assert.True(t, m.Matches(".git/HEAD"), "defaults should still apply")
	assert.False(t, m.Matches("keep.obj"))
}
