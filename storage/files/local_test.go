package files

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_SaveDelete(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := NewLocalStorage(dir, "uploads")
	require.NoError(t, err)

	p, err := s.Save(ctx, "my essay.pdf", strings.NewReader("hello"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(p, "/uploads/"), p)
	assert.True(t, strings.HasSuffix(p, "-my_essay.pdf"), p)

	data, err := os.ReadFile(filepath.Join(dir, filepath.Base(p)))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	require.NoError(t, s.Delete(ctx, p))
	_, err = os.Stat(filepath.Join(dir, filepath.Base(p)))
	assert.True(t, os.IsNotExist(err))

	// deleting twice is fine
	assert.NoError(t, s.Delete(ctx, p))
}

func TestLocalStorage_DeleteForeignPath(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir(), "/uploads/")
	require.NoError(t, err)

	assert.Error(t, s.Delete(context.Background(), "/etc/passwd"))
	assert.Error(t, s.Delete(context.Background(), "/uploads/../secret"))
}

func Test_objectName(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     string
	}{
		{name: "plain", filename: "notes.txt", want: "-notes.txt"},
		{name: "directories dropped", filename: "../../etc/passwd", want: "-passwd"},
		{name: "windows path", filename: `C:\Users\me\hw.docx`, want: "-hw.docx"},
		{name: "empty", filename: "", want: "-file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := objectName(tt.filename)
			assert.True(t, strings.HasSuffix(got, tt.want), "objectName(%q) = %q", tt.filename, got)
		})
	}
}
