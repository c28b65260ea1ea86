package pathtranslator

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestTranslator(t *testing.T) *Translator {
	t.Helper()
	tr, err := New(t.TempDir(), zap.NewNop())
	require.NoError(t, err)
	return tr
}

func TestRoundTripSymmetry(t *testing.T) {
	tr := newTestTranslator(t)

	cases := []string{
		"/home/claude",
		"/home/claude/notes.txt",
		"/mnt/user-data/uploads/data.csv",
		"/mnt/user-data/outputs/report/final.pdf",
	}
	for _, unixPath := range cases {
		t.Run(unixPath, func(t *testing.T) {
			win, err := tr.ToWindows(unixPath)
			require.NoError(t, err)

			back, err := tr.ToUnix(win)
			require.NoError(t, err)
			assert.Equal(t, unixPath, back)
		})
	}
}

func TestToWindowsUnmapped(t *testing.T) {
	tr := newTestTranslator(t)
	_, err := tr.ToWindows("/etc/passwd")
	assert.Error(t, err)
	var target *UnmappedPathError
	assert.ErrorAs(t, err, &target)
}

func TestRootMapsToDirectoryNotEmptyString(t *testing.T) {
	tr := newTestTranslator(t)
	win, err := tr.ToWindows("/home/claude")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tr.WorkspaceRoot(), "claude"), win)
}

func TestTranslatePathsInStringIdentityOutsideWorkspace(t *testing.T) {
	tr := newTestTranslator(t)
	text := `dir C:\Windows\System32`
	assert.Equal(t, text, tr.TranslatePathsInString(text, ToUnixDir))
}

func TestTranslatePathsInStringToWindows(t *testing.T) {
	tr := newTestTranslator(t)
	text := "cat /home/claude/a.txt /mnt/user-data/uploads/b.csv"
	got := tr.TranslatePathsInString(text, ToWindowsDir)
	assert.Contains(t, got, filepath.Join(tr.WorkspaceRoot(), "claude", "a.txt"))
	assert.Contains(t, got, filepath.Join(tr.WorkspaceRoot(), "uploads", "b.csv"))
}
