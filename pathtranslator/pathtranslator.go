// Package pathtranslator maps the three virtual POSIX roots a tool sees
// onto real subdirectories of a Windows workspace, and back.
package pathtranslator

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// Direction selects which way TranslatePathsInString rewrites a string.
type Direction int

const (
	ToWindowsDir Direction = iota
	ToUnixDir
)

// UnmappedPathError is returned when a path falls outside every mapped root.
type UnmappedPathError struct {
	Path string
}

func (e *UnmappedPathError) Error() string {
	return fmt.Sprintf("path not under a mapped workspace root: %s", e.Path)
}

// root pairs one virtual Unix path with the workspace subdirectory it maps to.
type root struct {
	unix    string
	winSub  string
	winAbs  string
	unixPat *regexp.Regexp
}

// Translator holds the bidirectional mapping for one workspace root.
type Translator struct {
	workspaceRoot string
	roots         []root
	logger        *zap.Logger
	// sorted longest-unix-prefix first so /mnt/user-data/uploads doesn't
	// shadow a more specific root that happens to share a prefix.
}

// New builds a Translator rooted at workspaceRoot, creating the three mapped
// subdirectories (claude, uploads, outputs) if they don't already exist.
func New(workspaceRoot string, logger *zap.Logger) (*Translator, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	abs, err := filepath.Abs(workspaceRoot)
	if err != nil {
		return nil, fmt.Errorf("resolving workspace root: %w", err)
	}

	t := &Translator{workspaceRoot: abs, logger: logger}
	pairs := []struct{ unix, sub string }{
		{"/home/claude", "claude"},
		{"/mnt/user-data/uploads", "uploads"},
		{"/mnt/user-data/outputs", "outputs"},
	}
	for _, p := range pairs {
		winAbs := filepath.Join(abs, p.sub)
		if err := os.MkdirAll(winAbs, 0o755); err != nil {
			return nil, fmt.Errorf("creating mapped directory %s: %w", winAbs, err)
		}
		t.roots = append(t.roots, root{
			unix:   p.unix,
			winSub: p.sub,
			winAbs: winAbs,
		})
	}
	sort.Slice(t.roots, func(i, j int) bool {
		return len(t.roots[i].unix) > len(t.roots[j].unix)
	})
	return t, nil
}

// ToWindows resolves a virtual Unix path to its real workspace path.
func (t *Translator) ToWindows(unixPath string) (string, error) {
	clean := strings.ReplaceAll(unixPath, "\\", "/")
	for _, r := range t.roots {
		if clean == r.unix {
			return r.winAbs, nil
		}
		if strings.HasPrefix(clean, r.unix+"/") {
			rest := strings.TrimPrefix(clean, r.unix+"/")
			return filepath.Join(r.winAbs, filepath.FromSlash(rest)), nil
		}
	}
	return "", &UnmappedPathError{Path: unixPath}
}

// ToUnix resolves a real Windows path to its virtual Unix equivalent.
func (t *Translator) ToUnix(windowsPath string) (string, error) {
	abs := windowsPath
	if a, err := filepath.Abs(windowsPath); err == nil {
		abs = a
	}
	for _, r := range t.roots {
		if equalPath(abs, r.winAbs) {
			return r.unix, nil
		}
		if strings.HasPrefix(abs, r.winAbs+string(filepath.Separator)) {
			rest := strings.TrimPrefix(abs, r.winAbs+string(filepath.Separator))
			return r.unix + "/" + filepath.ToSlash(rest), nil
		}
	}
	return "", &UnmappedPathError{Path: windowsPath}
}

func equalPath(a, b string) bool {
	return filepath.Clean(a) == filepath.Clean(b)
}

// windowsAbsPath matches a drive-letter absolute path like C:\foo\bar or
// C:\foo\bar with spaces, up to the next run of characters that can't be
// part of a path (shell metacharacters, closing quote).
var windowsAbsPath = regexp.MustCompile(`[A-Za-z]:\\(?:[^"'|&;<>\r\n]+)`)

// unixMappedPath matches one of the three virtual roots and any trailing
// path segment made of ordinary path characters.
var unixMappedPathRe = regexp.MustCompile(`(?:/home/claude|/mnt/user-data/uploads|/mnt/user-data/outputs)(?:/[A-Za-z0-9_./\-]*)?`)

// TranslatePathsInString rewrites every recognizable mapped path inside text,
// leaving everything else (including non-workspace absolute paths) untouched.
func (t *Translator) TranslatePathsInString(text string, dir Direction) string {
	switch dir {
	case ToWindowsDir:
		return unixMappedPathRe.ReplaceAllStringFunc(text, func(m string) string {
			w, err := t.ToWindows(m)
			if err != nil {
				return m
			}
			if strings.ContainsAny(w, " \t") {
				return `"` + w + `"`
			}
			return w
		})
	default:
		return windowsAbsPath.ReplaceAllStringFunc(text, func(m string) string {
			m = strings.Trim(m, `"'`)
			u, err := t.ToUnix(m)
			if err != nil {
				return m
			}
			return u
		})
	}
}

// WorkspaceRoot returns the absolute path of the workspace root directory.
func (t *Translator) WorkspaceRoot() string { return t.workspaceRoot }
