package preprocess

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// defaultAliases mirrors original_source's three hardcoded aliases; they
// remain the fallback whenever no user alias file is present.
var defaultAliases = map[string]string{
	"ll": "ls -la",
	"la": "ls -A",
	"l":  "ls -CF",
}

// AliasTable holds the literal token replacements applied at the start of a
// command by ExpandAliases.
type AliasTable struct {
	mu      sync.RWMutex
	aliases map[string]string
}

// NewAliasTable seeds a table with the three built-in aliases.
func NewAliasTable() *AliasTable {
	t := &AliasTable{aliases: make(map[string]string, len(defaultAliases))}
	for k, v := range defaultAliases {
		t.aliases[k] = v
	}
	return t
}

func (t *AliasTable) snapshot() map[string]string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(map[string]string, len(t.aliases))
	for k, v := range t.aliases {
		out[k] = v
	}
	return out
}

func (t *AliasTable) replaceAll(m map[string]string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.aliases = m
}

// ExpandAliases replaces the first token of command with its expansion if
// it names a known alias, exactly once (no recursive re-expansion).
func (t *AliasTable) ExpandAliases(command string) string {
	trimmed := strings.TrimLeft(command, " \t")
	leading := command[:len(command)-len(trimmed)]
	fields := strings.SplitN(trimmed, " ", 2)
	if len(fields) == 0 || fields[0] == "" {
		return command
	}
	aliases := t.snapshot()
	expansion, ok := aliases[fields[0]]
	if !ok {
		return command
	}
	if len(fields) == 2 {
		return leading + expansion + " " + fields[1]
	}
	return leading + expansion
}

// loadAliasFile parses bash-compatible `alias name=value` lines, one per
// line, tolerating blank lines and `#` comments.
func loadAliasFile(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	result := make(map[string]string, len(defaultAliases))
	for k, v := range defaultAliases {
		result[k] = v
	}

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "alias ")
		eq := strings.Index(line, "=")
		if eq < 0 {
			continue
		}
		name := strings.TrimSpace(line[:eq])
		value := strings.Trim(strings.TrimSpace(line[eq+1:]), `'"`)
		if name == "" {
			continue
		}
		result[name] = value
	}
	return result, scanner.Err()
}

// AliasWatcher hot-reloads a user's ~/.bashtool_aliases file, falling back
// to the three built-in aliases when the file is absent — the same
// watch-a-directory-and-reload pattern the teacher repo uses for its plugin
// directory.
type AliasWatcher struct {
	table   *AliasTable
	path    string
	logger  *zap.Logger
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// NewAliasWatcher creates a watcher over aliasFilePath (typically
// "~/.bashtool_aliases", already expanded) backed by table.
func NewAliasWatcher(aliasFilePath string, table *AliasTable, logger *zap.Logger) (*AliasWatcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	w := &AliasWatcher{table: table, path: aliasFilePath, logger: logger, done: make(chan struct{})}
	w.reload()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(aliasFilePath)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, err
	}
	w.watcher = watcher
	go w.run()
	return w, nil
}

func (w *AliasWatcher) reload() {
	m, err := loadAliasFile(w.path)
	if err != nil {
		if !os.IsNotExist(err) {
			w.logger.Warn("failed to read alias file", zap.String("path", w.path), zap.Error(err))
		}
		return
	}
	w.table.replaceAll(m)
	w.logger.Debug("aliases reloaded", zap.String("path", w.path), zap.Int("count", len(m)))
}

func (w *AliasWatcher) run() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) == filepath.Clean(w.path) {
				w.reload()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("alias watcher error", zap.Error(err))
		case <-w.done:
			return
		}
	}
}

// Close stops the watcher goroutine and releases the underlying fsnotify
// watcher.
func (w *AliasWatcher) Close() error {
	close(w.done)
	if w.watcher != nil {
		return w.watcher.Close()
	}
	return nil
}
