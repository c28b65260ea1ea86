// Package engine implements spec.md §4.8: the single subprocess chokepoint.
// Engine owns capability detection, the Python venv, per-call invocation,
// and execution statistics. It is constructed once per workspace and shared
// by every orchestrator call; callers are expected to serialize (spec.md
// §5's scheduling model).
package engine

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/diillson/bashtool/config"
	"github.com/diillson/bashtool/utils"
)

// CompletedProcess mirrors the Python source's subprocess.CompletedProcess:
// the three values every invocation method returns.
type CompletedProcess struct {
	ReturnCode int
	Stdout     string
	Stderr     string
	// TimedOut is set when the subprocess was killed for exceeding its
	// timeout bound (spec.md §7's Timeout error kind); TimeoutSeconds
	// carries the bound that was exceeded, for the caller's error message.
	TimedOut       bool
	TimeoutSeconds int
}

// nativeBinaries is the fixed list of Unix utilities §3 says capability
// detection probes for a Windows port of.
var nativeBinaries = []string{"diff", "tar", "awk", "sed", "grep", "jq"}

// Engine is the sole owner of subprocess handles and capability state; its
// lifetime equals the process lifetime (spec.md §3 "Ownership rules").
type Engine struct {
	logger   *zap.Logger
	cwd      string
	testMode bool

	defaultTimeout time.Duration
	pythonTimeout  time.Duration

	available map[string]bool
	paths     map[string]string

	venvPath string

	stats *Stats

	// lookPath is an indirection over exec.LookPath so tests can substitute
	// a fake without touching the real PATH.
	lookPath func(string) (string, error)

	// cmdExec runs the short capability-probe commands (python --version,
	// where bash.exe, where <bin>.exe), the same CommandExecutor seam the
	// teacher uses in utils/exec_utils.go to keep probing mockable.
	cmdExec utils.CommandExecutor
}

// New builds an Engine rooted at cwd. Capability detection and (if needed)
// venv creation both happen synchronously during construction, matching
// spec.md §4.8's "once, at construction" requirement.
func New(cwd string, cfg *config.ConfigManager, logger *zap.Logger, testMode bool) (*Engine, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{
		logger:         logger,
		cwd:            cwd,
		testMode:       testMode,
		defaultTimeout: time.Duration(cfg.GetInt("BASHTOOL_DEFAULT_TIMEOUT_SECONDS", config.DefaultTimeoutSeconds)) * time.Second,
		pythonTimeout:  time.Duration(cfg.GetInt("BASHTOOL_PYTHON_TIMEOUT_SECONDS", config.DefaultPythonTimeoutSeconds)) * time.Second,
		available:      make(map[string]bool),
		paths:          make(map[string]string),
		stats:          newStats(),
		lookPath:       exec.LookPath,
		cmdExec:        utils.NewOSCommandExecutor(),
	}

	if testMode {
		e.available["python"] = true
		e.available["bash"] = true
		for _, b := range nativeBinaries {
			e.available[b] = true
		}
		return e, nil
	}

	e.detectCapabilities()

	venvDir := filepath.Join(cwd, "BASH_TOOL_ENV")
	if e.available["python"] {
		if err := e.ensureVenv(venvDir); err != nil {
			return nil, err
		}
		e.venvPath = venvDir
	}

	return e, nil
}

// Available reports whether a named capability (python, bash, or one of
// nativeBinaries) was detected. Implements strategy.Capabilities.
func (e *Engine) Available(name string) bool { return e.available[name] }

// NativePath returns the resolved path for a detected native capability, or
// "" if it isn't available.
func (e *Engine) NativePath(name string) string { return e.paths[name] }

// GetStats returns a snapshot of per-method and total invocation counters.
func (e *Engine) GetStats() map[string]int64 { return e.stats.snapshot() }

func (e *Engine) detectCapabilities() {
	if out, err := e.cmdExec.Output("python", "--version"); err == nil {
		e.available["python"] = true
		if p, err := e.lookPath("python"); err == nil {
			e.paths["python"] = p
		}
		e.logger.Debug("detected python", zap.String("version", strings.TrimSpace(string(out))))
	}

	for _, candidate := range []string{
		`C:\Program Files\Git\bin\bash.exe`,
		`C:\Program Files (x86)\Git\bin\bash.exe`,
	} {
		if _, err := os.Stat(candidate); err == nil {
			e.available["bash"] = true
			e.paths["bash"] = candidate
			break
		}
	}
	if !e.available["bash"] {
		if out, err := e.cmdExec.Output("where", "bash.exe"); err == nil {
			for _, line := range strings.Split(string(out), "\n") {
				line = strings.TrimSpace(line)
				if line != "" && strings.Contains(line, "Git") {
					e.available["bash"] = true
					e.paths["bash"] = line
					break
				}
			}
		}
	}

	for _, bin := range nativeBinaries {
		if out, err := e.cmdExec.Output("where", bin+".exe"); err == nil {
			lines := strings.Split(strings.TrimSpace(string(out)), "\n")
			if len(lines) > 0 && strings.TrimSpace(lines[0]) != "" {
				e.available[bin] = true
				e.paths[bin] = strings.TrimSpace(lines[0])
			}
		}
	}
}

// VenvUnavailableError is returned when the Python virtual environment
// directory is absent and `python -m venv` fails to create it. There is no
// separately configured venv path, so no other missing location is reported.
type VenvUnavailableError struct {
	Path   string
	Reason string
}

func (e *VenvUnavailableError) Error() string {
	return fmt.Sprintf("python virtual environment unavailable at %s: %s", e.Path, e.Reason)
}

func (e *Engine) ensureVenv(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	cmd := exec.CommandContext(ctx, "python", "-m", "venv", path)
	if err := cmd.Run(); err != nil {
		return &VenvUnavailableError{Path: path, Reason: err.Error()}
	}
	return nil
}

// winToGitBashPath converts `C:\foo\bar` to `/c/foo/bar`, the path form
// Git Bash expects.
var winDriveRe = regexp.MustCompile(`([A-Za-z]):\\`)

func winToGitBashPath(s string) string {
	s = winDriveRe.ReplaceAllStringFunc(s, func(m string) string {
		drive := strings.ToLower(string(m[0]))
		return "/" + drive + "/"
	})
	return strings.ReplaceAll(s, `\`, `/`)
}

func (e *Engine) run(ctx context.Context, method string, timeout time.Duration, path string, args []string, env []string) CompletedProcess {
	e.stats.record(method)
	if e.testMode {
		planned := strings.Join(append([]string{path}, args...), " ")
		e.logger.Debug("test mode: planned command", zap.String("method", method), zap.String("command", planned))
		return CompletedProcess{ReturnCode: 0, Stdout: planned, Stderr: ""}
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Dir = e.cwd
	if env != nil {
		cmd.Env = env
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := CompletedProcess{Stdout: stdout.String(), Stderr: stderr.String()}

	if ctx.Err() == context.DeadlineExceeded {
		result.Stderr = stderr.String()
		result.ReturnCode = -1
		result.TimedOut = true
		result.TimeoutSeconds = int(timeout.Seconds())
		return result
	}
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			result.ReturnCode = exitErr.ExitCode()
		} else {
			result.ReturnCode = 1
			if result.Stderr == "" {
				result.Stderr = err.Error()
			}
		}
	}
	return result
}

// ExecuteCmd runs `cmd /c s` — the simple-Windows-command path.
func (e *Engine) ExecuteCmd(ctx context.Context, s string) CompletedProcess {
	return e.run(ctx, "cmd", e.defaultTimeout, "cmd", []string{"/c", s}, nil)
}

// ExecutePowershell runs the emulator-generated script via a non-interactive,
// no-profile PowerShell invocation.
func (e *Engine) ExecutePowershell(ctx context.Context, s string) CompletedProcess {
	return e.run(ctx, "powershell", e.defaultTimeout, "powershell", []string{"-NoProfile", "-NonInteractive", "-Command", s}, nil)
}

// ExecuteBash runs s through Git Bash, translating any embedded
// `C:\x\y`-style path into Git Bash's `/c/x/y` form first.
func (e *Engine) ExecuteBash(ctx context.Context, s string) CompletedProcess {
	bashPath := e.paths["bash"]
	if bashPath == "" {
		bashPath = "bash.exe"
	}
	return e.run(ctx, "bash", e.defaultTimeout, bashPath, []string{"-c", winToGitBashPath(s)}, nil)
}

// ExecuteNative runs a resolved native .exe directly with args (no shell
// interpolation).
func (e *Engine) ExecuteNative(ctx context.Context, name string, args []string) CompletedProcess {
	path := e.paths[name]
	if path == "" {
		path = name
	}
	return e.run(ctx, "native:"+name, e.defaultTimeout, path, args, nil)
}

// ExecutePython runs python (with the venv's Scripts/bin directory
// prepended to PATH) against args, using the longer Python timeout.
func (e *Engine) ExecutePython(ctx context.Context, args []string) CompletedProcess {
	pythonBin := "python"
	if e.venvPath != "" {
		scripts := filepath.Join(e.venvPath, "Scripts")
		pythonExe := filepath.Join(scripts, "python.exe")
		if _, err := os.Stat(pythonExe); err == nil {
			pythonBin = pythonExe
		}
	}
	env := append(os.Environ(), "PATH="+filepath.Join(e.venvPath, "Scripts")+string(os.PathListSeparator)+os.Getenv("PATH"))
	return e.run(ctx, "python", e.pythonTimeout, pythonBin, args, env)
}
