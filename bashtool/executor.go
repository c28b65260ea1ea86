// Package bashtool implements spec.md §4.9: the thin orchestrator that
// wires path translation, sandbox validation, the two preprocessor tiers,
// the parser, the strategy analyzer and the emulator dispatch table around
// a single execution engine, and exposes the §6 tool boundary.
package bashtool

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/diillson/bashtool/bashast"
	"github.com/diillson/bashtool/config"
	"github.com/diillson/bashtool/emulator"
	"github.com/diillson/bashtool/engine"
	"github.com/diillson/bashtool/i18n"
	"github.com/diillson/bashtool/pathtranslator"
	"github.com/diillson/bashtool/preprocess"
	"github.com/diillson/bashtool/sandbox"
	"github.com/diillson/bashtool/strategy"
	"github.com/diillson/bashtool/utils"
)

// ToolInput is the request shape spec.md §6 defines for the tool boundary.
type ToolInput struct {
	Command     string `json:"command"`
	Description string `json:"description"`
}

// Executor is the orchestrator: one instance per workspace, shared across
// every execute() call (spec.md §5's scheduling model — callers serialize).
type Executor struct {
	cfg    *config.ConfigManager
	logger *zap.Logger

	translator   *pathtranslator.Translator
	validator    *sandbox.Validator
	aliases      *preprocess.AliasTable
	aliasWatcher *preprocess.AliasWatcher
	pipeline     *preprocess.PipelineLevel
	eng          *engine.Engine

	home         string
	nestingLimit int
}

// New builds an Executor rooted at the workspace named by
// BASHTOOL_WORKSPACE_ROOT (or config.DefaultWorkspaceRoot).
func New(cfg *config.ConfigManager, logger *zap.Logger) (*Executor, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	i18n.Init()

	workspaceRoot := cfg.GetString("BASHTOOL_WORKSPACE_ROOT")
	if workspaceRoot == "" {
		workspaceRoot = config.DefaultWorkspaceRoot
	}

	translator, err := pathtranslator.New(workspaceRoot, logger)
	if err != nil {
		return nil, fmt.Errorf("building path translator: %w", err)
	}

	validator := sandbox.New(translator.WorkspaceRoot(), logger)

	testMode := cfg.GetBool("BASHTOOL_TEST_MODE", false)
	eng, err := engine.New(translator.WorkspaceRoot(), cfg, logger, testMode)
	if err != nil {
		return nil, fmt.Errorf("building execution engine: %w", err)
	}

	tempDirName := cfg.GetString("BASHTOOL_TEMP_DIR")
	if tempDirName == "" {
		tempDirName = config.DefaultTempDirName
	}
	tempDir := filepath.Join(translator.WorkspaceRoot(), tempDirName)
	if err := os.MkdirAll(tempDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating temp directory: %w", err)
	}

	nestingLimit := cfg.GetInt("BASHTOOL_NESTING_LIMIT", config.DefaultNestingLimit)

	home, err := translator.ToWindows("/home/claude")
	if err != nil {
		home = filepath.Join(translator.WorkspaceRoot(), "claude")
	}

	e := &Executor{
		cfg:          cfg,
		logger:       logger,
		translator:   translator,
		validator:    validator,
		aliases:      preprocess.NewAliasTable(),
		eng:          eng,
		home:         home,
		nestingLimit: nestingLimit,
	}
	e.pipeline = preprocess.NewPipelineLevel(tempDir, nestingLimit, e.runSub)
	e.aliasWatcher = newOptionalAliasWatcher(e.aliases, logger)
	return e, nil
}

// newOptionalAliasWatcher resolves BASHTOOL_ALIAS_FILE (falling back to
// "~/.bashtool_aliases", logged the way utils.GetEnv logs every other
// default fallback) against the real OS home directory and starts a
// watcher over it. A missing or unwatchable alias file just means the
// built-in aliases stay in effect; it is never fatal to construction.
func newOptionalAliasWatcher(aliases *preprocess.AliasTable, logger *zap.Logger) *preprocess.AliasWatcher {
	aliasFile, _ := utils.GetEnv("BASHTOOL_ALIAS_FILE", "~/.bashtool_aliases", logger)
	path, err := utils.ExpandPath(aliasFile)
	if err != nil {
		return nil
	}
	watcher, err := preprocess.NewAliasWatcher(path, aliases, logger)
	if err != nil {
		logger.Debug("alias file watcher unavailable", zap.String("path", path), zap.Error(err))
		return nil
	}
	return watcher
}

// Close stops the alias file watcher, if one was started. Safe to call on
// an Executor whose alias file was never found.
func (e *Executor) Close() error {
	if e.aliasWatcher != nil {
		return e.aliasWatcher.Close()
	}
	return nil
}

// Definition returns the tool schema spec.md §6's get_definition() call
// produces, ready to be marshaled to JSON by the caller.
func Definition() map[string]any {
	return map[string]any{
		"name":        "bash_tool",
		"description": "Run a bash command in the container",
		"input_schema": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"command":     map[string]any{"type": "string", "description": "Bash command to run in container"},
				"description": map[string]any{"type": "string", "description": "Why I'm running this command"},
			},
			"required": []string{"command", "description"},
		},
	}
}

// Execute is the §6 tool boundary: execute(tool_input) -> string.
func (e *Executor) Execute(ctx context.Context, input ToolInput) string {
	if strings.TrimSpace(input.Command) == "" {
		return i18n.T("error.input.missing_command")
	}

	translated := e.translator.TranslatePathsInString(input.Command, pathtranslator.ToWindowsDir)

	if ok, reason := e.validator.Validate(translated); !ok {
		return i18n.T("error.security", reason)
	}

	proc, err := e.runTranslated(ctx, translated, 0)
	if err != nil {
		if nest, isNest := err.(*preprocess.ErrNestingTooDeep); isNest {
			return formatResult(1, "", i18n.T("error.nesting_too_deep", nest.Limit))
		}
		return i18n.T("error.internal", err.Error())
	}

	if proc.TimedOut {
		return i18n.T("error.timeout", proc.TimeoutSeconds)
	}

	stdout := e.translator.TranslatePathsInString(proc.Stdout, pathtranslator.ToUnixDir)
	stderr := e.translator.TranslatePathsInString(proc.Stderr, pathtranslator.ToUnixDir)
	return formatResult(proc.ReturnCode, stdout, stderr)
}

// runSub is the preprocess.SubRunner the pipeline-level preprocessor calls
// for `$(...)`, `<(...)` payloads: it re-enters the full pipeline at
// nestingLevel, discarding everything but captured stdout.
func (e *Executor) runSub(ctx context.Context, command string, nestingLevel int) (string, error) {
	proc, err := e.runTranslated(ctx, command, nestingLevel)
	if err != nil {
		return "", err
	}
	return proc.Stdout, nil
}

// runTranslated runs one already-path-translated command string through the
// pipeline preprocessor, the command-level preprocessor, the parser, the
// strategy analyzer and, finally, the chosen backend. Every temp file the
// pipeline preprocessor materializes is removed before returning, win or
// lose (spec.md §5 "Temp-file acquisition").
func (e *Executor) runTranslated(ctx context.Context, command string, nestingLevel int) (engine.CompletedProcess, error) {
	pipelineResult, postTasks, err := e.pipeline.RunWithPostTasks(ctx, command, nestingLevel)
	defer e.cleanup(pipelineResult.TempFiles)
	if err != nil {
		return engine.CompletedProcess{}, err
	}

	env := processEnv()
	commandLevel := preprocess.NewCommandLevel(e.aliases, e.home)
	finalCommand := commandLevel.Run(pipelineResult.Command, env)

	ast, parseErr := bashast.Parse(finalCommand)
	if parseErr != nil {
		return engine.CompletedProcess{ReturnCode: 1, Stderr: i18n.T("error.parse", parseErr.Error())}, nil
	}

	proc := e.dispatch(ctx, finalCommand, ast)

	for _, task := range postTasks {
		e.runPostTask(ctx, task)
	}

	return proc, nil
}

func (e *Executor) runPostTask(ctx context.Context, task preprocess.PostTask) {
	data, err := os.ReadFile(task.OutputFile)
	if err != nil {
		e.logger.Warn("process substitution post-task: reading output file failed",
			zap.String("file", task.OutputFile), zap.Error(err))
		return
	}
	if _, err := e.runTranslated(ctx, fmt.Sprintf("%s <<'__BASHTOOL_PROCSUB__'\n%s\n__BASHTOOL_PROCSUB__", task.Command, string(data)), 0); err != nil {
		e.logger.Warn("process substitution post-task failed",
			zap.String("command", task.Command), zap.Error(err))
	}
}

func (e *Executor) cleanup(files []string) {
	for _, f := range files {
		if err := os.Remove(f); err != nil && !os.IsNotExist(err) {
			e.logger.Warn("failed to remove temp file", zap.String("path", f), zap.Error(err))
		}
	}
}

func processEnv() preprocess.Env {
	env := make(preprocess.Env)
	for _, kv := range os.Environ() {
		if i := strings.IndexByte(kv, '='); i >= 0 {
			env[kv[:i]] = kv[i+1:]
		}
	}
	return env
}

// dispatch resolves the strategy.Decision for ast and routes to the engine
// accordingly, implementing the leaf re-evaluation from spec.md §4.7's last
// paragraph for the Single case.
func (e *Executor) dispatch(ctx context.Context, commandString string, ast bashast.Node) engine.CompletedProcess {
	decision := strategy.Analyze(commandString, ast, e.eng)

	switch decision.Kind {
	case strategy.Fail:
		return engine.CompletedProcess{ReturnCode: 1, Stderr: i18n.T("error.unsupported_construct", decision.Reason)}

	case strategy.BashRequired:
		return e.eng.ExecuteBash(ctx, commandString)

	case strategy.BashPreferred:
		if e.eng.Available("bash") {
			return e.eng.ExecuteBash(ctx, commandString)
		}
		return e.runPowershellTranslation(ctx, commandString, ast)

	case strategy.Powershell:
		return e.runPowershellTranslation(ctx, commandString, ast)

	default: // strategy.Single
		return e.runSingleLeaf(ctx, commandString, ast)
	}
}

func (e *Executor) runSingleLeaf(ctx context.Context, commandString string, ast bashast.Node) engine.CompletedProcess {
	sc, found := firstSimpleCommand(ast)
	if !found {
		return e.runPowershellTranslation(ctx, commandString, ast)
	}

	hasNative := e.eng.Available(sc.Command) && e.eng.NativePath(sc.Command) != ""
	isInlineCapable := emulator.Supported(sc.Command)

	switch leaf := strategy.ResolveLeaf(sc.Command, hasNative, isInlineCapable, e.eng); leaf {
	case strategy.LeafNative:
		return e.eng.ExecuteNative(ctx, sc.Command, sc.Args)
	case strategy.LeafInlineEmulator, strategy.LeafPowershellHeavy:
		result := emulator.Dispatch(sc.Command, commandString, sc.Args)
		if !result.Supported {
			if leaf == strategy.LeafInlineEmulator && e.eng.Available("bash") {
				return e.eng.ExecuteBash(ctx, commandString)
			}
			return engine.CompletedProcess{ReturnCode: 1, Stderr: i18n.T("error.unsupported_construct", commandString)}
		}
		if result.NeedsPowerShell {
			return e.eng.ExecutePowershell(ctx, result.Script)
		}
		return e.eng.ExecuteCmd(ctx, result.Script)
	case strategy.LeafGitBash:
		return e.eng.ExecuteBash(ctx, commandString)
	default:
		return engine.CompletedProcess{ReturnCode: 1, Stderr: i18n.T("error.unsupported_construct", commandString)}
	}
}

// runPowershellTranslation builds a PowerShell script for a pipeline or
// control-flow AST by translating each leaf SimpleCommand through the
// emulator and joining the results with PowerShell's own pipe/sequencing
// operators. If any leaf can't be translated, it reports an unsupported
// construct rather than guessing.
func (e *Executor) runPowershellTranslation(ctx context.Context, commandString string, ast bashast.Node) engine.CompletedProcess {
	script, ok := buildPowershellScript(ast)
	if !ok {
		return engine.CompletedProcess{ReturnCode: 1, Stderr: i18n.T("error.unsupported_construct", commandString)}
	}
	return e.eng.ExecutePowershell(ctx, script)
}

func firstSimpleCommand(n bashast.Node) (bashast.SimpleCommand, bool) {
	var found bashast.SimpleCommand
	ok := false
	bashast.Walk(n, func(node bashast.Node) bool {
		if sc, isSC := node.(bashast.SimpleCommand); isSC && !ok {
			found, ok = sc, true
			return false
		}
		return true
	})
	return found, ok
}

// formatResult renders the §6 response string.
func formatResult(returnCode int, stdout, stderr string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Exit code: %d", returnCode)
	if returnCode != 0 {
		b.WriteString(" (error)")
	}
	if s := strings.TrimRight(stdout, " \t\r\n"); s != "" {
		b.WriteString("\n\n")
		b.WriteString(s)
	}
	if s := strings.TrimRight(stderr, " \t\r\n"); s != "" {
		b.WriteString("\n\n--- stderr ---\n")
		b.WriteString(s)
	}
	return b.String()
}
