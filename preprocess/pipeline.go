package preprocess

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// SubRunner executes a complete command string recursively through the
// orchestrator's full pipeline (preprocess, parse, analyze, dispatch) and
// returns its captured stdout. It is the seam pipeline.go uses to run
// `$(...)`, `<(...)` and `>(...)` payloads without importing the
// orchestrator package — the orchestrator supplies the closure at
// construction time, the same inversion the teacher uses for its
// CommandExecutor interface in utils/exec_utils.go.
type SubRunner func(ctx context.Context, command string, nestingLevel int) (stdout string, err error)

// ErrNestingTooDeep is returned when a command substitution or process
// substitution would recurse past the configured limit (spec.md §4.4
// "Nesting limit").
type ErrNestingTooDeep struct {
	Limit int
}

func (e *ErrNestingTooDeep) Error() string {
	return fmt.Sprintf("nesting limit of %d exceeded", e.Limit)
}

// Result is the rewritten command plus every temp file the pass chain
// created, so the orchestrator can remove them once execution completes.
type Result struct {
	Command   string
	TempFiles []string
}

// PostTask is a deferred `>(cmd)` obligation: after the outer command runs,
// the orchestrator must read OutputFile and feed its contents to Command as
// stdin.
type PostTask struct {
	Command    string
	OutputFile string
}

// PipelineLevel implements spec.md §4.4: the subprocess-executing,
// temp-file-materializing substitutions that must run before the pure
// string rewrites in command.go. One instance is shared by a workspace;
// a random UUID in every temp file name keeps concurrently-issued names
// distinct.
type PipelineLevel struct {
	tempDir      string
	nestingLimit int
	run          SubRunner
}

// NewPipelineLevel builds a pipeline-level preprocessor rooted at tempDir
// (spec.md §6's BASHTOOL_TEMP_DIR), bounding recursive sub-command
// execution at nestingLimit and delegating recursive execution to run.
func NewPipelineLevel(tempDir string, nestingLimit int, run SubRunner) *PipelineLevel {
	return &PipelineLevel{tempDir: tempDir, nestingLimit: nestingLimit, run: run}
}

// Run applies command substitution, heredocs, then process substitution in
// that fixed order, returning the rewritten command and any temp files
// created along the way. nestingLevel is the depth of the caller — zero for
// a top-level invocation. Any `>(cmd)` post-execution obligation is
// discarded; callers that need to honor `>(cmd)` should use
// RunWithPostTasks instead.
func (p *PipelineLevel) Run(ctx context.Context, command string, nestingLevel int) (Result, error) {
	result, _, err := p.RunWithPostTasks(ctx, command, nestingLevel)
	return result, err
}

// tempFilePath names a temp file uniquely across concurrent invocations,
// the same guarantee original_source's execution_engine.py got from
// threading.get_ident() but without needing a live thread/process id.
func (p *PipelineLevel) tempFilePath(nestingLevel int) string {
	return filepath.Join(p.tempDir, fmt.Sprintf("bashtool-%d-%s.tmp", nestingLevel, uuid.NewString()))
}

// expandCommandSubstitution scans left-to-right with paren depth counting,
// skipping `$((...))` arithmetic so it is left for the command-level stage.
// A sub-command's failure keeps the original `$(...)` text in place and is
// reported as a logged, non-fatal condition by leaving err nil — only a
// nesting-limit breach aborts the outer command.
func (p *PipelineLevel) expandCommandSubstitution(ctx context.Context, s string, nestingLevel int) (string, []string, error) {
	var out strings.Builder
	var tempFiles []string
	i := 0
	for i < len(s) {
		if s[i] == '$' && i+1 < len(s) && s[i+1] == '(' {
			if i+2 < len(s) && s[i+2] == '(' {
				// $((...)) arithmetic: copy through the matching `))` verbatim.
				end, found := findArithmeticClose(s, i+3)
				if !found {
					out.WriteString(s[i:])
					i = len(s)
					break
				}
				out.WriteString(s[i : end+2])
				i = end + 2
				continue
			}
			close, depth := i+2, 1
			for close < len(s) && depth > 0 {
				switch s[close] {
				case '(':
					depth++
				case ')':
					depth--
				}
				if depth == 0 {
					break
				}
				close++
			}
			if close >= len(s) {
				out.WriteString(s[i:])
				i = len(s)
				break
			}
			inner := s[i+2 : close]
			if nestingLevel+1 > p.nestingLimit {
				return out.String() + s[i:], tempFiles, &ErrNestingTooDeep{Limit: p.nestingLimit}
			}
			if p.run == nil {
				out.WriteString(s[i : close+1])
				i = close + 1
				continue
			}
			stdout, runErr := p.run(ctx, inner, nestingLevel+1)
			if runErr != nil {
				if _, deep := runErr.(*ErrNestingTooDeep); deep {
					return out.String() + s[i:], tempFiles, runErr
				}
				out.WriteString(s[i : close+1])
				i = close + 1
				continue
			}
			out.WriteString(strings.TrimSuffix(stdout, "\n"))
			i = close + 1
			continue
		}
		out.WriteByte(s[i])
		i++
	}
	return out.String(), tempFiles, nil
}

// materializeHeredocs finds `<<WORD`/`<<-WORD`/`<<"WORD"`/`<<'WORD'`
// introducers, captures the following lines up to a line that is exactly
// WORD, writes the content to a temp file, and replaces the heredoc phrase
// with `< <tempfile>`.
func (p *PipelineLevel) materializeHeredocs(s string) (string, []string, error) {
	if !strings.Contains(s, "<<") {
		return s, nil, nil
	}
	lines := strings.Split(s, "\n")
	var out []string
	var tempFiles []string
	i := 0
	for i < len(lines) {
		line := lines[i]
		idx := strings.Index(line, "<<")
		if idx < 0 {
			out = append(out, line)
			i++
			continue
		}
		rest := line[idx+2:]
		stripTabs := false
		if strings.HasPrefix(rest, "-") {
			stripTabs = true
			rest = rest[1:]
		}
		rest = strings.TrimLeft(rest, " \t")
		quoted := false
		var word string
		switch {
		case strings.HasPrefix(rest, `"`):
			end := strings.Index(rest[1:], `"`)
			if end < 0 {
				out = append(out, line)
				i++
				continue
			}
			word = rest[1 : 1+end]
			quoted = true
			rest = rest[1+end+1:]
		case strings.HasPrefix(rest, `'`):
			end := strings.Index(rest[1:], `'`)
			if end < 0 {
				out = append(out, line)
				i++
				continue
			}
			word = rest[1 : 1+end]
			quoted = true
			rest = rest[1+end+1:]
		default:
			end := 0
			for end < len(rest) && !isHeredocBoundary(rest[end]) {
				end++
			}
			if end == 0 {
				out = append(out, line)
				i++
				continue
			}
			word = rest[:end]
			rest = rest[end:]
		}

		var content []string
		j := i + 1
		for j < len(lines) {
			candidate := lines[j]
			trimmed := candidate
			if stripTabs {
				trimmed = strings.TrimLeft(candidate, "\t")
			}
			if trimmed == word || candidate == word {
				break
			}
			lineToStore := candidate
			if stripTabs {
				lineToStore = strings.TrimLeft(candidate, "\t")
			}
			content = append(content, lineToStore)
			j++
		}

		if j >= len(lines) {
			// No matching delimiter found; leave the original text untouched.
			out = append(out, line)
			i++
			continue
		}

		_ = quoted // content is written verbatim either way; no later pass expands variables in it
		path := p.tempFilePath(0)
		data := strings.Join(content, "\n")
		if len(content) > 0 {
			data += "\n"
		}
		if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
			return s, tempFiles, fmt.Errorf("writing heredoc temp file: %w", err)
		}
		tempFiles = append(tempFiles, path)

		newLine := line[:idx] + "< " + path + rest
		out = append(out, newLine)
		i = j + 1 // skip past the delimiter line
	}
	return strings.Join(out, "\n"), tempFiles, nil
}

func isHeredocBoundary(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == ';' || c == '|' || c == '&' || c == '<' || c == '>'
}

// RunWithPostTasks behaves like Run but additionally returns any `>(cmd)`
// post-execution obligations. Orchestrators that need to honor `>(cmd)`
// output piping should call this instead of Run.
func (p *PipelineLevel) RunWithPostTasks(ctx context.Context, command string, nestingLevel int) (Result, []PostTask, error) {
	if nestingLevel > p.nestingLimit {
		return Result{}, nil, &ErrNestingTooDeep{Limit: p.nestingLimit}
	}

	var tempFiles []string

	s, cmdSubFiles, err := p.expandCommandSubstitution(ctx, command, nestingLevel)
	tempFiles = append(tempFiles, cmdSubFiles...)
	if err != nil {
		return Result{Command: s, TempFiles: tempFiles}, nil, err
	}

	s, heredocFiles, err := p.materializeHeredocs(s)
	tempFiles = append(tempFiles, heredocFiles...)
	if err != nil {
		return Result{Command: s, TempFiles: tempFiles}, nil, err
	}

	s, procSubFiles, tasks, err := p.expandProcessSubstitutionTasks(ctx, s, nestingLevel)
	tempFiles = append(tempFiles, procSubFiles...)
	if err != nil {
		return Result{Command: s, TempFiles: tempFiles}, tasks, err
	}

	return Result{Command: s, TempFiles: tempFiles}, tasks, nil
}

func (p *PipelineLevel) expandProcessSubstitutionTasks(ctx context.Context, s string, nestingLevel int) (string, []string, []PostTask, error) {
	var out strings.Builder
	var tempFiles []string
	var tasks []PostTask
	i := 0
	for i < len(s) {
		if (s[i] == '<' || s[i] == '>') && i+1 < len(s) && s[i+1] == '(' {
			kind := s[i]
			close, depth := i+2, 1
			for close < len(s) && depth > 0 {
				switch s[close] {
				case '(':
					depth++
				case ')':
					depth--
				}
				if depth == 0 {
					break
				}
				close++
			}
			if close >= len(s) {
				out.WriteByte(s[i])
				i++
				continue
			}
			inner := s[i+2 : close]
			if nestingLevel+1 > p.nestingLimit {
				return out.String() + s[i:], tempFiles, tasks, &ErrNestingTooDeep{Limit: p.nestingLimit}
			}
			path := p.tempFilePath(nestingLevel)
			if kind == '<' {
				if p.run != nil {
					stdout, runErr := p.run(ctx, inner, nestingLevel+1)
					if runErr != nil {
						if _, deep := runErr.(*ErrNestingTooDeep); deep {
							return out.String() + s[i:], tempFiles, tasks, runErr
						}
						out.WriteString(s[i : close+1])
						i = close + 1
						continue
					}
					if err := os.WriteFile(path, []byte(stdout), 0o600); err != nil {
						return out.String() + s[i:], tempFiles, tasks, fmt.Errorf("writing process substitution temp file: %w", err)
					}
					tempFiles = append(tempFiles, path)
				}
				out.WriteString(path)
			} else {
				if err := os.WriteFile(path, nil, 0o600); err != nil {
					return out.String() + s[i:], tempFiles, tasks, fmt.Errorf("allocating process substitution temp file: %w", err)
				}
				tempFiles = append(tempFiles, path)
				tasks = append(tasks, PostTask{Command: inner, OutputFile: path})
				out.WriteString(path)
			}
			i = close + 1
			continue
		}
		out.WriteByte(s[i])
		i++
	}
	return out.String(), tempFiles, tasks, nil
}
