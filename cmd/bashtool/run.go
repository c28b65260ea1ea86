// Package cmd holds the bashtool CLI's subcommand logic, invoked from the
// root main.go after flag parsing, the same split the teacher uses between
// its root main.go and cmd/connect.go, cmd/serve.go, cmd/watch.go.
package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/diillson/bashtool/bashtool"
	"github.com/diillson/bashtool/config"
	"github.com/diillson/bashtool/utils"
)

// Options holds the flags the root command collects before invoking Run.
// InputJSON is an alternative to Command/Description: a caller that
// forwards a whole tool_input as one blob (common on Windows, where
// cmd.exe's quoting rules make passing "command" as its own flag fragile)
// can pass it here instead. Command/Description are ignored when it is set.
type Options struct {
	Command     string
	Description string
	Definition  bool
	InputJSON   string
}

// Run builds a bashtool.Executor from cfg and logger and performs exactly
// one execute() call (spec.md §6), or prints the tool definition when
// opts.Definition is set.
func Run(ctx context.Context, opts Options, cfg *config.ConfigManager, logger *zap.Logger) (string, error) {
	if opts.Definition {
		b, err := json.MarshalIndent(bashtool.Definition(), "", "  ")
		if err != nil {
			return "", err
		}
		return string(b), nil
	}

	input, err := resolveInput(opts)
	if err != nil {
		return "", err
	}

	executor, err := bashtool.New(cfg, logger)
	if err != nil {
		return "", err
	}
	defer executor.Close()

	return executor.Execute(ctx, input), nil
}

// resolveInput picks Command/Description apart, or, when InputJSON is set,
// unescapes it (callers sometimes double-encode a JSON blob when shelling
// it through cmd.exe) before decoding it as a bashtool.ToolInput.
func resolveInput(opts Options) (bashtool.ToolInput, error) {
	if opts.InputJSON == "" {
		return bashtool.ToolInput{Command: opts.Command, Description: opts.Description}, nil
	}

	raw := opts.InputJSON
	if unescaped, ok := utils.MaybeUnescapeJSONishArgs(raw); ok {
		raw = unescaped
	}

	var input bashtool.ToolInput
	if err := json.Unmarshal([]byte(raw), &input); err != nil {
		return bashtool.ToolInput{}, fmt.Errorf("decoding -input-json: %w", err)
	}
	return input, nil
}
