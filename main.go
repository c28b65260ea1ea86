package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/diillson/bashtool/cmd"
	"github.com/diillson/bashtool/config"
	"github.com/diillson/bashtool/utils"
)

func main() {
	command := flag.String("command", "", "bash command to run in the workspace")
	description := flag.String("description", "", "why the command is being run")
	definition := flag.Bool("definition", false, "print the tool definition JSON and exit")
	inputJSON := flag.String("input-json", "", "whole tool_input as a JSON blob, instead of -command/-description")
	workspaceRoot := flag.String("workspace-root", "", "overrides BASHTOOL_WORKSPACE_ROOT")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "warning: could not load .env: %v\n", err)
	}

	logger, err := utils.InitializeLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg := config.New(logger)
	cfg.Load()
	if *workspaceRoot != "" {
		cfg.Set("BASHTOOL_WORKSPACE_ROOT", *workspaceRoot)
	}

	if !*definition && *command == "" && *inputJSON == "" {
		fmt.Fprintln(os.Stderr, "usage: bashtool -command \"<shell command>\" -description \"<why>\"")
		os.Exit(2)
	}

	result, err := cmd.Run(context.Background(), cmd.Options{
		Command:     *command,
		Description: *description,
		Definition:  *definition,
		InputJSON:   *inputJSON,
	}, cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err.Error())
		os.Exit(1)
	}

	fmt.Println(result)
}
