package config

// Default values for bash-tool configuration.
const (
	// DefaultWorkspaceRoot is the Windows directory that stands in for the
	// virtual POSIX root when no BASHTOOL_WORKSPACE_ROOT override is set.
	DefaultWorkspaceRoot = "workspace"

	// DefaultTempDirName is the subdirectory (under the workspace root) used
	// for command-substitution and heredoc scratch files.
	DefaultTempDirName = ".bashtool_tmp"

	// DefaultTimeoutSeconds bounds a single non-Python command invocation.
	DefaultTimeoutSeconds = 30

	// DefaultPythonTimeoutSeconds bounds a single python/python3 invocation,
	// which tends to run longer than shell utilities.
	DefaultPythonTimeoutSeconds = 60

	// DefaultNestingLimit caps recursive command-substitution /
	// process-substitution preprocessing depth.
	DefaultNestingLimit = 8

	// DefaultAllowSudoPassthrough is the default for
	// BASHTOOL_ALLOW_SUDO_PASSTHROUGH; the sandbox validator has no sudo
	// handling and does not read this setting.
	DefaultAllowSudoPassthrough = false

	// DefaultLogFileName is the lumberjack-rotated log file InitializeLogger
	// writes to when BASHTOOL_LOG_FILE is unset.
	DefaultLogFileName = "bashtool.log"
)
