// Package sandbox enforces workspace containment and a dangerous-command
// blacklist before a command string reaches the preprocessor.
package sandbox

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// dangerousWords mirrors spec.md's whole-word blacklist of Windows system
// utilities that can act outside any sandbox (disk formatting, service
// control, scheduled tasks, registry edits...).
var dangerousWords = []string{
	"format", "diskpart", "chkdsk", "reg", "regedit", "shutdown", "restart",
	"logoff", "sc", "net", "taskkill", "bcdedit", "powercfg", "wmic",
	"msiexec", "schtasks", "at", "netsh",
}

// restrictedCommands are file/directory mutators whose recursive-wildcard
// forms at a drive root must be rejected even though the command itself is
// otherwise permitted.
var restrictedCommands = []string{
	"del", "erase", "rd", "rmdir", "deltree", "move", "ren", "rename",
	"copy", "xcopy", "robocopy",
}

// Validator applies the ordered checks from spec.md §4.2.
type Validator struct {
	workspaceRoot string
	workspaceDriv string
	logger        *zap.Logger

	dangerousPatterns  []*regexp.Regexp
	driveLetterPattern *regexp.Regexp
	absWindowsPattern  *regexp.Regexp
	restrictedPatterns []*regexp.Regexp
}

// New builds a Validator confined to workspaceRoot.
func New(workspaceRoot string, logger *zap.Logger) *Validator {
	if logger == nil {
		logger = zap.NewNop()
	}
	abs, err := filepath.Abs(workspaceRoot)
	if err != nil {
		abs = workspaceRoot
	}

	v := &Validator{
		workspaceRoot:      abs,
		logger:             logger,
		driveLetterPattern: regexp.MustCompile(`(?i)\b([A-Z]):\\`),
		absWindowsPattern:  regexp.MustCompile(`(?i)[A-Z]:\\[^\s|&;"']*`),
	}
	if len(abs) >= 2 && abs[1] == ':' {
		v.workspaceDriv = strings.ToUpper(abs[:1])
	}

	for _, word := range dangerousWords {
		v.dangerousPatterns = append(v.dangerousPatterns, wholeWordPattern(word))
	}
	for _, cmd := range restrictedCommands {
		// Matches e.g. `del C:\*`, `del C:\ /S`, `rd C:\ /S`, `xcopy C:\* D:\ /S`.
		v.restrictedPatterns = append(v.restrictedPatterns, regexp.MustCompile(
			`(?i)\b`+regexp.QuoteMeta(cmd)+`\b\s+[A-Z]:\\(?:\*|\s|$)`,
		))
	}
	return v
}

func wholeWordPattern(word string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)(?:^|[\s|&;])` + regexp.QuoteMeta(word) + `(?:[\s.]|$)`)
}

// Validate runs every check in order and returns (true, "OK") iff the
// command passes all of them; otherwise (false, reason).
func (v *Validator) Validate(command string) (bool, string) {
	if strings.TrimSpace(command) == "" {
		return true, "OK"
	}

	if ok, reason := v.checkDangerous(command); !ok {
		return false, reason
	}
	if ok, reason := v.checkPathBoundary(command); !ok {
		return false, reason
	}
	if ok, reason := v.checkDriveRestriction(command); !ok {
		return false, reason
	}
	if ok, reason := v.checkRestrictedWildcard(command); !ok {
		return false, reason
	}
	return true, "OK"
}

// IsDangerous reports whether command matches the blacklist, ignoring every
// other check — useful for a quick pre-flight warning independent of
// workspace layout.
func (v *Validator) IsDangerous(command string) bool {
	ok, _ := v.checkDangerous(command)
	return !ok
}

func (v *Validator) checkDangerous(command string) (bool, string) {
	for i, pat := range v.dangerousPatterns {
		if pat.MatchString(command) {
			return false, fmt.Sprintf("Dangerous command blocked: %s", dangerousWords[i])
		}
	}
	return true, "OK"
}

func (v *Validator) checkPathBoundary(command string) (bool, string) {
	for _, m := range v.absWindowsPattern.FindAllString(command, -1) {
		abs, err := filepath.Abs(m)
		if err != nil {
			return false, fmt.Sprintf("Path outside workspace blocked: %s", m)
		}
		if !strings.HasPrefix(strings.ToLower(abs), strings.ToLower(v.workspaceRoot)) {
			return false, fmt.Sprintf("Path outside workspace blocked: %s", m)
		}
	}
	return true, "OK"
}

func (v *Validator) checkDriveRestriction(command string) (bool, string) {
	for _, m := range v.driveLetterPattern.FindAllStringSubmatch(command, -1) {
		drive := strings.ToUpper(m[1])
		if v.workspaceDriv != "" && drive != v.workspaceDriv {
			return false, fmt.Sprintf("Drive not permitted: %s:", drive)
		}
	}
	return true, "OK"
}

func (v *Validator) checkRestrictedWildcard(command string) (bool, string) {
	for _, pat := range v.restrictedPatterns {
		if pat.MatchString(command) {
			return false, fmt.Sprintf("Recursive wildcard at drive root blocked: %s", strings.TrimSpace(command))
		}
	}
	return true, "OK"
}
