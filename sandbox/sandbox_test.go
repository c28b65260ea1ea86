package sandbox

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestValidateTruthTable(t *testing.T) {
	root := t.TempDir()
	v := New(root, zap.NewNop())
	drive := filepath.VolumeName(root)

	tests := []struct {
		name    string
		command string
		wantOK  bool
	}{
		{"empty command allowed", "", true},
		{"whitespace only allowed", "   ", true},
		{"plain command allowed", "ls -la", true},
		{"command inside workspace allowed", fmt.Sprintf(`cat %s\claude\a.txt`, root), true},
		{"dangerous shutdown blocked", "shutdown /s", false},
		{"dangerous format blocked", "format C:", false},
		{"dangerous reg blocked", "reg query HKLM", false},
		{"path outside workspace blocked", `rm -rf C:\Windows`, false},
		{"wrong drive blocked", fmt.Sprintf(`dir %s:\foo`, otherDrive(drive)), false},
		{"recursive wildcard at drive root blocked", fmt.Sprintf(`del %s\*`, rootDrive(drive)), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ok, reason := v.Validate(tc.command)
			assert.Equal(t, tc.wantOK, ok, "reason: %s", reason)
			if tc.wantOK {
				assert.Equal(t, "OK", reason)
			}
		})
	}
}

// rootDrive returns drive, or "C:" on hosts whose paths carry no volume name.
func rootDrive(drive string) string {
	if drive == "" {
		return "C:"
	}
	return drive
}

func otherDrive(drive string) string {
	if drive == "" {
		return "Z"
	}
	if drive[:1] == "Z" || drive[:1] == "z" {
		return "Y"
	}
	return "Z"
}

func TestIsDangerousWholeWordOnly(t *testing.T) {
	v := New(t.TempDir(), zap.NewNop())
	assert.True(t, v.IsDangerous("shutdown -r now"))
	assert.False(t, v.IsDangerous("echo format-me"))
}
