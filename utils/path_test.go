package utils

import (
	"os"
	"testing"
)

func TestExpandPath(t *testing.T) {
	homeDir, _ := os.UserHomeDir()
	path, err := ExpandPath("~/test")
	if err != nil {
		t.Fatalf("Erro ao expandir caminho: %v", err)
	}
	if path != homeDir+"/test" {
		t.Errorf("Caminho expandido incorretamente: %s", path)
	}
}
