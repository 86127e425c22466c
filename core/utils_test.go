package core

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCleanString(t *testing.T) {
	tests := []struct {
		name  string
		s     string
		lower []bool
		want  string
	}{
		{"trims whitespace", "  Quiz Master \t", nil, "Quiz Master"},
		{"lowers on request", "  Quiz Master ", []bool{true}, "quiz master"},
		{"empty", "   ", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanString(tt.s, tt.lower...); got != tt.want {
				t.Errorf("CleanString() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGetwd(t *testing.T) {
	root := Getwd()
	if _, err := os.Stat(filepath.Join(root, "go.mod")); err != nil {
		t.Errorf("Getwd() = %s, expected the module root holding go.mod: %v", root, err)
	}
}
