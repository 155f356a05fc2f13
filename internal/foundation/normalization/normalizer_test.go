package normalization

import (
	"testing"
)

type backend string

const (
	backendMemory backend = "memory"
	backendSQLite backend = "sqlite"
)

func newBackendNormalizer() *Normalizer[backend] {
	return NewNormalizer(map[string]backend{
		"memory": backendMemory,
		"sqlite": backendSQLite,
	}, backendMemory)
}

func TestNormalizer_Normalize(t *testing.T) {
	n := newBackendNormalizer()

	tests := []struct {
		name     string
		input    string
		expected backend
	}{
		{"exact match", "sqlite", backendSQLite},
		{"case insensitive", "SQLite", backendSQLite},
		{"with spaces", "  memory  ", backendMemory},
		{"invalid input", "redis", backendMemory},
		{"empty", "", backendMemory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := n.Normalize(tt.input); got != tt.expected {
				t.Errorf("Normalize(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizer_WithError(t *testing.T) {
	n := newBackendNormalizer()

	if got, err := n.NormalizeWithError(" SQLITE "); err != nil || got != backendSQLite {
		t.Errorf("NormalizeWithError(valid) = %v, %v", got, err)
	}
	if got, err := n.NormalizeWithError(""); err != nil || got != backendMemory {
		t.Errorf("NormalizeWithError(empty) = %v, %v", got, err)
	}
	if _, err := n.NormalizeWithError("redis"); err == nil {
		t.Error("expected error for unknown value")
	}
	if keys := n.ValidKeys(); len(keys) != 2 || keys[0] != "memory" {
		t.Errorf("ValidKeys() = %v", keys)
	}
}
