package testsupport

import (
	"path/filepath"
	"testing"

	"contentgen/internal/config"
)

// NewConfig returns a validated config rooted in a temp directory.
func NewConfig(t *testing.T) *config.Config {
	t.Helper()

	dir := t.TempDir()
	cfg := config.Default()
	cfg.Paths.StorageRoot = filepath.Join(dir, "storage")
	cfg.Paths.LogDir = filepath.Join(dir, "logs")

	if err := cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	return &cfg
}
