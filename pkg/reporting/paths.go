package reporting

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultPathManager implements path management functionality
type DefaultPathManager struct{}

// NewDefaultPathManager creates a new path manager
func NewDefaultPathManager() *DefaultPathManager {
	return &DefaultPathManager{}
}

// GetDefaultOutputDir returns the default output directory for a pair run,
// e.g. results/ETHUSDT_BTCUSDT_60.
func (p *DefaultPathManager) GetDefaultOutputDir(pairLabel, interval string) string {
	l := strings.ToUpper(strings.TrimSpace(pairLabel))
	l = strings.ReplaceAll(l, "/", "_")
	i := strings.ToLower(strings.TrimSpace(interval))
	if l == "" {
		l = "UNKNOWN"
	}
	if i == "" {
		i = "unknown"
	}

	return filepath.Join("results", fmt.Sprintf("%s_%s", l, i))
}

// EnsureDirectoryExists creates directory if it doesn't exist
func (p *DefaultPathManager) EnsureDirectoryExists(path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		return os.MkdirAll(dir, 0755)
	}
	return nil
}

// DefaultOutputDir - package-level convenience function
func DefaultOutputDir(pairLabel, interval string) string {
	manager := NewDefaultPathManager()
	return manager.GetDefaultOutputDir(pairLabel, interval)
}
