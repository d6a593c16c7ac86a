package pathmap

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Mapper derives mirrored output locations for files under the source root.
// It is a pure function of its two roots; the same input always maps to the
// same output, so no two jobs for different inputs ever share a target.
type Mapper struct {
	sourceRoot string
	outputRoot string
}

// New creates a Mapper for the given source and output roots. Both roots
// are expected to be absolute, cleaned paths (startup guarantees this).
func New(sourceRoot, outputRoot string) *Mapper {
	return &Mapper{
		sourceRoot: filepath.Clean(sourceRoot),
		outputRoot: filepath.Clean(outputRoot),
	}
}

// Output maps an input path to its mirrored output path with the final
// extension stripped. The strategist appends the extension that matches its
// format decision, which may differ from the input's.
func (m *Mapper) Output(input string) (string, error) {
	rel, err := m.rel(input)
	if err != nil {
		return "", err
	}
	ext := filepath.Ext(rel)
	return filepath.Join(m.outputRoot, strings.TrimSuffix(rel, ext)), nil
}

// Rel returns the input's path relative to the source root, for log lines.
func (m *Mapper) Rel(input string) string {
	rel, err := m.rel(input)
	if err != nil {
		return input
	}
	return rel
}

// Depth returns the number of path segments the input sits below the source
// root. A file directly inside the root has depth 1.
func (m *Mapper) Depth(input string) (int, error) {
	rel, err := m.rel(input)
	if err != nil {
		return 0, err
	}
	return len(strings.Split(rel, string(filepath.Separator))), nil
}

// Prepare makes the target path writable: it creates all missing ancestor
// directories and removes any stale file left at the exact target path by a
// previous run. A directory that already exists and a target that does not
// exist are both fine.
func (m *Mapper) Prepare(target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory for %s: %w", target, err)
	}
	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove stale output %s: %w", target, err)
	}
	return nil
}

func (m *Mapper) rel(input string) (string, error) {
	rel, err := filepath.Rel(m.sourceRoot, filepath.Clean(input))
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s against source root: %w", input, err)
	}
	if rel == "." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || rel == ".." {
		return "", fmt.Errorf("path %s is outside the source root", input)
	}
	return rel, nil
}
