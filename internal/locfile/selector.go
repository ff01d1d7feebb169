package locfile

import (
	"fmt"
	"path/filepath"
	"sort"
)

// GlobSelector resolves a glob pattern into a sorted list of input files.
// Callers with no explicit paths hand the configured pattern here.
type GlobSelector struct{}

// SelectFiles returns the paths matching pattern in lexical order. A
// pattern matching nothing is an error: a batch run with zero inputs is
// almost always a misconfiguration.
func (GlobSelector) SelectFiles(pattern string) ([]string, error) {
	paths, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("bad file pattern %q: %w", pattern, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no files match pattern %q", pattern)
	}
	sort.Strings(paths)
	return paths, nil
}
