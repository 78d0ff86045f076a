package parser

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// DefaultExtensions are the file suffixes picked up when a directory is given.
var DefaultExtensions = []string{".log", ".txt", ".out"}

// ExpandGlobs turns paths, directories and glob patterns into a sorted,
// deduplicated list of files. A directory contributes its files carrying one
// of DefaultExtensions (not recursive). Patterns that match nothing are kept
// as literal paths so the later open reports a useful error.
func ExpandGlobs(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var result []string
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			result = append(result, p)
		}
	}

	for _, pattern := range patterns {
		if info, err := os.Stat(pattern); err == nil && info.IsDir() {
			files, err := logsInDir(pattern)
			if err != nil {
				return nil, err
			}
			for _, f := range files {
				add(f)
			}
			continue
		}

		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			add(pattern)
			continue
		}
		for _, m := range matches {
			add(m)
		}
	}

	sort.Strings(result)
	return result, nil
}

func logsInDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !hasLogExtension(e.Name()) {
			continue
		}
		out = append(out, filepath.Join(dir, e.Name()))
	}
	return out, nil
}

func hasLogExtension(name string) bool {
	ext := filepath.Ext(name)
	for _, want := range DefaultExtensions {
		if ext == want {
			return true
		}
	}
	return false
}
