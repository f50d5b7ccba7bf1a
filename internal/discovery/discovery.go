package discovery

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
)

// ErrNoInputFiles is returned when the arguments resolve to no header files.
var ErrNoInputFiles = errors.New("no header files found")

// compiledPattern holds both the pattern string and compiled glob
type compiledPattern struct {
	pattern string
	glob    glob.Glob
}

// FileDiscovery resolves command arguments into header files using glob
// patterns matched against file names.
type FileDiscovery struct {
	patterns       []compiledPattern
	ignorePatterns []compiledPattern
}

// NewFileDiscovery creates a new file discovery instance.
func NewFileDiscovery(patterns, ignorePatterns []string) (*FileDiscovery, error) {
	fd := &FileDiscovery{}

	var err error
	if fd.patterns, err = compileAll(patterns); err != nil {
		return nil, err
	}
	if fd.ignorePatterns, err = compileAll(ignorePatterns); err != nil {
		return nil, err
	}

	return fd, nil
}

func compileAll(patterns []string) ([]compiledPattern, error) {
	compiled := make([]compiledPattern, 0, len(patterns))
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		compiled = append(compiled, compiledPattern{pattern: pattern, glob: g})
	}
	return compiled, nil
}

// Resolve turns arguments into an ordered file list. A directory argument
// expands to its matching files (non-recursive); any other argument is taken
// as a file path as given, in argument order.
func (fd *FileDiscovery) Resolve(args []string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err == nil && info.IsDir() {
			dirFiles, err := fd.DiscoverDir(arg)
			if err != nil {
				return nil, err
			}
			for _, f := range dirFiles {
				if !seen[f] {
					seen[f] = true
					files = append(files, f)
				}
			}
			continue
		}

		// Missing files are kept so the read step reports them.
		if !seen[arg] {
			seen[arg] = true
			files = append(files, arg)
		}
	}

	if len(files) == 0 {
		return nil, ErrNoInputFiles
	}
	return files, nil
}

// DiscoverDir lists the files directly inside dir that match the configured
// patterns. Files are grouped by the first pattern they match, in pattern
// order, and sorted by name within a group.
func (fd *FileDiscovery) DiscoverDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	groups := make([][]string, len(fd.patterns))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if fd.shouldIgnore(name) {
			continue
		}
		if idx := fd.firstMatch(name); idx >= 0 {
			groups[idx] = append(groups[idx], filepath.Join(dir, name))
		}
	}

	var files []string
	for _, group := range groups {
		sort.Strings(group)
		files = append(files, group...)
	}
	return files, nil
}

// Matches reports whether a path's file name is a documented header.
func (fd *FileDiscovery) Matches(path string) bool {
	name := filepath.Base(path)
	return !fd.shouldIgnore(name) && fd.firstMatch(name) >= 0
}

// shouldIgnore checks if a file name matches any ignore pattern.
func (fd *FileDiscovery) shouldIgnore(name string) bool {
	return matchIndex(name, fd.ignorePatterns) >= 0
}

func (fd *FileDiscovery) firstMatch(name string) int {
	return matchIndex(name, fd.patterns)
}

// matchIndex returns the index of the first pattern matching name, or -1.
// Patterns with a leading **/ also match bare file names, so "**/*.h"
// matches "Room.h" as users would expect.
func matchIndex(name string, patterns []compiledPattern) int {
	for i, cp := range patterns {
		if cp.glob.Match(name) {
			return i
		}
		if strings.HasPrefix(cp.pattern, "**/") {
			simplified := strings.TrimPrefix(cp.pattern, "**/")
			if g, err := glob.Compile(simplified, '/'); err == nil && g.Match(name) {
				return i
			}
		}
	}
	return -1
}
