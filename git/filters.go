package git

import (
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/object"
)

// DirFilter creates a filter that includes changes to files below dir.
// Both the old and new file names are checked to handle renames.
func DirFilter(dir string) ChangeFilter {
	prefix := strings.TrimSuffix(filepath.ToSlash(dir), "/") + "/"
	if prefix == "/" || prefix == "./" {
		return nil
	}
	return func(change *object.Change) bool {
		return strings.HasPrefix(change.From.Name, prefix) ||
			strings.HasPrefix(change.To.Name, prefix)
	}
}

// ExtensionFilter creates a filter that includes changes for files with the given extensions.
// Extensions should include the dot (e.g., ".json").
func ExtensionFilter(extensions ...string) ChangeFilter {
	extSet := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		extSet[strings.ToLower(ext)] = true
	}

	return func(change *object.Change) bool {
		for _, name := range []string{change.From.Name, change.To.Name} {
			if name != "" && extSet[strings.ToLower(filepath.Ext(name))] {
				return true
			}
		}
		return false
	}
}

// AndFilter combines multiple filters with AND logic - all must pass.
func AndFilter(filters ...ChangeFilter) ChangeFilter {
	return func(change *object.Change) bool {
		return shouldIncludeChange(change, filters)
	}
}
