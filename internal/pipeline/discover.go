package pipeline

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Discover enumerates candidate source files under root with the given
// extension (case-sensitive, matching the glob behavior this tool has always
// had). Recursive mode walks all subdirectories; flat mode reads only the
// immediate directory. Results are sorted lexicographically for
// deterministic processing order.
func Discover(root, ext string, recursive bool) ([]string, error) {
	var files []string

	if recursive {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			if strings.HasSuffix(d.Name(), ext) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	} else {
		entries, err := os.ReadDir(root)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			if strings.HasSuffix(e.Name(), ext) {
				files = append(files, filepath.Join(root, e.Name()))
			}
		}
	}

	sort.Strings(files)
	return files, nil
}

// OutputPath returns the sibling destination path: same directory, same base
// name, opposite extension.
func OutputPath(source, sourceExt, targetExt string) string {
	return strings.TrimSuffix(source, sourceExt) + targetExt
}
