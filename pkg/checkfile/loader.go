package checkfile

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFile reads a YAML or JSON check file. JSON is parsed by
// the YAML decoder, so both formats yield the same value types.
func LoadFile(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf(
			"failed to read check file %s: %w", path, err,
		)
	}
	return Parse(data, path)
}

// Parse decodes a check file. source names it in errors and
// provides the default File.Name.
func Parse(data []byte, source string) (File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return File{}, fmt.Errorf(
			"failed to parse check file %s: %w", source, err,
		)
	}

	f.Source = source
	if f.Name == "" && source != "" {
		base := filepath.Base(source)
		f.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return f, nil
}

// LoadDir loads all .json, .yaml and .yml check files from a
// directory, sorted by file name. It does not recurse into
// subdirectories.
func LoadDir(dir string) ([]File, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf(
			"failed to read directory %s: %w", dir, err,
		)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".json", ".yaml", ".yml":
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	files := make([]File, 0, len(names))
	for _, name := range names {
		f, err := LoadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}

// LoadPaths loads every path, expanding directories with
// LoadDir.
func LoadPaths(paths ...string) ([]File, error) {
	var files []File
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", p, err)
		}
		if info.IsDir() {
			loaded, err := LoadDir(p)
			if err != nil {
				return nil, err
			}
			files = append(files, loaded...)
			continue
		}
		f, err := LoadFile(p)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}
