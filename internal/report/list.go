package report

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// File types reported by List.
const (
	TypeMarkdown = "markdown"
	TypeHTML     = "html"
	TypeJSON     = "json"
)

// FileInfo describes one artifact on disk.
type FileInfo struct {
	Name    string    `json:"filename"`
	Path    string    `json:"file_path"`
	Size    int64     `json:"size_bytes"`
	ModTime time.Time `json:"modified_at"`
	Type    string    `json:"type"`
}

// List returns the artifacts in dir: primary documents, raw captures in
// the html subdirectory and link indexes. Files are grouped by type and
// sorted by name. A missing directory yields no files.
func List(dir string) ([]FileInfo, error) {
	var files []FileInfo

	groups := []struct {
		pattern string
		kind    string
	}{
		{filepath.Join(dir, "*.md"), TypeMarkdown},
		{filepath.Join(dir, RawDirName, "*.html"), TypeHTML},
		{filepath.Join(dir, "*"+LinksSuffix+".json"), TypeJSON},
	}

	for _, g := range groups {
		matches, err := filepath.Glob(g.pattern)
		if err != nil {
			return nil, err
		}
		sort.Strings(matches)

		for _, path := range matches {
			name := filepath.Base(path)
			if strings.HasPrefix(name, ".") {
				continue
			}
			info, err := os.Stat(path)
			if err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					continue
				}
				return nil, err
			}
			if info.IsDir() {
				continue
			}
			files = append(files, FileInfo{
				Name:    name,
				Path:    path,
				Size:    info.Size(),
				ModTime: info.ModTime(),
				Type:    g.kind,
			})
		}
	}

	return files, nil
}
