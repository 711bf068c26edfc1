package files

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

// FileInfo represents information about a discovered file
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// Discovery finds data files relative to a base directory
type Discovery struct {
	basePath string
}

// NewDiscovery creates a new file discovery instance. An empty basePath
// resolves relative directories against the working directory.
func NewDiscovery(basePath string) *Discovery {
	return &Discovery{basePath: basePath}
}

func (d *Discovery) resolve(dir string) string {
	if dir == "" {
		dir = "."
	}
	if filepath.IsAbs(dir) || d.basePath == "" {
		return dir
	}
	return filepath.Join(d.basePath, dir)
}

// FindFilesByPattern returns the regular files in dir whose names match the
// glob pattern, ordered lexically by name. A missing directory yields an
// empty result rather than an error, like a shell glob.
func (d *Discovery) FindFilesByPattern(dir string, pattern string) ([]FileInfo, error) {
	if strings.ContainsRune(pattern, filepath.Separator) {
		return nil, fmt.Errorf("pattern %q must not contain a path separator", pattern)
	}
	fullPath := d.resolve(dir)

	matches, err := filepath.Glob(filepath.Join(fullPath, pattern))
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
	}

	files := make([]FileInfo, 0, len(matches))
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil || info.IsDir() {
			continue
		}
		files = append(files, FileInfo{
			Path:    match,
			Name:    filepath.Base(match),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Name < files[j].Name
	})

	return files, nil
}

// Paths returns the full paths of files in order
func Paths(files []FileInfo) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.Path
	}
	return out
}

// Fingerprint summarises names, sizes and modification times so that any
// change to the discovered set yields a different value.
func Fingerprint(files []FileInfo) string {
	h := sha256.New()
	for _, f := range files {
		h.Write([]byte(f.Path))
		h.Write([]byte{0})
		h.Write([]byte(strconv.FormatInt(f.Size, 10)))
		h.Write([]byte{0})
		h.Write([]byte(strconv.FormatInt(f.ModTime.UnixNano(), 10)))
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))
}
