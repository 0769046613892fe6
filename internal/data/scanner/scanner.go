package scanner

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/penwyp/go-vessel-trail/internal/util"
)

// FeedScanner finds feed files below a directory.
type FeedScanner struct {
	baseDir    string
	extensions []string
}

// NewFeedScanner creates a scanner for .json and .jsonl feeds under baseDir.
func NewFeedScanner(baseDir string) *FeedScanner {
	return &FeedScanner{
		baseDir:    baseDir,
		extensions: []string{".json", ".jsonl"},
	}
}

// Scan returns every feed path, sorted so that voyage legs named in
// chronological order are concatenated in that order.
func (s *FeedScanner) Scan() ([]string, error) {
	start := time.Now()
	var files []string

	err := filepath.WalkDir(s.baseDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			util.LogDebugf("Skip path (error): %s - %v", path, err)
			if d != nil && d.IsDir() && path != s.baseDir {
				return filepath.SkipDir
			}
			return err
		}
		if d.IsDir() {
			if path != s.baseDir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if s.matches(path) {
			files = append(files, path)
		}
		return nil
	})

	sort.Strings(files)
	util.LogDebugf("Feed scan of %s finished in %v: %d feeds", s.baseDir, time.Since(start), len(files))
	return files, err
}

func (s *FeedScanner) matches(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, want := range s.extensions {
		if ext == want {
			return true
		}
	}
	return false
}
