// Package discovery finds the log files a run should process.
package discovery

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	log "github.com/sirupsen/logrus"
)

// DefaultPattern matches every file below the root.
const DefaultPattern = "**/*"

// Error reports that no path list could be produced at all.
type Error struct {
	Root string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("discovery failed for %s: %v", e.Root, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Options controls file discovery.
type Options struct {
	Pattern  string   // Glob below the root, e.g. "**/*.log.gz"
	Exclude  []string // Globs matched against the relative path and the base name
	Window   *Window  // Time-of-day filter on file name timestamps
	MaxFiles int      // Maximum files to return (0 = unlimited)
}

// Info describes the result of a discovery pass.
type Info struct {
	Root      string   // Absolute root path
	Files     []string // Selected files, sorted
	TotalSize int64    // Sum of selected file sizes in bytes

	// Files matched by the pattern but dropped by the filters.
	OutsideWindow int
	Excluded      int
}

// Discover lists the files under root that match opts. An empty result is
// not an error.
func Discover(root string, opts Options) (*Info, error) {
	if opts.Pattern == "" {
		opts.Pattern = DefaultPattern
	}
	if !doublestar.ValidatePattern(opts.Pattern) {
		return nil, &Error{Root: root, Err: fmt.Errorf("invalid pattern %q", opts.Pattern)}
	}
	for _, ex := range opts.Exclude {
		if !doublestar.ValidatePattern(ex) {
			return nil, &Error{Root: root, Err: fmt.Errorf("invalid exclude pattern %q", ex)}
		}
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, &Error{Root: root, Err: err}
	}
	stat, err := os.Stat(absRoot)
	if err != nil {
		return nil, &Error{Root: root, Err: err}
	}
	if !stat.IsDir() {
		return nil, &Error{Root: root, Err: fmt.Errorf("not a directory")}
	}

	fsys := os.DirFS(absRoot)
	matches, err := doublestar.Glob(fsys, opts.Pattern, doublestar.WithFilesOnly(), doublestar.WithFailOnIOErrors())
	if err != nil {
		return nil, &Error{Root: root, Err: err}
	}
	sort.Strings(matches)

	info := &Info{Root: absRoot}
	for _, rel := range matches {
		if isExcluded(rel, opts.Exclude) {
			info.Excluded++
			continue
		}
		if !inWindow(rel, opts.Window) {
			info.OutsideWindow++
			continue
		}

		fi, err := fs.Stat(fsys, rel)
		if err != nil {
			log.WithError(err).WithField("file", rel).Warn("skipping file that cannot be inspected")
			continue
		}

		info.Files = append(info.Files, filepath.Join(absRoot, filepath.FromSlash(rel)))
		info.TotalSize += fi.Size()

		if opts.MaxFiles > 0 && len(info.Files) >= opts.MaxFiles {
			break
		}
	}

	return info, nil
}

func isExcluded(rel string, patterns []string) bool {
	base := path.Base(rel)
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
		if ok, _ := doublestar.Match(pattern, base); ok {
			return true
		}
	}
	return false
}

func inWindow(rel string, w *Window) bool {
	if w.IsOpen() {
		return true
	}
	t, ok := FileTimeOfDay(path.Base(rel))
	if !ok {
		log.WithField("file", rel).Debug("no timestamp in file name, skipping for time window")
		return false
	}
	return w.Contains(t)
}
