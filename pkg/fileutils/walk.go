package fileutils

import (
	"io/fs"
	"iter"
	"path/filepath"

	"github.com/pkg/errors"
)

const bytesPerMB = 1024 * 1024

// File is one regular file found by Walk. When Err is set the file (or the
// directory at Path) could not be read and the other fields may be empty.
type File struct {
	Path    string
	RelPath string
	Size    int64
	Err     error
}

// Walk lazily visits every regular file under root, depth first in lexical
// order. Unreadable entries are yielded with Err set and the walk carries on.
// RelPath always uses forward slashes.
func Walk(root string) iter.Seq[File] {
	return func(yield func(File) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if !yield(File{Path: path, RelPath: relPath(root, path), Err: errors.WithStack(err)}) {
					return filepath.SkipAll
				}
				return nil
			}
			if d.IsDir() || !d.Type().IsRegular() {
				return nil
			}

			f := File{Path: path, RelPath: relPath(root, path)}
			info, err := d.Info()
			if err != nil {
				f.Err = errors.WithStack(err)
			} else {
				f.Size = info.Size()
			}
			if !yield(f) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

func relPath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// SizeMB returns size in whole megabytes, rounded down.
func SizeMB(size int64) int64 {
	return size / bytesPerMB
}

// ExceedsMaxSize reports whether size is over maxMB, comparing whole
// megabytes. A non-positive maxMB disables the limit.
func ExceedsMaxSize(size int64, maxMB int) bool {
	return maxMB > 0 && SizeMB(size) > int64(maxMB)
}

// FractionalMB returns size in megabytes rounded to two decimal places.
func FractionalMB(size int64) float64 {
	mb := float64(size) / bytesPerMB
	return float64(int64(mb*100+0.5)) / 100
}
