// Package sources turns a picked directory into file handles and decodes
// those handles into text documents on demand.
package sources

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Handle is a selected file that has not been read yet.
type Handle struct {
	// Name is the slash-separated path relative to the selected root.
	Name string
	Path string
	Size int64
}

// Document is a decoded handle ready to be sent for analysis.
type Document struct {
	Name    string
	Content string
}

// ErrRead is matched by every decode failure.
var ErrRead = errors.New("file read error")

// ReadError reports which selected file could not be decoded.
type ReadError struct {
	Name string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrRead, e.Name, e.Err)
}

func (e *ReadError) Unwrap() []error {
	return []error{ErrRead, e.Err}
}

// Scan lists the regular files under root in lexical order. A root that is a
// single file yields one handle named after its base name.
func Scan(root string) ([]Handle, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", root, err)
	}
	if !info.IsDir() {
		if !info.Mode().IsRegular() {
			return nil, fmt.Errorf("select %s: not a regular file", root)
		}
		return []Handle{{Name: filepath.Base(root), Path: root, Size: info.Size()}}, nil
	}

	var handles []Handle
	err = filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if !entry.Type().IsRegular() {
			return nil
		}
		info, err := entry.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		handles = append(handles, Handle{
			Name: filepath.ToSlash(rel),
			Path: path,
			Size: info.Size(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", root, err)
	}
	return handles, nil
}

// TotalSize sums the on-disk size of the handles.
func TotalSize(handles []Handle) int64 {
	var total int64
	for _, h := range handles {
		total += h.Size
	}
	return total
}
