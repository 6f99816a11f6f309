// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"io"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/pdiddy/rg-import/internal/ingesterr"
)

// LocalWalker discovers .xml files under a directory tree, depth first, in the
// order the operating system lists each directory.
type LocalWalker struct {
	root   string
	events Events
}

// NewLocalWalker returns a walker rooted at root.
func NewLocalWalker(root string, events Events) *LocalWalker {
	if events == nil {
		events = nopEvents{}
	}
	return &LocalWalker{root: root, events: events}
}

// Describe implements Discovery.
func (w *LocalWalker) Describe() string { return w.root }

// Documents implements Discovery.
func (w *LocalWalker) Documents(ctx context.Context) iter.Seq2[*Document, error] {
	return func(yield func(*Document, error) bool) {
		info, err := os.Stat(w.root)
		if err != nil {
			yield(nil, ingesterr.Markf(err, ingesterr.ErrDiscovery, "reading XML folder %s", w.root))
			return
		}
		if !info.IsDir() {
			yield(nil, errors.Mark(errors.Newf("XML folder %s is not a directory", w.root), ingesterr.ErrDiscovery))
			return
		}
		w.walk(ctx, w.root, yield)
	}
}

// walk reports false once iteration must stop.
func (w *LocalWalker) walk(ctx context.Context, dir string, yield func(*Document, error) bool) bool {
	entries, err := readDirUnsorted(dir)
	if err != nil {
		yield(nil, ingesterr.Markf(err, ingesterr.ErrDiscovery, "listing %s", dir))
		return false
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			yield(nil, err)
			return false
		}

		path := filepath.Join(dir, entry.Name())
		mode := entry.Type()

		// Symlinked files are followed; symlinked directories are not, so a
		// link cycle cannot trap the walk.
		if mode&fs.ModeSymlink != 0 {
			target, err := os.Stat(path)
			if err != nil || target.IsDir() {
				continue
			}
			mode = target.Mode().Type()
		}

		if mode.IsDir() {
			if !w.walk(ctx, path, yield) {
				return false
			}
			continue
		}
		if !mode.IsRegular() || !IsXML(entry.Name()) {
			continue
		}
		if !yield(fileDocument(path), nil) {
			return false
		}
	}

	w.events.DirectoryDone(dir)
	return true
}

// IsXML reports whether name carries a .xml extension, ignoring case.
func IsXML(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".xml")
}

// readDirUnsorted lists dir in the order the filesystem returns entries.
// os.ReadDir would sort them, which callers must not rely on.
func readDirUnsorted(dir string) ([]fs.DirEntry, error) {
	f, err := os.Open(dir)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return f.ReadDir(-1)
}

func fileDocument(path string) *Document {
	return NewDocument(path, func(context.Context) (io.ReadCloser, error) {
		f, err := os.Open(path)
		if err != nil {
			return nil, ingesterr.Markf(err, ingesterr.ErrDiscovery, "opening %s", path)
		}
		return f, nil
	})
}
