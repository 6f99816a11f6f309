// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/rg-import/internal/ingesterr"
)

// recordingEvents captures discovery notices in order.
type recordingEvents struct {
	dirs      []string
	resolved  []string
	folders   []string
	completed []string
}

func (r *recordingEvents) DirectoryDone(dir string) { r.dirs = append(r.dirs, dir) }
func (r *recordingEvents) SnapshotResolved(id, folder string) {
	r.resolved = append(r.resolved, id)
	r.folders = append(r.folders, folder)
}
func (r *recordingEvents) SnapshotDone(bucket, prefix string) {
	r.completed = append(r.completed, bucket+"/"+prefix)
}

// collect drains a discovery, returning keys seen before the first error.
func collect(t *testing.T, d Discovery) ([]string, error) {
	t.Helper()
	var keys []string
	for doc, err := range d.Documents(context.Background()) {
		if err != nil {
			return keys, err
		}
		keys = append(keys, doc.Key)
	}
	return keys, nil
}

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func TestLocalWalker_FindsXMLRecursively(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.xml":              "<a/>",
		"B.XML":              "<b/>",
		"notes.txt":          "not xml",
		"sub/c.xml":          "<c/>",
		"sub/e.json":         "{}",
		"sub/deeper/d.Xml":   "<d/>",
		"sub/deeper/xml":     "no extension",
		"other/archive.xmlz": "wrong extension",
	})
	require.NoError(t, os.MkdirAll(filepath.Join(root, "empty"), 0o755))

	events := &recordingEvents{}
	keys, err := collect(t, NewLocalWalker(root, events))
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{
		filepath.Join(root, "a.xml"),
		filepath.Join(root, "B.XML"),
		filepath.Join(root, "sub", "c.xml"),
		filepath.Join(root, "sub", "deeper", "d.Xml"),
	}, keys)

	assert.ElementsMatch(t, []string{
		root,
		filepath.Join(root, "sub"),
		filepath.Join(root, "sub", "deeper"),
		filepath.Join(root, "other"),
		filepath.Join(root, "empty"),
	}, events.dirs)
	require.NotEmpty(t, events.dirs)
	assert.Equal(t, root, events.dirs[len(events.dirs)-1], "root finishes after all of its subdirectories")
}

func TestLocalWalker_EmptyTree(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "a", "b"), 0o755))

	keys, err := collect(t, NewLocalWalker(root, nil))
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestLocalWalker_RootErrors(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "plain.xml")
	require.NoError(t, os.WriteFile(file, []byte("<x/>"), 0o644))

	tests := []struct {
		name string
		root string
	}{
		{name: "missing root", root: filepath.Join(dir, "nope")},
		{name: "root is a file", root: file},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keys, err := collect(t, NewLocalWalker(tt.root, nil))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ingesterr.ErrDiscovery), "got %v", err)
			assert.Empty(t, keys)
		})
	}
}

func TestLocalWalker_DocumentContent(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"only.xml": "<registryObjects/>"})

	for doc, err := range NewLocalWalker(root, nil).Documents(context.Background()) {
		require.NoError(t, err)
		rc, err := doc.Open(context.Background())
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		require.NoError(t, rc.Close())
		require.NoError(t, err)
		assert.Equal(t, "<registryObjects/>", string(data))
	}
}

func TestLocalWalker_StopsWhenConsumerStops(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.xml": "", "b.xml": "", "c.xml": ""})

	events := &recordingEvents{}
	seen := 0
	for _, err := range NewLocalWalker(root, events).Documents(context.Background()) {
		require.NoError(t, err)
		seen++
		break
	}
	assert.Equal(t, 1, seen)
	assert.Empty(t, events.dirs, "an abandoned directory is not reported done")
}

func TestIsXML(t *testing.T) {
	assert.True(t, IsXML("a.xml"))
	assert.True(t, IsXML("a.XML"))
	assert.True(t, IsXML("a.Xml"))
	assert.False(t, IsXML("a.xml.gz"))
	assert.False(t, IsXML("xml"))
}
