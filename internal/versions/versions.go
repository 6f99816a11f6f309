// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package versions records the most recently discovered harvest snapshot per
// source. Each source gets one plain-text file in the versions folder whose
// entire content is the snapshot identifier.
package versions

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
)

// Store reads and writes version records under a single folder.
type Store struct {
	dir string
}

// NewStore returns a Store rooted at dir. The folder is not created until the
// first Write.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the versions folder.
func (s *Store) Dir() string { return s.dir }

// Path returns the record path for source.
func (s *Store) Path(source string) string {
	return filepath.Join(s.dir, source)
}

// Write overwrites the record for source with snapshotID.
func (s *Store) Write(source, snapshotID string) error {
	if source == "" {
		return errors.New("version record needs a source name")
	}
	if snapshotID == "" {
		return errors.Newf("refusing to write an empty snapshot id for %s", source)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return errors.Wrapf(err, "creating versions folder %s", s.dir)
	}
	if err := os.WriteFile(s.Path(source), []byte(snapshotID), 0o644); err != nil {
		return errors.Wrapf(err, "writing version record for %s", source)
	}
	return nil
}

// Read returns the recorded snapshot for source. A missing record is not an
// error; Read returns "" and ok=false.
func (s *Store) Read(source string) (snapshotID string, ok bool, err error) {
	data, err := os.ReadFile(s.Path(source))
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, errors.Wrapf(err, "reading version record for %s", source)
	}
	return strings.TrimSpace(string(data)), true, nil
}
