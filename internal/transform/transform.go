// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package transform normalizes harvested XML through a compiled XSLT
// stylesheet before crosswalk conversion.
package transform

import (
	"bytes"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/wamuir/go-xslt"

	"github.com/pdiddy/rg-import/internal/ingesterr"
)

// Stylesheet applies a compiled transform to one whole document. Different
// engines implement this interface; Template is the libxslt-backed one.
type Stylesheet interface {
	// Transform returns the transformed document.
	Transform(doc []byte) ([]byte, error)
}

// Template is a stylesheet compiled once per run and reused for every
// document. It holds no per-call state.
type Template struct {
	path  string
	sheet *xslt.Stylesheet
}

// Compile reads and compiles the stylesheet at path.
func Compile(path string) (*Template, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, ingesterr.Markf(err, ingesterr.ErrTransform, "reading stylesheet %s", path)
	}
	sheet, err := xslt.NewStylesheet(src)
	if err != nil {
		return nil, ingesterr.Markf(err, ingesterr.ErrTransform, "compiling stylesheet %s", path)
	}
	return &Template{path: path, sheet: sheet}, nil
}

// Path returns the stylesheet file the template was compiled from.
func (t *Template) Path() string { return t.path }

// Transform implements Stylesheet.
func (t *Template) Transform(doc []byte) ([]byte, error) {
	return t.sheet.Transform(doc)
}

// Close frees the compiled stylesheet.
func (t *Template) Close() error {
	t.sheet.Close()
	return nil
}

// Stage applies a Stylesheet to document streams.
type Stage struct {
	sheet Stylesheet
}

// NewStage returns a stage backed by sheet.
func NewStage(sheet Stylesheet) *Stage {
	return &Stage{sheet: sheet}
}

// Transform reads the whole input, applies the stylesheet and returns the
// buffered output. Memory is bounded by one document at a time.
func (s *Stage) Transform(r io.Reader) (io.Reader, error) {
	input, err := io.ReadAll(r)
	if err != nil {
		return nil, ingesterr.Mark(err, ingesterr.ErrTransform, "reading transform input")
	}

	out, err := s.sheet.Transform(input)
	if err != nil {
		return nil, ingesterr.Mark(err, ingesterr.ErrTransform, "applying stylesheet")
	}
	if len(out) == 0 {
		return nil, errors.Mark(errors.New("stylesheet produced empty output"), ingesterr.ErrTransform)
	}

	return bytes.NewReader(out), nil
}
