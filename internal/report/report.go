// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report renders end-of-run statistics as a terminal table or YAML.
package report

import (
	"fmt"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/pterm/pterm"
	"go.yaml.in/yaml/v3"
	"golang.org/x/term"

	"github.com/pdiddy/rg-import/pkg/types"
)

// Tabular is implemented by statistics that can be shown as name/value rows.
type Tabular interface {
	Title() string
	Rows() [][]string
}

// Styled reports whether tables written to out should carry colour: only
// when out is a terminal and noColor is unset.
func Styled(out *os.File, noColor bool) bool {
	return !noColor && out != nil && term.IsTerminal(int(out.Fd()))
}

// ConfigureStyling disables pterm colours unless Styled(out, noColor) holds.
func ConfigureStyling(out *os.File, noColor bool) {
	if Styled(out, noColor) {
		pterm.EnableStyling()
		return
	}
	pterm.DisableStyling()
}

// Write renders stats to w in the given format. The YAML form marshals stats
// itself, so its yaml tags decide the layout.
func Write(w io.Writer, format types.StatsFormat, stats Tabular) error {
	switch format {
	case types.StatsYAML:
		data, err := yaml.Marshal(map[string]interface{}{stats.Title(): stats})
		if err != nil {
			return errors.Wrapf(err, "marshaling %s statistics", stats.Title())
		}
		_, err = w.Write(data)
		return err
	case types.StatsTable, "":
		return Table(w, stats.Title(), stats.Rows())
	default:
		return errors.Newf("unsupported statistics format %q: use table or yaml", format)
	}
}

// Table writes rows as a two-column table headed by title.
func Table(w io.Writer, title string, rows [][]string) error {
	data := make(pterm.TableData, 0, len(rows)+1)
	data = append(data, []string{title, "value"})
	data = append(data, rows...)

	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return errors.Wrapf(err, "rendering %s statistics", title)
	}
	_, err = fmt.Fprintln(w, out)
	return err
}

// Row formats one name/value row.
func Row(name string, value interface{}) []string {
	return []string{name, fmt.Sprint(value)}
}
