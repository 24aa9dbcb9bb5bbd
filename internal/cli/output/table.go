package output

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Table writes rows under a title-cased header using a light box style.
func (r *Renderer) Table(header []string, rows [][]string) {
	t := table.NewWriter()
	t.SetOutputMirror(r.messages())
	style := table.StyleLight
	style.Format.Header = text.FormatDefault
	t.SetStyle(style)

	titleCaser := cases.Title(language.English)
	headerRow := make(table.Row, len(header))
	for i, h := range header {
		headerRow[i] = titleCaser.String(h)
	}
	t.AppendHeader(headerRow)

	for _, row := range rows {
		tr := make(table.Row, len(row))
		for i, v := range row {
			tr[i] = v
		}
		t.AppendRow(tr)
	}
	t.Render()
}
