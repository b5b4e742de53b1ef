package output

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Table writes rows under cols in the effective mode: a boxed table for text
// (and xml, which has no tabular form), markdown, csv, or a JSON array of
// objects keyed by column.
func (r *Renderer) Table(cols []string, rows [][]any) error {
	mode := r.EffectiveMode()
	if mode == ModeJSON {
		return r.JSON(tableObjects(cols, rows))
	}

	if len(rows) == 0 && mode != ModeCSV {
		r.Println("(0 rows)")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.out)

	header := make(table.Row, len(cols))
	for i, col := range cols {
		header[i] = col
	}
	t.AppendHeader(header)

	for _, values := range rows {
		row := make(table.Row, len(cols))
		for i := range cols {
			var v any
			if i < len(values) {
				v = values[i]
			}
			row[i] = FormatValue(v)
		}
		t.AppendRow(row)
	}

	switch mode {
	case ModeMarkdown:
		t.RenderMarkdown()
	case ModeCSV:
		t.RenderCSV()
	default:
		t.SetStyle(table.StyleLight)
		t.Render()
		r.Printf("(%d rows)\n", len(rows))
	}
	return nil
}

func tableObjects(cols []string, rows [][]any) []map[string]any {
	results := make([]map[string]any, 0, len(rows))
	for _, values := range rows {
		row := make(map[string]any, len(cols))
		for i, col := range cols {
			if i < len(values) {
				row[col] = values[i]
			} else {
				row[col] = nil
			}
		}
		results = append(results, row)
	}
	return results
}

// FormatValue renders a cell value, spelling nil as NULL.
func FormatValue(v any) string {
	if v == nil {
		return "NULL"
	}
	return fmt.Sprintf("%v", v)
}
