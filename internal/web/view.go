package web

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/JonMunkholm/dataprocess/internal/core"
	"github.com/JonMunkholm/dataprocess/internal/infer"
	"github.com/JonMunkholm/dataprocess/internal/store"
	"github.com/a-h/templ"
)

// maxViewRows caps the rows rendered in the HTML view.
const maxViewRows = 1000

const pageStyle = `body{font-family:system-ui,sans-serif;margin:2rem}` +
	`table{border-collapse:collapse}th,td{border:1px solid #ccc;padding:.25rem .5rem;text-align:left}` +
	`th small{display:block;color:#666;font-weight:normal}td.na{color:#999}`

// datasetPage renders a converted table with each column's dtype under its
// header. Missing cells show as "NaN".
func datasetPage(ds *store.Dataset, t *infer.Table) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		title := templ.EscapeString(ds.FileName)
		if _, err := fmt.Fprintf(w, "<!DOCTYPE html><html><head><meta charset=\"utf-8\"><title>%s</title><style>%s</style></head><body>",
			title, pageStyle); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "<h1>%s</h1><p>Dataset %s, %d rows</p><table><thead><tr>",
			title, ds.ID, t.Rows()); err != nil {
			return err
		}

		for _, col := range t.Columns {
			if _, err := fmt.Fprintf(w, "<th>%s<small>%s</small></th>",
				templ.EscapeString(col.Name), templ.EscapeString(core.DFType(col))); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, "</tr></thead><tbody>"); err != nil {
			return err
		}

		rows := min(t.Rows(), maxViewRows)
		for i := 0; i < rows; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			if _, err := io.WriteString(w, "<tr>"); err != nil {
				return err
			}
			for _, col := range t.Columns {
				if err := writeCell(w, col, i); err != nil {
					return err
				}
			}
			if _, err := io.WriteString(w, "</tr>"); err != nil {
				return err
			}
		}

		footer := "</tbody></table>"
		if t.Rows() > rows {
			footer += "<p>Showing first " + strconv.Itoa(rows) + " rows.</p>"
		}
		_, err := io.WriteString(w, footer+"</body></html>")
		return err
	})
}

func writeCell(w io.Writer, col *infer.Column, row int) error {
	if row >= len(col.Values) || !col.Values[row].Valid {
		_, err := io.WriteString(w, `<td class="na">NaN</td>`)
		return err
	}
	_, err := fmt.Fprintf(w, "<td>%s</td>", templ.EscapeString(col.Display(col.Values[row])))
	return err
}
