package ingest

import (
	"strconv"
	"strings"

	"github.com/JonMunkholm/dataprocess/internal/infer"
)

// DefaultNAValues are the cell texts read as missing.
var DefaultNAValues = []string{
	"", "#N/A", "#N/A N/A", "#NA", "-1.#IND", "-1.#QNAN", "-NaN", "-nan",
	"1.#IND", "1.#QNAN", "<NA>", "N/A", "NA", "NULL", "NaN", "None",
	"n/a", "nan", "null",
}

func newNAMatcher(tokens []string) func(string) bool {
	if tokens == nil {
		tokens = DefaultNAValues
	}
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return func(s string) bool {
		_, ok := set[strings.TrimSpace(s)]
		return ok
	}
}

// buildTable turns a header row plus data rows into text columns. Short rows
// are padded with missing values; cells beyond the header are dropped.
func buildTable(rows [][]string, isMissing func(string) bool) (*infer.Table, error) {
	rows = trimEmptyRows(rows)
	if len(rows) == 0 {
		return nil, ErrEmptyFile
	}
	header := dedupeHeaders(rows[0])
	data := rows[1:]
	if len(data) == 0 || len(header) == 0 {
		return nil, ErrNoData
	}

	columns := make([]*infer.Column, len(header))
	for j, name := range header {
		cells := make([]string, len(data))
		present := make([]bool, len(data))
		for i, row := range data {
			if j < len(row) {
				cells[i] = row[j]
				present[i] = true
			}
		}
		col := infer.NewTextColumn(name, cells, isMissing)
		for i, ok := range present {
			if !ok {
				col.Values[i] = infer.Missing()
			}
		}
		columns[j] = col
	}
	return infer.NewTable(columns...), nil
}

// trimEmptyRows drops leading and trailing rows with no content.
func trimEmptyRows(rows [][]string) [][]string {
	for len(rows) > 0 && isEmptyRow(rows[0]) {
		rows = rows[1:]
	}
	for len(rows) > 0 && isEmptyRow(rows[len(rows)-1]) {
		rows = rows[:len(rows)-1]
	}
	return rows
}

func isEmptyRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// cleanHeader trims whitespace and unwraps spreadsheet formula quoting (="x").
func cleanHeader(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") && len(s) >= 3 {
		s = s[2 : len(s)-1]
	}
	return s
}

// dedupeHeaders makes names unique by suffixing repeats: a, a.1, a.2.
// Blank names become "Unnamed: <index>".
func dedupeHeaders(raw []string) []string {
	out := make([]string, len(raw))
	used := make(map[string]bool, len(raw))
	for i, h := range raw {
		name := cleanHeader(h)
		if name == "" {
			name = "Unnamed: " + strconv.Itoa(i)
		}
		candidate := name
		for n := 1; used[candidate]; n++ {
			candidate = name + "." + strconv.Itoa(n)
		}
		used[candidate] = true
		out[i] = candidate
	}
	return out
}
