package store

import (
	"encoding/json"
	"fmt"

	"github.com/JonMunkholm/dataprocess/internal/infer"
)

// payload is the JSON form of a raw table: column-major cells, null for missing.
type payload struct {
	Columns []payloadColumn `json:"columns"`
}

type payloadColumn struct {
	Name  string    `json:"name"`
	Cells []*string `json:"cells"`
}

// EncodeTable serializes the text form of every cell.
func EncodeTable(t *infer.Table) ([]byte, error) {
	p := payload{Columns: make([]payloadColumn, len(t.Columns))}
	for i, col := range t.Columns {
		cells := make([]*string, col.Len())
		for j, v := range col.Values {
			if !v.Valid {
				continue
			}
			s := col.Display(v)
			cells[j] = &s
		}
		p.Columns[i] = payloadColumn{Name: col.Name, Cells: cells}
	}
	return json.Marshal(p)
}

// DecodeTable restores an all-text table.
func DecodeTable(data []byte) (*infer.Table, error) {
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode dataset payload: %w", err)
	}
	columns := make([]*infer.Column, len(p.Columns))
	for i, pc := range p.Columns {
		values := make([]infer.Value, len(pc.Cells))
		for j, cell := range pc.Cells {
			if cell != nil {
				values[j] = infer.TextValue(*cell)
			}
		}
		columns[i] = &infer.Column{Name: pc.Name, Kind: infer.KindText, Values: values}
	}
	return infer.NewTable(columns...), nil
}
