package core

import (
	"bytes"
	"encoding/json"
	"math"
	"time"
	"unicode/utf8"

	"github.com/JonMunkholm/dataprocess/internal/infer"
	"github.com/google/uuid"
)

// missingWidth is the display width of a missing cell ("nan").
const missingWidth = 3

const (
	naiveISOLayout = "2006-01-02T15:04:05.000"
	zonedISOLayout = "2006-01-02T15:04:05.000Z07:00"
)

// ColumnDef describes one converted column for grid clients.
type ColumnDef struct {
	Field  string `json:"field"`
	DFType string `json:"df_type"`
	Width  int    `json:"width"`
}

// Result is the response to a processing or conversion request. Data holds
// the row records as a JSON document encoded into a string.
type Result struct {
	DatasetID  uuid.UUID   `json:"dataset_id"`
	FileName   string      `json:"file_name,omitempty"`
	ColumnsDef []ColumnDef `json:"columns_def"`
	Data       string      `json:"data"`
}

// BuildResult renders a converted table.
func BuildResult(id uuid.UUID, fileName string, t *infer.Table) (*Result, error) {
	defs := make([]ColumnDef, len(t.Columns))
	for i, col := range t.Columns {
		defs[i] = ColumnDef{
			Field:  col.Name,
			DFType: DFType(col),
			Width:  ColumnWidth(col),
		}
	}

	data, err := EncodeRecords(t)
	if err != nil {
		return nil, err
	}

	return &Result{
		DatasetID:  id,
		FileName:   fileName,
		ColumnsDef: defs,
		Data:       string(data),
	}, nil
}

// DFType names the column's storage type using the dataframe dtype names
// grid clients already understand.
func DFType(col *infer.Column) string {
	if col.Categorical {
		return "category"
	}
	switch col.Kind {
	case infer.KindNumber:
		return "float64"
	case infer.KindComplex:
		return "complex128"
	case infer.KindDatetime:
		if col.Location != nil {
			return "datetime64[ns, " + col.Location.String() + "]"
		}
		return "datetime64[ns]"
	case infer.KindDuration:
		return "timedelta64[ns]"
	default:
		return "object"
	}
}

// ColumnWidth is the longest display form in the column, in characters.
func ColumnWidth(col *infer.Column) int {
	width := 0
	for _, v := range col.Values {
		w := missingWidth
		if v.Valid {
			w = utf8.RuneCountInString(col.Display(v))
		}
		width = max(width, w)
	}
	return width
}

// EncodeRecords renders the table as a JSON array of row objects, keys in
// column order.
func EncodeRecords(t *infer.Table) ([]byte, error) {
	var buf bytes.Buffer
	keys := make([][]byte, len(t.Columns))
	for i, col := range t.Columns {
		k, err := json.Marshal(col.Name)
		if err != nil {
			return nil, err
		}
		keys[i] = k
	}

	buf.WriteByte('[')
	for row := 0; row < t.Rows(); row++ {
		if row > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('{')
		for i, col := range t.Columns {
			if i > 0 {
				buf.WriteByte(',')
			}
			buf.Write(keys[i])
			buf.WriteByte(':')

			v := infer.Missing()
			if row < len(col.Values) {
				v = col.Values[row]
			}
			if err := encodeValue(&buf, col, v); err != nil {
				return nil, err
			}
		}
		buf.WriteByte('}')
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

func encodeValue(buf *bytes.Buffer, col *infer.Column, v infer.Value) error {
	if !v.Valid {
		buf.WriteString("null")
		return nil
	}
	switch col.Kind {
	case infer.KindNumber:
		writeNumber(buf, v.Number)
	case infer.KindComplex:
		buf.WriteString(`{"real":`)
		writeNumber(buf, real(v.Complex))
		buf.WriteString(`,"imag":`)
		writeNumber(buf, imag(v.Complex))
		buf.WriteByte('}')
	case infer.KindDatetime:
		return writeString(buf, isoTime(v.Time, col.Location))
	case infer.KindDuration:
		return writeString(buf, infer.FormatISODuration(v.Dur))
	default:
		return writeString(buf, v.Text)
	}
	return nil
}

func writeNumber(buf *bytes.Buffer, f float64) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		buf.WriteString("null")
		return
	}
	buf.WriteString(infer.FormatNumber(f))
}

func writeString(buf *bytes.Buffer, s string) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}

func isoTime(t time.Time, loc *time.Location) string {
	if loc == nil {
		return t.UTC().Format(naiveISOLayout)
	}
	return t.In(loc).Format(zonedISOLayout)
}
