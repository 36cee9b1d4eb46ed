package core

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/JonMunkholm/dataprocess/internal/infer"
	"github.com/google/uuid"
)

func TestDFType(t *testing.T) {
	tests := []struct {
		name string
		col  *infer.Column
		want string
	}{
		{"text", &infer.Column{Kind: infer.KindText}, "object"},
		{"number", &infer.Column{Kind: infer.KindNumber}, "float64"},
		{"complex", &infer.Column{Kind: infer.KindComplex}, "complex128"},
		{"naive datetime", &infer.Column{Kind: infer.KindDatetime}, "datetime64[ns]"},
		{"utc datetime", &infer.Column{Kind: infer.KindDatetime, Location: time.UTC}, "datetime64[ns, UTC]"},
		{"offset datetime", &infer.Column{Kind: infer.KindDatetime, Location: time.FixedZone("UTC-05:00", -5*3600)}, "datetime64[ns, UTC-05:00]"},
		{"duration", &infer.Column{Kind: infer.KindDuration}, "timedelta64[ns]"},
		{"category", &infer.Column{Kind: infer.KindText, Categorical: true}, "category"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DFType(tt.col); got != tt.want {
				t.Errorf("DFType() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestColumnWidth(t *testing.T) {
	tests := []struct {
		name string
		col  *infer.Column
		want int
	}{
		{
			name: "numbers use display form",
			col: &infer.Column{Kind: infer.KindNumber, Values: []infer.Value{
				infer.NumberValue(75), infer.NumberValue(1500), infer.Missing(),
			}},
			want: 6, // "1500.0"
		},
		{
			name: "missing counts as three",
			col:  &infer.Column{Kind: infer.KindText, Values: []infer.Value{infer.TextValue("A"), infer.Missing()}},
			want: 3,
		},
		{
			name: "characters not bytes",
			col:  &infer.Column{Kind: infer.KindText, Values: []infer.Value{infer.TextValue("Zoë")}},
			want: 3,
		},
		{
			name: "empty column",
			col:  &infer.Column{Kind: infer.KindText},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ColumnWidth(tt.col); got != tt.want {
				t.Errorf("ColumnWidth() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestEncodeRecords_KeyOrderAndNulls(t *testing.T) {
	table := infer.NewTable(
		&infer.Column{Name: "b", Kind: infer.KindNumber, Values: []infer.Value{
			infer.NumberValue(1.5), infer.Missing(), infer.NumberValue(math.NaN()),
		}},
		&infer.Column{Name: "a", Kind: infer.KindText, Values: []infer.Value{
			infer.TextValue("x"), infer.TextValue(`y"z`), infer.Missing(),
		}},
	)

	got, err := EncodeRecords(table)
	if err != nil {
		t.Fatalf("EncodeRecords() error = %v", err)
	}

	want := `[{"b":1.5,"a":"x"},{"b":null,"a":"y\"z"},{"b":null,"a":null}]`
	if string(got) != want {
		t.Errorf("EncodeRecords() = %s, want %s", got, want)
	}
}

func TestEncodeRecords_TypedValues(t *testing.T) {
	instant := time.Date(2023, 9, 15, 17, 30, 45, 0, time.UTC)
	table := infer.NewTable(
		&infer.Column{Name: "naive", Kind: infer.KindDatetime, Values: []infer.Value{infer.TimeValue(instant)}},
		&infer.Column{Name: "utc", Kind: infer.KindDatetime, Location: time.UTC, Values: []infer.Value{infer.TimeValue(instant)}},
		&infer.Column{Name: "offset", Kind: infer.KindDatetime, Location: time.FixedZone("UTC-05:00", -5*3600),
			Values: []infer.Value{infer.TimeValue(instant)}},
		&infer.Column{Name: "dur", Kind: infer.KindDuration, Values: []infer.Value{infer.DurationValue(90 * time.Minute)}},
		&infer.Column{Name: "cx", Kind: infer.KindComplex, Values: []infer.Value{infer.ComplexValue(complex(1, -2))}},
		&infer.Column{Name: "n", Kind: infer.KindNumber, Values: []infer.Value{infer.NumberValue(75)}},
	)

	got, err := EncodeRecords(table)
	if err != nil {
		t.Fatalf("EncodeRecords() error = %v", err)
	}

	var records []map[string]any
	if err := json.Unmarshal(got, &records); err != nil {
		t.Fatalf("EncodeRecords() produced invalid JSON %s: %v", got, err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	row := records[0]

	wantStrings := map[string]string{
		"naive":  "2023-09-15T17:30:45.000",
		"utc":    "2023-09-15T17:30:45.000Z",
		"offset": "2023-09-15T12:30:45.000-05:00",
		"dur":    "P0DT1H30M0S",
	}
	for k, want := range wantStrings {
		if row[k] != want {
			t.Errorf("%s = %v, want %q", k, row[k], want)
		}
	}

	cx, ok := row["cx"].(map[string]any)
	if !ok || cx["real"] != 1.0 || cx["imag"] != -2.0 {
		t.Errorf("cx = %v, want {real:1 imag:-2}", row["cx"])
	}
	if row["n"] != 75.0 {
		t.Errorf("n = %v, want 75", row["n"])
	}
}

func TestBuildResult(t *testing.T) {
	id := uuid.New()
	table := infer.NewTable(
		&infer.Column{Name: "Grade", Kind: infer.KindText, Categorical: true, Values: []infer.Value{
			infer.TextValue("A"), infer.TextValue("B"), infer.TextValue("A"),
		}},
	)

	res, err := BuildResult(id, "grades.csv", table)
	if err != nil {
		t.Fatalf("BuildResult() error = %v", err)
	}
	if res.DatasetID != id {
		t.Errorf("DatasetID = %v, want %v", res.DatasetID, id)
	}
	want := ColumnDef{Field: "Grade", DFType: "category", Width: 1}
	if len(res.ColumnsDef) != 1 || res.ColumnsDef[0] != want {
		t.Errorf("ColumnsDef = %+v, want [%+v]", res.ColumnsDef, want)
	}
	if res.Data != `[{"Grade":"A"},{"Grade":"B"},{"Grade":"A"}]` {
		t.Errorf("Data = %s", res.Data)
	}

	body, err := json.Marshal(res)
	if err != nil {
		t.Fatalf("json.Marshal(Result) error = %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(body, &decoded); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	for _, key := range []string{"dataset_id", "columns_def", "data"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("response is missing %q: %s", key, body)
		}
	}
}
