package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/dataprocess/internal/infer"
)

func TestEncodeDecodeTable(t *testing.T) {
	table := infer.NewTable(
		infer.NewTextColumn("Name", []string{"Alice", "", "Bob"}, func(s string) bool { return s == "" }),
		infer.NewTextColumn("Score", []string{"75", "85", "x"}, nil),
	)

	body, err := EncodeTable(table)
	require.NoError(t, err)

	got, err := DecodeTable(body)
	require.NoError(t, err)

	assert.Equal(t, []string{"Name", "Score"}, got.Names())
	name, _ := got.Column("Name")
	assert.True(t, name.Values[0].Valid)
	assert.Equal(t, "Alice", name.Values[0].Text)
	assert.False(t, name.Values[1].Valid, "missing must survive the round trip")
	assert.True(t, name.Untyped())
}

func TestEncodeTable_TypedColumnUsesDisplayText(t *testing.T) {
	col := &infer.Column{Name: "n", Kind: infer.KindNumber, Values: []infer.Value{infer.NumberValue(75)}}
	body, err := EncodeTable(infer.NewTable(col))
	require.NoError(t, err)
	assert.JSONEq(t, `{"columns":[{"name":"n","cells":["75.0"]}]}`, string(body))
}

func TestDecodeTable_Invalid(t *testing.T) {
	_, err := DecodeTable([]byte("{"))
	assert.Error(t, err)
}

func TestOpen_UnknownBackend(t *testing.T) {
	_, err := Open(context.Background(), Config{Backend: "carrier-pigeon"})
	assert.True(t, errors.Is(err, ErrUnknownBackend), "got %v", err)
}

func TestRegister_Panics(t *testing.T) {
	assert.Panics(t, func() { Register("", nil) })
	assert.Panics(t, func() {
		Register("test-dup", func(context.Context, Config) (Store, error) { return nil, nil })
		Register("test-dup", func(context.Context, Config) (Store, error) { return nil, nil })
	})
	assert.Contains(t, Backends(), "test-dup")
}

func TestNewDataset(t *testing.T) {
	ds := NewDataset("a.csv", infer.NewTable())
	assert.NotEqual(t, [16]byte{}, [16]byte(ds.ID))
	assert.Equal(t, "a.csv", ds.FileName)
	assert.False(t, ds.CreatedAt.IsZero())
}
