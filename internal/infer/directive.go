package infer

import (
	"errors"
	"fmt"
)

// TypeTag names a target type in an explicit directive.
type TypeTag string

const (
	TagString   TypeTag = "string"
	TagNumber   TypeTag = "number"
	TagComplex  TypeTag = "complex"
	TagDate     TypeTag = "date"
	TagDuration TypeTag = "duration"
	TagCategory TypeTag = "category"
)

// TypeTags lists every recognized tag.
var TypeTags = []TypeTag{TagString, TagNumber, TagComplex, TagDate, TagDuration, TagCategory}

// Valid reports whether t is a recognized tag.
func (t TypeTag) Valid() bool {
	for _, known := range TypeTags {
		if t == known {
			return true
		}
	}
	return false
}

var (
	ErrUnknownTypeTag = errors.New("unknown type tag")
	ErrUnknownColumn  = errors.New("unknown column")
)

// Directive forces a column to a type, bypassing inference.
type Directive struct {
	Field string  `json:"field" yaml:"field"`
	Type  TypeTag `json:"type" yaml:"type"`
}

// ValidateDirectives checks every directive against the table and returns all
// problems joined. InferAndConvert itself tolerates bad directives; callers
// that want to reject them up front use this.
func ValidateDirectives(t *Table, directives []Directive) error {
	var errs []error
	for _, d := range directives {
		if !d.Type.Valid() {
			errs = append(errs, fmt.Errorf("%w %q for column %q", ErrUnknownTypeTag, d.Type, d.Field))
		}
		if t.Index(d.Field) < 0 {
			errs = append(errs, fmt.Errorf("%w %q", ErrUnknownColumn, d.Field))
		}
	}
	return errors.Join(errs...)
}
