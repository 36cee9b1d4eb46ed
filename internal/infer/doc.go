// Package infer decides the semantic type of each column of a text table and
// converts the column to it.
//
// Untyped columns are offered, in order, to the numeric, complex, datetime and
// duration converters. Each converter parses every value, turning failures
// into missing markers, and accepts only when the share of missing values is
// within the error budget. A column that no converter accepts stays text.
// Whatever the outcome, a column with few distinct values is then marked
// categorical.
//
// Callers can override inference per column with directives. The engine never
// fails on data: bad values become missing and bad directives are skipped.
package infer
