// Package core ties ingestion, storage and type inference into the operations
// the HTTP layer and the CLI expose.
//
// # Flow
//
//  1. [Service.ProcessFile] reads an upload into an all-text table, stores it
//     as a new dataset and returns the inferred conversion.
//  2. [Service.ApplyConversion] reloads the raw table and converts it again
//     with explicit directives, so a client can override what inference chose.
//  3. [Service.Preview] reports the probe and converter outcomes for a single
//     column to help pick a directive.
//
// Conversions always start from the stored raw text, never from an earlier
// conversion.
//
// # Results
//
// A [Result] carries one [ColumnDef] per column (field, dataframe dtype name,
// display width) and the rows as a JSON string of records. See [DFType] and
// [EncodeRecords] for the exact encodings.
//
// # Errors
//
// Errors keep their sentinel chain; [MapError] turns them into a
// [UserMessage] with a support code.
package core
