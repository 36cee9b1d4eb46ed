package core

// Error codes reference
//
// Codes are grouped by category so users can quote them to support:
//
//	FILE001 - File too large           (ingest.ErrTooLarge)
//	FILE002 - Unsupported format       (ingest.ErrUnsupportedFormat)
//	FILE003 - Unreadable file          (ErrUnreadableFile)
//	FILE004 - No file uploaded         (ErrNoFile)
//	FILE005 - Empty file               (ingest.ErrEmptyFile)
//	FILE006 - No data rows             (ingest.ErrNoData)
//
//	DS001   - Dataset not found        (store.ErrNotFound)
//	DS002   - Invalid dataset id       (ErrInvalidDatasetID)
//	DS003   - Store unavailable        ("connection refused", "connection reset")
//
//	CONV001 - Unknown type tag         (infer.ErrUnknownTypeTag)
//	CONV002 - Unknown column           (infer.ErrUnknownColumn)
//	CONV003 - Malformed directives     (ErrInvalidDirectives)
//
//	UPL002  - System busy              (ErrTooManyUploads)
//	UPL004  - Request cancelled        (context.Canceled)
//	UPL005  - Request timeout          (context.DeadlineExceeded)
//
//	RATE001 - Rate limited             ("rate limit")
//
//	ERR000  - Anything else; check the logs for the technical error.
//
// Sentinels are matched with errors.Is. Rules without a sentinel fall back
// to a case-insensitive substring match. The first matching rule wins.

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/JonMunkholm/dataprocess/internal/infer"
	"github.com/JonMunkholm/dataprocess/internal/ingest"
	"github.com/JonMunkholm/dataprocess/internal/store"
)

var (
	ErrNoFile            = errors.New("no file uploaded")
	ErrUnreadableFile    = errors.New("file could not be read")
	ErrInvalidDatasetID  = errors.New("invalid dataset id")
	ErrInvalidDirectives = errors.New("invalid directives")
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type errorRule struct {
	target  error
	pattern string
	msg     UserMessage
}

func (r errorRule) matches(err error, lower string) bool {
	if r.target != nil {
		return errors.Is(err, r.target)
	}
	return strings.Contains(lower, r.pattern)
}

var errorRules = []errorRule{
	// File errors
	{target: ingest.ErrTooLarge, msg: UserMessage{
		Message: "File exceeds maximum size limit",
		Action:  "Split the file into smaller chunks",
		Code:    "FILE001",
	}},
	{target: ingest.ErrUnsupportedFormat, msg: UserMessage{
		Message: "File format is not supported",
		Action:  "Upload a CSV, TSV, Excel, Parquet or HTML file",
		Code:    "FILE002",
	}},
	{target: ErrNoFile, msg: UserMessage{
		Message: "No file uploaded",
		Action:  "Please select a file to upload",
		Code:    "FILE004",
	}},
	{target: ingest.ErrEmptyFile, msg: UserMessage{
		Message: "The uploaded file is empty",
		Action:  "Please upload a file with a header row and data rows",
		Code:    "FILE005",
	}},
	{target: ingest.ErrNoData, msg: UserMessage{
		Message: "No Excel or CSV data",
		Action:  "Please upload a file with at least one data row",
		Code:    "FILE006",
	}},

	// Dataset errors
	{target: store.ErrNotFound, msg: UserMessage{
		Message: "Dataset not found",
		Action:  "Upload the file again to create a new dataset",
		Code:    "DS001",
	}},
	{target: ErrInvalidDatasetID, msg: UserMessage{
		Message: "Dataset id is not valid",
		Action:  "Use the dataset_id returned by the upload",
		Code:    "DS002",
	}},

	// Conversion errors
	{target: infer.ErrUnknownTypeTag, msg: UserMessage{
		Message: "Unknown column type requested",
		Action:  "Use one of: string, number, complex, date, duration, category",
		Code:    "CONV001",
	}},
	{target: infer.ErrUnknownColumn, msg: UserMessage{
		Message: "Column not found in dataset",
		Action:  "Check the field names against the column headers",
		Code:    "CONV002",
	}},
	{target: ErrInvalidDirectives, msg: UserMessage{
		Message: "Conversion request is malformed",
		Action:  `Send a JSON list like [{"field": "Score", "type": "number"}]`,
		Code:    "CONV003",
	}},

	// Upload errors
	{target: ErrTooManyUploads, msg: UserMessage{
		Message: "System is busy processing other files",
		Action:  "Please wait a moment and try again",
		Code:    "UPL002",
	}},
	{target: context.Canceled, msg: UserMessage{
		Message: "Request was cancelled",
		Action:  "Please try again",
		Code:    "UPL004",
	}},
	{target: context.DeadlineExceeded, msg: UserMessage{
		Message: "Request timed out",
		Action:  "Try a smaller file or check your connection",
		Code:    "UPL005",
	}},

	// Reader failures wrap the cause, so this follows every specific sentinel.
	{target: ErrUnreadableFile, msg: UserMessage{
		Message: "The file could not be read",
		Action:  "Check that the file is a valid spreadsheet or delimited text file",
		Code:    "FILE003",
	}},

	// Pattern-only rules
	{pattern: "connection refused", msg: UserMessage{
		Message: "Unable to reach the dataset store",
		Action:  "Please try again in a few moments",
		Code:    "DS003",
	}},
	{pattern: "connection reset", msg: UserMessage{
		Message: "Connection to the dataset store was interrupted",
		Action:  "Please try again",
		Code:    "DS003",
	}},
	{pattern: "rate limit", msg: UserMessage{
		Message: "Too many requests",
		Action:  "Please wait a moment before trying again",
		Code:    "RATE001",
	}},
}

// defaultMessage is returned when no rule matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
//
//	msg := MapError(fmt.Errorf("load: %w", store.ErrNotFound))
//	// msg.Code == "DS001"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	lower := strings.ToLower(err.Error())
	for _, r := range errorRules {
		if r.matches(err, lower) {
			return r.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific message rather than
// the ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs a technical error with its user-facing message.
type UserError struct {
	Technical error       // Original technical error for logging
	User      UserMessage // User-friendly message for display
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps err to a UserError. Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
