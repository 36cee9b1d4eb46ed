package core

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/JonMunkholm/dataprocess/internal/infer"
	"github.com/JonMunkholm/dataprocess/internal/ingest"
	"github.com/JonMunkholm/dataprocess/internal/store"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    string
		wantMessage string
	}{
		{
			name:        "nil error returns empty",
			err:         nil,
			wantCode:    "",
			wantMessage: "",
		},
		{
			name:        "wrapped empty file",
			err:         fmt.Errorf("%w %q: %w", ErrUnreadableFile, "a.csv", ingest.ErrEmptyFile),
			wantCode:    "FILE005",
			wantMessage: "The uploaded file is empty",
		},
		{
			name:        "no data rows",
			err:         fmt.Errorf("read: %w", ingest.ErrNoData),
			wantCode:    "FILE006",
			wantMessage: "No Excel or CSV data",
		},
		{
			name:        "too large",
			err:         ingest.ErrTooLarge,
			wantCode:    "FILE001",
			wantMessage: "File exceeds maximum size limit",
		},
		{
			name:        "reader failure",
			err:         fmt.Errorf("%w %q: %w", ErrUnreadableFile, "a.csv", errors.New("bare \" in non-quoted field")),
			wantCode:    "FILE003",
			wantMessage: "The file could not be read",
		},
		{
			name:        "dataset not found",
			err:         fmt.Errorf("load dataset: %w", store.ErrNotFound),
			wantCode:    "DS001",
			wantMessage: "Dataset not found",
		},
		{
			name:        "unknown column",
			err:         errors.Join(fmt.Errorf("%w %q", infer.ErrUnknownColumn, "Nope")),
			wantCode:    "CONV002",
			wantMessage: "Column not found in dataset",
		},
		{
			name:        "unknown type tag",
			err:         fmt.Errorf("%w %q", infer.ErrUnknownTypeTag, "money"),
			wantCode:    "CONV001",
			wantMessage: "Unknown column type requested",
		},
		{
			name:        "busy",
			err:         ErrTooManyUploads,
			wantCode:    "UPL002",
			wantMessage: "System is busy processing other files",
		},
		{
			name:        "deadline wins over unreadable",
			err:         fmt.Errorf("%w %q: %w", ErrUnreadableFile, "a.csv", context.DeadlineExceeded),
			wantCode:    "UPL005",
			wantMessage: "Request timed out",
		},
		{
			name:        "connection refused pattern",
			err:         errors.New("dial tcp 127.0.0.1:5432: Connection Refused"),
			wantCode:    "DS003",
			wantMessage: "Unable to reach the dataset store",
		},
		{
			name:        "unknown error returns default",
			err:         errors.New("some random internal error"),
			wantCode:    "ERR000",
			wantMessage: "An unexpected error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q", got.Code, tt.wantCode)
			}
			if got.Message != tt.wantMessage {
				t.Errorf("MapError() message = %q, want %q", got.Message, tt.wantMessage)
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	result := FormatUserError(fmt.Errorf("load: %w", store.ErrNotFound))

	expected := "Dataset not found (Code: DS001). Upload the file again to create a new dataset"
	if result != expected {
		t.Errorf("FormatUserError() = %q, want %q", result, expected)
	}
}

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil error is not user facing", nil, false},
		{"known error is user facing", ErrNoFile, true},
		{"unknown error is not user facing", errors.New("random internal error xyz"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUserFacing(tt.err); got != tt.want {
				t.Errorf("IsUserFacing() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewUserError(t *testing.T) {
	t.Run("nil error returns nil", func(t *testing.T) {
		if got := NewUserError(nil); got != nil {
			t.Errorf("NewUserError(nil) = %v, want nil", got)
		}
	})

	t.Run("wraps technical error with user message", func(t *testing.T) {
		techErr := fmt.Errorf("parse id: %w", ErrInvalidDatasetID)
		userErr := NewUserError(techErr)

		if userErr.Error() != "Dataset id is not valid" {
			t.Errorf("Error() = %q, want user message", userErr.Error())
		}
		if !errors.Is(userErr, ErrInvalidDatasetID) {
			t.Error("Unwrap() should expose the original error")
		}
	})
}
