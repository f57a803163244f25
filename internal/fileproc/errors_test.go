package fileproc

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorKind_String(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want string
	}{
		{ErrorKindIo, "IO"},
		{ErrorKindFileTooLarge, "FILE_TOO_LARGE"},
		{ErrorKindEmptyFile, "EMPTY_FILE"},
		{ErrorKindEncoding, "ENCODING"},
		{ErrorKindUnsupportedFormat, "UNSUPPORTED_FORMAT"},
		{ErrorKindParse, "PARSE"},
		{ErrorKindValidation, "VALIDATION"},
		{ErrorKindSetup, "SETUP"},
		{ErrorKind(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("ErrorKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestErrorKind_Recoverable(t *testing.T) {
	for _, kind := range []ErrorKind{
		ErrorKindIo, ErrorKindFileTooLarge, ErrorKindEmptyFile, ErrorKindEncoding,
		ErrorKindUnsupportedFormat, ErrorKindParse, ErrorKindValidation,
	} {
		if !kind.Recoverable() {
			t.Errorf("%v.Recoverable() = false, want true", kind)
		}
	}

	if ErrorKindSetup.Recoverable() {
		t.Error("ErrorKindSetup.Recoverable() = true, want false")
	}
}

func TestProcessingError_Error(t *testing.T) {
	pe := NewValidationError("/data/rows.csv", "row 3 has 2 fields, expected 4")

	msg := pe.Error()
	if !strings.Contains(msg, "VALIDATION") {
		t.Errorf("Error() = %q, want kind tag", msg)
	}
	if !strings.Contains(msg, "/data/rows.csv") {
		t.Errorf("Error() = %q, want file path", msg)
	}
	if !strings.Contains(msg, "row 3") {
		t.Errorf("Error() = %q, want message", msg)
	}
}

func TestProcessingError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("unexpected end of JSON input")
	pe := NewParseError("/data/bad.json", cause)

	if !errors.Is(pe, cause) {
		t.Error("errors.Is() does not find the wrapped cause")
	}

	if pe.Kind != ErrorKindParse {
		t.Errorf("Kind = %v, want ErrorKindParse", pe.Kind)
	}
	if !strings.Contains(pe.Message, "unexpected end of JSON input") {
		t.Errorf("Message = %q, want the parser's message preserved", pe.Message)
	}
}

func TestNewFileTooLargeError(t *testing.T) {
	pe := NewFileTooLargeError("/data/big.csv", 2048, 1024)

	if pe.Kind != ErrorKindFileTooLarge {
		t.Errorf("Kind = %v, want ErrorKindFileTooLarge", pe.Kind)
	}
	if !strings.Contains(pe.Message, "2048") || !strings.Contains(pe.Message, "1024") {
		t.Errorf("Message = %q, want both the size and the limit", pe.Message)
	}
}

func TestNewUnsupportedFormatError(t *testing.T) {
	tests := []struct {
		name      string
		extension string
		errMsg    string
	}{
		{"with extension", "xml", `extension "xml"`},
		{"no extension", "", "no extension"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pe := NewUnsupportedFormatError("/data/file", tt.extension)
			if !strings.Contains(pe.Message, tt.errMsg) {
				t.Errorf("Message = %q, want to contain %q", pe.Message, tt.errMsg)
			}
		})
	}
}

func TestAsProcessingError(t *testing.T) {
	if AsProcessingError(nil, "x") != nil {
		t.Error("AsProcessingError(nil) should be nil")
	}

	pe := NewEmptyFileError("/data/empty.txt")
	if got := AsProcessingError(pe, "/other"); got != pe {
		t.Error("AsProcessingError should pass through a *ProcessingError unchanged")
	}

	plain := fmt.Errorf("disk on fire")
	wrapped := AsProcessingError(plain, "/data/file.txt")
	if wrapped.Kind != ErrorKindIo {
		t.Errorf("Kind = %v, want ErrorKindIo for unclassified errors", wrapped.Kind)
	}
	if wrapped.Path != "/data/file.txt" {
		t.Errorf("Path = %q, want the given path", wrapped.Path)
	}
}
