package fileproc

import (
	"fmt"
)

// ErrorKind represents the closed set of failure categories for a batch run.
type ErrorKind int

const (
	ErrorKindIo ErrorKind = iota
	ErrorKindFileTooLarge
	ErrorKindEmptyFile
	ErrorKindEncoding
	ErrorKindUnsupportedFormat
	ErrorKindParse
	ErrorKindValidation
	ErrorKindSetup
)

// String returns the string representation of ErrorKind.
func (ek ErrorKind) String() string {
	switch ek {
	case ErrorKindIo:
		return "IO"
	case ErrorKindFileTooLarge:
		return "FILE_TOO_LARGE"
	case ErrorKindEmptyFile:
		return "EMPTY_FILE"
	case ErrorKindEncoding:
		return "ENCODING"
	case ErrorKindUnsupportedFormat:
		return "UNSUPPORTED_FORMAT"
	case ErrorKindParse:
		return "PARSE"
	case ErrorKindValidation:
		return "VALIDATION"
	case ErrorKindSetup:
		return "SETUP"
	default:
		return "UNKNOWN"
	}
}

// Recoverable reports whether the batch continues after this kind of error.
// Only setup failures abort the run; every other kind marks a single file
// failed and processing moves on.
func (ek ErrorKind) Recoverable() bool {
	return ek != ErrorKindSetup
}

// ProcessingError is a categorized error with the originating file path and
// an optional wrapped cause. It is immutable once constructed.
type ProcessingError struct {
	Kind    ErrorKind
	Path    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (pe *ProcessingError) Error() string {
	if pe.Path != "" {
		return fmt.Sprintf("[%s] %s: %s", pe.Kind, pe.Path, pe.Message)
	}
	return fmt.Sprintf("[%s] %s", pe.Kind, pe.Message)
}

// Unwrap returns the underlying cause error.
func (pe *ProcessingError) Unwrap() error {
	return pe.Cause
}

// NewIoError wraps a filesystem-level failure (stat, open, read).
func NewIoError(path string, cause error) *ProcessingError {
	return &ProcessingError{
		Kind:    ErrorKindIo,
		Path:    path,
		Message: fmt.Sprintf("cannot read file: %v", cause),
		Cause:   cause,
	}
}

// NewFileTooLargeError reports a file that exceeds the configured size limit.
func NewFileTooLargeError(path string, size, max int64) *ProcessingError {
	return &ProcessingError{
		Kind:    ErrorKindFileTooLarge,
		Path:    path,
		Message: fmt.Sprintf("file size %d bytes exceeds limit of %d bytes", size, max),
	}
}

// NewEmptyFileError reports a zero-byte input.
func NewEmptyFileError(path string) *ProcessingError {
	return &ProcessingError{
		Kind:    ErrorKindEmptyFile,
		Path:    path,
		Message: "file is empty",
	}
}

// NewEncodingError reports content that is not valid UTF-8.
func NewEncodingError(path string) *ProcessingError {
	return &ProcessingError{
		Kind:    ErrorKindEncoding,
		Path:    path,
		Message: "content is not valid UTF-8",
	}
}

// NewUnsupportedFormatError reports an extension no processor matches.
func NewUnsupportedFormatError(path, extension string) *ProcessingError {
	msg := fmt.Sprintf("no processor for extension %q", extension)
	if extension == "" {
		msg = "file has no extension and no format override"
	}
	return &ProcessingError{
		Kind:    ErrorKindUnsupportedFormat,
		Path:    path,
		Message: msg,
	}
}

// NewParseError wraps a format-specific grammar violation, preserving the
// underlying parser's position-annotated message as the cause.
func NewParseError(path string, cause error) *ProcessingError {
	return &ProcessingError{
		Kind:    ErrorKindParse,
		Path:    path,
		Message: fmt.Sprintf("malformed content: %v", cause),
		Cause:   cause,
	}
}

// NewValidationError reports structurally parseable content that fails a
// semantic check.
func NewValidationError(path, message string) *ProcessingError {
	return &ProcessingError{
		Kind:    ErrorKindValidation,
		Path:    path,
		Message: message,
	}
}

// NewSetupError reports a fatal pre-batch condition. It is the only kind
// allowed to propagate out of a batch run.
func NewSetupError(message string, cause error) *ProcessingError {
	if cause != nil {
		message = fmt.Sprintf("%s: %v", message, cause)
	}
	return &ProcessingError{
		Kind:    ErrorKindSetup,
		Message: message,
		Cause:   cause,
	}
}

// AsProcessingError converts an arbitrary error into a *ProcessingError,
// wrapping unclassified errors as IO failures for the given path.
func AsProcessingError(err error, path string) *ProcessingError {
	if err == nil {
		return nil
	}
	if pe, ok := err.(*ProcessingError); ok {
		return pe
	}
	return NewIoError(path, err)
}
