package internal

import "errors"

// AppError is the API-facing error envelope.
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

func NewAppError(code int, msg string) *AppError {
	return &AppError{Code: code, Message: msg}
}

var (
	// ErrInvalidImport rejects an import payload whose schemaVersion is
	// missing or not numeric. Persisted state is left untouched.
	ErrInvalidImport = errors.New("import: missing or non-numeric schemaVersion")

	// ErrStorageUnavailable marks a failed open/read/write of the
	// backing store; operations depending on a commit are not done
	// until the store confirms the write.
	ErrStorageUnavailable = errors.New("storage unavailable")
)
