package core

// Error codes for domain errors.
const (
	ErrCodeBadRequest         = "bad_request"
	ErrCodeRoomNotFound       = "room_not_found"
	ErrCodeStorageUnavailable = "storage_unavailable"
)

// CoreError wraps a stable code and a human-readable message.
type CoreError struct {
	Code    string
	Message string
	Err     error
}

func (e *CoreError) Error() string {
	return e.Message
}

func (e *CoreError) Unwrap() error {
	return e.Err
}

func badRequest(msg string) *CoreError {
	return &CoreError{Code: ErrCodeBadRequest, Message: msg}
}

func storageUnavailable(err error) *CoreError {
	return &CoreError{Code: ErrCodeStorageUnavailable, Message: "storage unavailable", Err: err}
}
