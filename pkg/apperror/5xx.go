package apperror

import (
	"net/http"
)

const (
	InternalServerCode     = "500000"
	RemoveBackgroundCode   = "500001"
	ServiceUnavailableCode = "503001"
)

// 500 Internal Server Error
func ErrInternalServer(err error) Error {
	return NewError(err, http.StatusInternalServerError, InternalServerCode, "Internal Server Error")
}

func ErrRemoveBackground(err error) Error {
	return NewError(err, http.StatusInternalServerError, RemoveBackgroundCode, "Failed to remove background")
}

// 503 Service Unavailable
func ErrServiceUnavailable(err error) Error {
	return NewError(err, http.StatusServiceUnavailable, ServiceUnavailableCode, "Background remover unavailable")
}
