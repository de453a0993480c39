package apperror

import (
	"net/http"
)

const (
	NoValidFileCode = "400001"
)

// 400 Bad Request
func ErrNoValidFile(err error) Error {
	return NewError(err, http.StatusBadRequest, NoValidFileCode, "No valid file uploaded")
}
