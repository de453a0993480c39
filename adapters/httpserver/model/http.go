package model

type ErrorResponse struct {
	Error string `json:"error"`
} // @name model.ErrorResponse

type FailureResponse struct {
	Message string `json:"message"`
} // @name model.FailureResponse

type StatusResponse struct {
	Status string `json:"status"`
} // @name model.StatusResponse
