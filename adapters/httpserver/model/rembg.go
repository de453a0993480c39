package model

const RemoveBackgroundSucceeded = "Background removed successfully"

type RemoveBackgroundResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	// Result is a data URL: data:<mime>;base64,<payload>
	Result string `json:"result"`
} // @name model.RemoveBackgroundResponse
