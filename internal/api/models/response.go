package models

// ErrorDetail is the error payload body.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse is the envelope for all error replies.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// NewError builds an error envelope.
func NewError(code, message string) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: code, Message: message}}
}

// StrategyInfo describes one registered strategy
type StrategyInfo struct {
	ID          string `json:"id"`
	Description string `json:"description,omitempty"`
}

// ScenarioInfo describes one supported scenario type
type ScenarioInfo struct {
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
}
