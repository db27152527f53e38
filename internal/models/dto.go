package models

// PageInfo points at a neighbouring page in a paginated listing.
type PageInfo struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Pagination is included in list envelopes when the window has neighbours.
type Pagination struct {
	Next *PageInfo `json:"next,omitempty"`
	Prev *PageInfo `json:"prev,omitempty"`
}

// SuccessResponse is the envelope every successful endpoint returns.
type SuccessResponse struct {
	Success    bool        `json:"success"`
	Count      *int64      `json:"count,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
	Data       interface{} `json:"data"`
}

// TokenResponse is returned by the auth endpoints that issue a session token.
type TokenResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
}

// ErrorResponse is the envelope every failed endpoint returns. Error is a
// human-readable message; stack traces are never included.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func NewSuccessResponse(data interface{}) SuccessResponse {
	return SuccessResponse{Success: true, Data: data}
}

func NewListResponse(data interface{}, count int64, pagination *Pagination) SuccessResponse {
	return SuccessResponse{Success: true, Count: &count, Pagination: pagination, Data: data}
}

func NewErrorResponse(message string) ErrorResponse {
	return ErrorResponse{Success: false, Error: message}
}
