package models

import "fmt"

// ApiResponse is the JSON envelope of the HTTP API.
type ApiResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Total   *int   `json:"total,omitempty"`
	Error   string `json:"error,omitempty"`
}

func SuccessResponse(data any) ApiResponse {
	return ApiResponse{Success: true, Data: data}
}

// ListResponse always reports total, so an empty list reads as 0.
func ListResponse(data any, total int) ApiResponse {
	return ApiResponse{Success: true, Data: data, Total: &total}
}

func ErrorResponse(format string, args ...any) ApiResponse {
	return ApiResponse{Error: fmt.Sprintf(format, args...)}
}
