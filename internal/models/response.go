package models

// APIResponse is a generic API response wrapper
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
}

// NewSuccessResponse creates a success response
func NewSuccessResponse(data interface{}) APIResponse {
	return APIResponse{
		Success: true,
		Data:    data,
	}
}

// NewErrorResponse creates an error response
func NewErrorResponse(message string) APIResponse {
	return APIResponse{
		Success: false,
		Error:   message,
	}
}

// NewValidationErrorResponse creates a validation error response
func NewValidationErrorResponse(errors map[string]string) APIResponse {
	return APIResponse{
		Success: false,
		Error:   "Validation failed",
		Errors:  errors,
	}
}

// UploadResponse carries the hosted URL of an uploaded file.
type UploadResponse struct {
	URL string `json:"url"`
}

// DashboardStats are the admin dashboard counters.
type DashboardStats struct {
	Projects     int64 `json:"projects"`
	Skills       int64 `json:"skills"`
	Certificates int64 `json:"certificates"`
	Experience   int64 `json:"experience"`
}

