// pkg/models/api.go
package models

// Laravel-style validation error response
type ValidationErrorResponse struct {
	Message string              `json:"message" example:"Validation failed"`
	Errors  map[string][]string `json:"errors"`
}

// Generic error response (403/404/409/500)
type ErrorResponse struct {
	Error   bool   `json:"error" example:"true"`
	Message string `json:"message" example:"Forbidden"`
	Code    string `json:"code,omitempty" example:"FORBIDDEN"`
}

// Delete refused because dependent records still exist
type BlockedResponse struct {
	Error      bool     `json:"error" example:"true"`
	Message    string   `json:"message" example:"client has dependent records"`
	Code       string   `json:"code" example:"INTEGRITY_BLOCKED"`
	Dependents []string `json:"dependents" example:"cases,invoices"`
}

// Id of a freshly inserted row
type CreatedResponse struct {
	ID int `json:"id" example:"1"`
}
