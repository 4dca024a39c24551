// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
package apierror

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// Validation wraps multiple field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Fields: fields}
}

// RejectionError carries the scheduling-rejection kind so operators can
// distinguish hard violations (ineligible staff, outside hours…) from each
// other when rendering the error.
type RejectionError struct {
	Detail string `json:"detail"`
	Tipo   string `json:"tipo"`
}

func NewRejection(tipo, msg string) *RejectionError {
	return &RejectionError{Detail: msg, Tipo: tipo}
}

// ConflictError is the 409 envelope for soft resource-capacity conflicts;
// Conflictos holds the per-recurso detail the caller may force past.
type ConflictError struct {
	Detail     string      `json:"detail"`
	Conflictos interface{} `json:"conflictos"`
}

func NewConflict(msg string, conflictos interface{}) *ConflictError {
	return &ConflictError{Detail: msg, Conflictos: conflictos}
}
