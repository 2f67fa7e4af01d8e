package services

import "net/http"

// ServiceError carries an HTTP status alongside a user-facing message so
// controllers can translate failures without inspecting error strings.
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	return e.Message
}

func NewServiceError(statusCode int, message string) *ServiceError {
	return &ServiceError{StatusCode: statusCode, Message: message}
}

func badRequest(message string) *ServiceError {
	return NewServiceError(http.StatusBadRequest, message)
}

func notFound(message string) *ServiceError {
	return NewServiceError(http.StatusNotFound, message)
}

func unauthorized(message string) *ServiceError {
	return NewServiceError(http.StatusUnauthorized, message)
}

func internal(message string) *ServiceError {
	return NewServiceError(http.StatusInternalServerError, message)
}
