// Package errors defines the domain error taxonomy shared by all engine
// components. Each DomainError carries the HTTP status handlers should
// respond with, so the mapping lives in one place.
package errors

import "net/http"

type DomainError struct {
	Code    string
	Message string
	Status  int
}

func (e *DomainError) Error() string {
	return e.Message
}

// StatusOf resolves the HTTP status for an error, defaulting to 500.
func StatusOf(err error) int {
	if de, ok := err.(*DomainError); ok {
		return de.Status
	}
	return http.StatusInternalServerError
}
