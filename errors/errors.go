package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrInvalidInput        = fmt.Errorf("invalid input")
	ErrNameTaken           = fmt.Errorf("name already taken")
	ErrParticipantNotFound = fmt.Errorf("participant not found")
	ErrMessageNotFound     = fmt.Errorf("message not found")
	ErrUnknownSender       = fmt.Errorf("unknown sender")
	ErrForbidden           = fmt.Errorf("forbidden")
	ErrWorkerPanic         = fmt.Errorf("worker panic")
)

// MapToStatusCode translates a domain error into the HTTP status carried to
// the client. Anything unrecognized is a storage/internal failure and stays
// behind a generic 500 so that store details never leak.
func MapToStatusCode(err error) int {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrNameTaken):
		return http.StatusConflict
	case errors.Is(err, ErrParticipantNotFound),
		errors.Is(err, ErrMessageNotFound),
		errors.Is(err, ErrUnknownSender):
		return http.StatusNotFound
	case errors.Is(err, ErrForbidden):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
