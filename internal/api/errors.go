package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/tallybook/tally/internal/export"
	"github.com/tallybook/tally/internal/history"
	"github.com/tallybook/tally/internal/store"
	"github.com/tallybook/tally/internal/validate"
	"github.com/tallybook/tally/pkg/gradebook"
	"github.com/tallybook/tally/pkg/rental"
	"github.com/tallybook/tally/pkg/scoring"
)

var badRequest = []error{
	store.ErrInvalidKey,
	export.ErrEmptySheet,
	gradebook.ErrInvalidTerm,
	gradebook.ErrInvalidSubject,
	rental.ErrInvalidDate,
	rental.ErrEndBeforeStart,
	rental.ErrInvalidAmount,
	rental.ErrInvalidPayment,
	rental.ErrInsufficientCash,
}

var notFound = []error{
	store.ErrNotFound,
	history.ErrNotFound,
	gradebook.ErrStudentNotFound,
	rental.ErrClientNotFound,
	rental.ErrRentalNotFound,
}

var conflict = []error{
	gradebook.ErrStudentExists,
	rental.ErrCarExists,
	rental.ErrClientExists,
	rental.ErrCarUnavailable,
	rental.ErrRentalClosed,
}

// statusFor maps a domain error to its HTTP status.
func statusFor(err error) int {
	if validate.IsValidationError(err) || scoring.IsParseError(err) || scoring.IsInvalidInput(err) {
		return http.StatusBadRequest
	}
	for _, group := range []struct {
		errs   []error
		status int
	}{
		{badRequest, http.StatusBadRequest},
		{notFound, http.StatusNotFound},
		{conflict, http.StatusConflict},
	} {
		for _, target := range group.errs {
			if errors.Is(err, target) {
				return group.status
			}
		}
	}
	return http.StatusInternalServerError
}

// writeDomainError writes err with the status statusFor picks. Internal
// errors are logged and hidden from the client.
func writeDomainError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("api: %v", err)
		writeError(w, status, "internal error")
		return
	}

	var verr *validate.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, status, map[string]any{
			"error":  verr.Error(),
			"fields": verr.Fields,
		})
		return
	}
	writeError(w, status, err.Error())
}
