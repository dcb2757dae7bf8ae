package response

import (
	"errors"
	"net/http"

	"github.com/rgehrsitz/ukpayroll/internal/config"
	"github.com/rgehrsitz/ukpayroll/internal/ledger"
	"github.com/rgehrsitz/ukpayroll/internal/payrun"
)

// ErrMalformedBody marks a request body that could not be decoded
var ErrMalformedBody = errors.New("malformed request body")

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrMalformedBody):
		BadRequest(w, err.Error())
	case errors.Is(err, payrun.ErrInvalidRequest):
		BadRequest(w, err.Error())
	case errors.Is(err, config.ErrInvalidConfig):
		BadRequest(w, err.Error())

	case errors.Is(err, ledger.ErrNotFound):
		NotFound(w, "No year-to-date ledger for this employee and tax year")
	case errors.Is(err, ledger.ErrNonMonotonic), errors.Is(err, ledger.ErrAlreadyPosted):
		Conflict(w, err.Error())

	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
