package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ranked-vote/stv.vote/tabulation"
)

// statusCodeError attaches an HTTP status code to an error without
// losing the wrapped error's message or Unwrap chain.
type statusCodeError struct {
	err  error
	code int
}

func (e statusCodeError) Error() string { return e.err.Error() }
func (e statusCodeError) Unwrap() error { return e.err }

func statusCode(code int, err error) error {
	return statusCodeError{err: err, code: code}
}

// resolveError maps an error returned by a handler to an HTTP status
// code and writes a JSON error body. Errors carrying ErrInvalid map to
// 400, ErrNotAllowed to 403; everything else is treated as an opaque
// server error, per §7's "surface it as an opaque 500-equivalent" error
// taxonomy.
func resolveError(w http.ResponseWriter, err error) {
	var sc statusCodeError
	if errors.As(err, &sc) {
		writeFormattedError(w, sc.code, sc.err)
		return
	}
	if errors.Is(err, tabulation.ErrInvalid) {
		writeFormattedError(w, http.StatusBadRequest, err)
		return
	}
	if errors.Is(err, tabulation.ErrNotAllowed) {
		writeFormattedError(w, http.StatusForbidden, err)
		return
	}
	writeFormattedError(w, http.StatusInternalServerError, errors.New("internal error"))
}

func writeFormattedError(w http.ResponseWriter, code int, err error) {
	writeStatusCode(w, code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

func writeStatusCode(w http.ResponseWriter, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
}
