package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/MarcoClaps/vrptw"
	"github.com/MarcoClaps/vrptw/store"
)

// Problem represents an RFC7807 problem details response body.
type Problem struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeProblem(w http.ResponseWriter, status int, title, detail, instance string) {
	writeJSON(w, status, Problem{
		Type:     "about:blank",
		Title:    title,
		Status:   status,
		Detail:   detail,
		Instance: instance,
	})
}

// writeError maps engine and store errors onto HTTP problems.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, title := http.StatusInternalServerError, "Internal Error"
	switch {
	case errors.Is(err, vrptw.ErrInvalidParameter), errors.Is(err, vrptw.ErrFormulation):
		status, title = http.StatusBadRequest, "Invalid Request"
	case errors.Is(err, store.ErrNotFound):
		status, title = http.StatusNotFound, "Not Found"
	case errors.Is(err, vrptw.ErrSubtourDetected), errors.Is(err, vrptw.ErrConstraintViolation):
		status, title = http.StatusUnprocessableEntity, "Invalid Solver Output"
	case errors.Is(err, vrptw.ErrSolver):
		status, title = http.StatusBadGateway, "Solver Error"
	case errors.Is(err, context.DeadlineExceeded):
		status, title = http.StatusGatewayTimeout, "Timeout"
	}
	writeProblem(w, status, title, err.Error(), r.URL.Path)
}

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	// an empty body keeps the defaults already in v
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return errors.Join(vrptw.ErrInvalidParameter, err)
	}
	return nil
}
