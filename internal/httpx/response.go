// Package httpx holds the small JSON and request-body helpers shared by the
// handlers and middleware.
package httpx

import (
	"encoding/json"
	"net/http"
	"strings"
)

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	var body []byte
	var err error
	if payload != nil {
		body, err = json.Marshal(payload)
		if err != nil {
			// avoid writing partial JSON
			http.Error(w, `{"message":"encode_error"}`, http.StatusInternalServerError)
			return
		}
	} else {
		body = []byte("null")
	}
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func JSONError(w http.ResponseWriter, status int, msg string, errs map[string][]string) {
	JSON(w, status, ErrorResponse{Message: msg, Errors: errs})
}

// WantsJSON reports whether the client asked for a JSON answer rather than a
// redirect.
func WantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

// StatusRecorder remembers the status written through it.
type StatusRecorder struct {
	http.ResponseWriter
	Status  int
	written bool
}

func NewStatusRecorder(w http.ResponseWriter) *StatusRecorder {
	return &StatusRecorder{ResponseWriter: w, Status: http.StatusOK}
}

func (r *StatusRecorder) WriteHeader(code int) {
	if !r.written {
		r.Status = code
		r.written = true
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *StatusRecorder) Write(b []byte) (int, error) {
	r.written = true
	return r.ResponseWriter.Write(b)
}

// Written reports whether anything reached the client.
func (r *StatusRecorder) Written() bool { return r.written }

func (r *StatusRecorder) Unwrap() http.ResponseWriter { return r.ResponseWriter }
