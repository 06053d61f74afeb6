package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

const genericErrorMessage = "something went wrong"

// Error is a non-2xx API response.
type Error struct {
	StatusCode int
	Message    string
	// Fields holds per-field messages when the server rejects input (422).
	Fields map[string]string
}

func (e *Error) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return fmt.Sprintf("%s (status %d): %s", e.Message, e.StatusCode, strings.Join(parts, "; "))
}

// IsStatus reports whether err is an *Error with the given status code.
func IsStatus(err error, code int) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == code
}

// errorBody is the server's error envelope. "error" wins over "data".
type errorBody struct {
	Error string          `json:"error"`
	Data  json.RawMessage `json:"data"`
}

// newError extracts a user-facing message from resp: the "error" field, then a
// string "data" field, then the HTTP status text.
func newError(resp *Response) *Error {
	e := &Error{StatusCode: resp.StatusCode}

	var body errorBody
	if err := json.Unmarshal(resp.Body, &body); err == nil {
		e.Message = body.Error
		if len(body.Data) > 0 {
			var s string
			var fields map[string]string
			switch {
			case json.Unmarshal(body.Data, &s) == nil:
				if e.Message == "" {
					e.Message = s
				}
			case json.Unmarshal(body.Data, &fields) == nil:
				e.Fields = fields
			}
		}
	}

	if e.Message == "" {
		e.Message = strings.ToLower(http.StatusText(resp.StatusCode))
	}
	if e.Message == "" {
		e.Message = genericErrorMessage
	}
	return e
}
