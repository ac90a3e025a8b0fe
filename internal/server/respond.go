package server

import (
	"encoding/json"
	"net/http"

	"github.com/okrause/tikzcanvas/pkg/apperr"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error struct {
		Code    apperr.Code `json:"code"`
		Message string      `json:"message"`
	} `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

// writeError maps error codes to HTTP statuses. Unknown errors become 500s
// with the message hidden.
func writeError(w http.ResponseWriter, err error) {
	var body errorBody
	body.Error.Code = apperr.GetCode(err)
	body.Error.Message = apperr.UserMessage(err)

	status := http.StatusInternalServerError
	switch body.Error.Code {
	case apperr.CodeInvalidInput, apperr.CodeInvalidSource:
		status = http.StatusBadRequest
	case apperr.CodeNotFound, apperr.CodeDiagramNotFound, apperr.CodeNodeNotFound:
		status = http.StatusNotFound
	case apperr.CodeUnauthorized:
		status = http.StatusUnauthorized
	case apperr.CodeForbidden:
		status = http.StatusForbidden
	case apperr.CodeConflict:
		status = http.StatusConflict
	case "":
		body.Error.Code = apperr.CodeInternal
		body.Error.Message = "internal error"
	case apperr.CodeInternal:
		body.Error.Message = "internal error"
	}

	writeJSON(w, status, body)
}

// decode reads a JSON request body into v.
func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperr.Wrap(apperr.CodeInvalidInput, err, "malformed request body")
	}
	return nil
}
