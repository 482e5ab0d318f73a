package gateway

import (
	"encoding/json"
	"net/http"
)

// DetailResponse is the FastAPI-style error body the front end already
// knows how to display.
type DetailResponse struct {
	Detail string `json:"detail"`
}

// WriteJSONError writes a {"detail": ...} JSON error response.
func WriteJSONError(w http.ResponseWriter, statusCode int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(DetailResponse{Detail: detail})
}

// WriteErrorBadRequest writes a 400 Bad Request JSON error.
func WriteErrorBadRequest(w http.ResponseWriter, detail string) {
	WriteJSONError(w, http.StatusBadRequest, detail)
}

// WriteErrorNotFound writes a 404 Not Found JSON error.
func WriteErrorNotFound(w http.ResponseWriter, detail string) {
	WriteJSONError(w, http.StatusNotFound, detail)
}

// WriteErrorTooLarge writes a 413 Request Entity Too Large JSON error.
func WriteErrorTooLarge(w http.ResponseWriter, detail string) {
	WriteJSONError(w, http.StatusRequestEntityTooLarge, detail)
}

// WriteErrorInternal writes a 500 Internal Server Error JSON error.
func WriteErrorInternal(w http.ResponseWriter, detail string) {
	WriteJSONError(w, http.StatusInternalServerError, detail)
}

// WriteErrorBadGateway writes a 502 Bad Gateway JSON error.
func WriteErrorBadGateway(w http.ResponseWriter, detail string) {
	WriteJSONError(w, http.StatusBadGateway, detail)
}
