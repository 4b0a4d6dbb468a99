package response

import (
	"encoding/json"
	"net/http"
)

// M is shorthand for ad-hoc JSON payloads.
type M map[string]any

// JSON writes v as an application/json response with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Message writes a {"message": ...} payload with the given status.
func Message(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, M{"message": msg})
}
