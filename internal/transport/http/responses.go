package httptransport

import (
	"encoding/json"
	"net/http"

	"streamgate/pkg/domainerrors"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError centralizes domain error translation so every handler returns
// the same JSON envelope. Internal detail never leaks: the envelope carries
// only the coded, caller-safe message.
func writeError(w http.ResponseWriter, err error) {
	code := domainerrors.CodeOf(err)
	writeJSON(w, domainerrors.ToHTTPStatus(code), map[string]string{
		"error": domainerrors.MessageOf(err),
	})
}
