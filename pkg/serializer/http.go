package serializer

import (
	"bytes"
	"log/slog"
	"net/http"
)

// RespondJSON writes v as a JSON response body. The body is rendered through
// a Writer into a buffer before any header is written, so an encoding
// failure surfaces as a clean 500 instead of a partial response.
func RespondJSON(w http.ResponseWriter, statusCode int, v any) {
	var buf bytes.Buffer
	if err := NewWriter(FormatJSON, &buf).Serialize(v); err != nil {
		slog.Error("json encoding failed", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if _, err := w.Write(buf.Bytes()); err != nil {
		// Connection is broken, log but can't recover
		slog.Warn("response write failed", "error", err)
	}
}
