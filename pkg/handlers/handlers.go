// Package handlers holds the response helpers shared by domain HTTP handlers.
package handlers

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/JaimeStill/moodlog/pkg/middleware"
)

// RespondJSON encodes data and writes it with status. An encoding failure
// becomes a bare 500 since nothing has been written yet.
func RespondJSON(w http.ResponseWriter, status int, data any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(data); err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

// RespondError writes {"error": "..."}. Client errors echo err; server
// errors are logged in full and answered with the status text alone so
// connection details never reach the caller.
func RespondError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, status int, err error) {
	attrs := []any{
		"method", r.Method,
		"uri", r.URL.RequestURI(),
		"status", status,
		"error", err,
	}
	if id := middleware.RequestIDFrom(r.Context()); id != "" {
		attrs = append(attrs, "request_id", id)
	}

	msg := err.Error()
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", attrs...)
		msg = strings.ToLower(http.StatusText(status))
	} else {
		logger.Warn("request rejected", attrs...)
	}

	RespondJSON(w, status, map[string]string{"error": msg})
}

// Attachment marks the response as a download named filename.
func Attachment(w http.ResponseWriter, filename string) {
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": filename,
	}))
}

// RespondAttachment writes data as a file download.
func RespondAttachment(w http.ResponseWriter, filename, contentType string, data []byte) {
	Attachment(w, filename)
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
