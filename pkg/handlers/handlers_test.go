package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JaimeStill/moodlog/pkg/handlers"
	"github.com/JaimeStill/moodlog/pkg/middleware"
)

func TestRespondJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	handlers.RespondJSON(rec, http.StatusCreated, map[string]string{"mood": "happy"})

	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content-type = %s", ct)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"mood":"happy"}` {
		t.Errorf("body = %s", got)
	}
}

func TestRespondJSONEncodingFailure(t *testing.T) {
	rec := httptest.NewRecorder()
	handlers.RespondJSON(rec, http.StatusOK, map[string]any{"bad": make(chan int)})

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestRespondError(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		err       error
		wantBody  string
		wantLevel string
	}{
		{
			name:      "client error echoed",
			status:    http.StatusBadRequest,
			err:       errors.New("invalid mood: elated"),
			wantBody:  "invalid mood: elated",
			wantLevel: "level=WARN",
		},
		{
			name:      "server error masked",
			status:    http.StatusServiceUnavailable,
			err:       errors.New("dial tcp 10.0.0.5:5432: connection refused"),
			wantBody:  "service unavailable",
			wantLevel: "level=ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logs bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&logs, nil))

			req := httptest.NewRequest(http.MethodPost, "/moods?x=1", nil)
			req.Header.Set(middleware.RequestIDHeader, "req-7")

			rec := httptest.NewRecorder()
			middleware.RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handlers.RespondError(w, r, logger, tt.status, tt.err)
			})).ServeHTTP(rec, req)

			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}

			var body map[string]string
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body["error"] != tt.wantBody {
				t.Errorf("error = %q, want %q", body["error"], tt.wantBody)
			}

			for _, want := range []string{tt.wantLevel, "request_id=req-7", "uri=\"/moods?x=1\"", tt.err.Error()} {
				if !strings.Contains(logs.String(), want) {
					t.Errorf("log missing %q: %s", want, logs.String())
				}
			}
		})
	}
}

func TestRespondAttachment(t *testing.T) {
	rec := httptest.NewRecorder()
	handlers.RespondAttachment(rec, "mood_export_20260314.csv", "text/csv", []byte("id,mood\n"))

	want := map[string]string{
		"Content-Disposition": "attachment; filename=mood_export_20260314.csv",
		"Content-Type":        "text/csv",
		"Content-Length":      "8",
	}
	for k, v := range want {
		if got := rec.Header().Get(k); got != v {
			t.Errorf("%s = %q, want %q", k, got, v)
		}
	}
	if rec.Body.String() != "id,mood\n" {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestAttachmentQuotesUnsafeNames(t *testing.T) {
	rec := httptest.NewRecorder()
	handlers.Attachment(rec, "mood export.csv")

	if got := rec.Header().Get("Content-Disposition"); got != `attachment; filename="mood export.csv"` {
		t.Errorf("Content-Disposition = %s", got)
	}
}
