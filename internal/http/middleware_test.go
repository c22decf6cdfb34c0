package http

import (
	"bufio"
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/example/studio-scheduler/internal/logging"
)

func TestRequestLogger(t *testing.T) {
	t.Parallel()

	t.Run("assigns a request id and logs the status", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewJSONHandler(&buf, nil))

		var seenID string
		var hadLogger bool
		handler := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seenID, _ = RequestIDFromContext(r.Context())
			hadLogger = logging.FromContext(r.Context()) != nil
			w.WriteHeader(http.StatusTeapot)
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		if _, err := uuid.Parse(seenID); err != nil {
			t.Fatalf("expected uuid request id, got %q", seenID)
		}
		if rec.Header().Get(RequestIDHeader) != seenID {
			t.Fatalf("expected response header %q, got %q", seenID, rec.Header().Get(RequestIDHeader))
		}
		if !hadLogger {
			t.Fatalf("expected logger in request context")
		}

		var entry map[string]any
		scanner := bufio.NewScanner(&buf)
		for scanner.Scan() {
			if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
				t.Fatalf("decode log line: %v", err)
			}
		}
		if entry["msg"] != "request completed" || entry["status"] != float64(http.StatusTeapot) || entry["request_id"] != seenID {
			t.Fatalf("unexpected log entry %+v", entry)
		}
	})

	t.Run("reuses a valid incoming request id", func(t *testing.T) {
		t.Parallel()

		incoming := uuid.NewString()
		handler := RequestLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("ok"))
		}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, incoming)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Header().Get(RequestIDHeader) != incoming {
			t.Fatalf("expected %s to be reused, got %s", incoming, rec.Header().Get(RequestIDHeader))
		}

		req = httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "not-a-uuid")
		rec = httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Header().Get(RequestIDHeader) == "not-a-uuid" {
			t.Fatalf("expected malformed id to be replaced")
		}
	})
}

func TestETagMatching(t *testing.T) {
	t.Parallel()

	tag := entityTag([]byte(`{"a":1}`))
	if tag != entityTag([]byte(`{"a":1}`)) || tag == entityTag([]byte(`{"a":2}`)) {
		t.Fatalf("entity tags must be deterministic and content dependent")
	}

	cases := []struct {
		header string
		want   bool
	}{
		{header: "", want: false},
		{header: "*", want: true},
		{header: tag, want: true},
		{header: "W/" + tag, want: true},
		{header: `"abc", ` + tag, want: true},
		{header: `"abc"`, want: false},
	}
	for _, tc := range cases {
		if got := etagMatches(tc.header, tag); got != tc.want {
			t.Fatalf("etagMatches(%q) = %v, want %v", tc.header, got, tc.want)
		}
	}
}
