package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestWithComponentReplacesComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Format: "json", Output: &buf, Component: ComponentApp})

	logger.WithComponent(ComponentRates).Info("hello", FieldCurrency, "EUR")

	line := strings.TrimSpace(buf.String())
	if strings.Count(line, `"component"`) != 1 {
		t.Fatalf("expected exactly one component attribute: %s", line)
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(line), &rec); err != nil {
		t.Fatalf("invalid json log line: %v", err)
	}
	if rec[FieldComponent] != ComponentRates || rec[FieldCurrency] != "EUR" {
		t.Fatalf("unexpected record: %v", rec)
	}
}

func TestLogFieldsBuilder(t *testing.T) {
	f := NewFields().WithOperation(OpImport).WithOwner(7).WithError(errors.New("boom")).WithError(nil)
	if f[FieldOperation] != OpImport || f[FieldOwner] != int64(7) || f[FieldError] != "boom" {
		t.Fatalf("unexpected fields: %v", f)
	}
	if len(f.ToSlice()) != 6 {
		t.Fatalf("expected 6 slice items, got %d", len(f.ToSlice()))
	}
}

func TestMiddlewareChain(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Format: "json", Output: &buf})

	h := Middleware(logger)(RequestIDMiddleware(func(*http.Request) string { return "req_1" })(AccessLog(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		}),
	)))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/x", nil))

	if rr.Header().Get("X-Request-ID") != "req_1" {
		t.Fatalf("missing request id header")
	}
	out := buf.String()
	if !strings.Contains(out, `"request_id":"req_1"`) || !strings.Contains(out, `"status_code":418`) {
		t.Fatalf("unexpected access log: %s", out)
	}
	if !strings.Contains(out, `"level":"WARN"`) {
		t.Fatalf("4xx should log at warn: %s", out)
	}
}

func TestFromContextWithoutLogger(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if FromContext(req.Context()) == nil {
		t.Fatalf("expected a fallback logger")
	}
}
