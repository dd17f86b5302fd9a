package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"

	"github.com/reoring/coerce"
	"github.com/reoring/coerce/middleware"
	"github.com/reoring/coerce/schema"
)

const fooObject = `{
  "title": "Foo",
  "type": "object",
  "properties": {"foo": {"type": "string"}},
  "required": ["foo"]
}`

func handler(t *testing.T, maxBody int64) (http.Handler, *any) {
	t.Helper()
	s, err := schema.Parse([]byte(fooObject))
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	reg := coerce.NewRegistry()
	if err := reg.RegisterDocument(s, nil); err != nil {
		t.Fatalf("register: %v", err)
	}
	var got any
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = middleware.ValueFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	return middleware.Coerce(coerce.NewDeserializer(reg, s), maxBody)(next), &got
}

func TestCoerce_PassesValue(t *testing.T) {
	h, got := handler(t, 0)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`Here you go: {"foo": "bar"}`)))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	if !reflect.DeepEqual(*got, map[string]any{"foo": "bar"}) {
		t.Fatalf("unexpected value %#v", *got)
	}
}

func TestCoerce_RejectsWithIssues(t *testing.T) {
	h, _ := handler(t, 0)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"bar": 1}`)))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status %d", rec.Code)
	}
	var payload struct {
		Error  string `json:"error"`
		Issues []struct {
			Code string `json:"Code"`
		} `json:"issues"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(payload.Issues) != 1 || payload.Issues[0].Code != "required" {
		t.Fatalf("unexpected payload %s", rec.Body.String())
	}
}

func TestCoerce_CanceledRequest(t *testing.T) {
	h, got := handler(t, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"foo": "bar"}`)).WithContext(ctx)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Body.Len() != 0 || *got != nil {
		t.Fatalf("canceled request must not be answered or forwarded, body %q", rec.Body.String())
	}

	ctx, cancel = context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"foo": "bar"}`)).WithContext(ctx))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status %d", rec.Code)
	}
}

func TestCoerce_BodyLimit(t *testing.T) {
	h, _ := handler(t, 4)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"foo": "bar"}`)))
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status %d", rec.Code)
	}
}
