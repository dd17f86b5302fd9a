// Package middleware coerces HTTP request bodies before they reach a handler.
package middleware

import (
	"context"
	"errors"
	"io"
	"net/http"

	json "github.com/goccy/go-json"

	"github.com/reoring/coerce"
	"github.com/reoring/coerce/diag"
)

// DefaultMaxBody bounds the request body read by Coerce.
const DefaultMaxBody int64 = 1 << 20

type ctxKeyValue struct{}

// ContextWithValue attaches a coerced value to the context.
func ContextWithValue(ctx context.Context, v any) context.Context {
	return context.WithValue(ctx, ctxKeyValue{}, v)
}

// ValueFromContext retrieves the value stored by Coerce.
func ValueFromContext(ctx context.Context) (any, bool) {
	v := ctx.Value(ctxKeyValue{})
	return v, v != nil
}

// ErrorPayload shapes a failed coercion for JSON responses.
func ErrorPayload(de *diag.DeserializeError) map[string]any {
	return map[string]any{
		"error":    de.Error(),
		"issues":   de.Errors,
		"warnings": de.Warnings,
	}
}

// Coerce reads the request body (up to maxBody bytes, DefaultMaxBody when
// zero), coerces it with ds and stores the result for next. Coercion failures
// answer 422 with ErrorPayload; configuration errors answer 500. A canceled
// request gets no response; an expired deadline answers 503.
func Coerce(ds *coerce.Deserializer, maxBody int64) func(http.Handler) http.Handler {
	if maxBody <= 0 {
		maxBody = DefaultMaxBody
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBody))
			if err != nil {
				var tooLarge *http.MaxBytesError
				if errors.As(err, &tooLarge) {
					http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
					return
				}
				http.Error(w, "failed to read request body", http.StatusBadRequest)
				return
			}
			v, err := ds.Coerce(r.Context(), string(body))
			switch {
			case errors.Is(err, context.Canceled):
				return
			case errors.Is(err, context.DeadlineExceeded):
				http.Error(w, "request deadline exceeded", http.StatusServiceUnavailable)
				return
			}
			if err != nil {
				if de, ok := coerce.AsDeserializeError(err); ok {
					writeJSON(w, http.StatusUnprocessableEntity, ErrorPayload(de))
					return
				}
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithValue(r.Context(), v)))
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
