package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-skc/skc/internal/logging"
)

// DecodeErr maps a json decode failure onto a client visible status. Anything
// that is not clearly the client's fault lands on a 500.
func DecodeErr(ctx context.Context, w http.ResponseWriter, err error) {
	var (
		syntaxErr    *json.SyntaxError
		unmarshalErr *json.UnmarshalTypeError
	)
	switch {
	case errors.As(err, &syntaxErr):
		RespBadRequest(ctx, w, `{"error": "malformed json at position %v"}`, syntaxErr.Offset)
	case errors.Is(err, io.ErrUnexpectedEOF):
		RespBadRequest(ctx, w, `{"error": "malformed json"}`)
	case errors.As(err, &unmarshalErr):
		RespBadRequest(ctx, w, `{"error": "invalid value %v at position %v"}`, unmarshalErr.Field, unmarshalErr.Offset)
	case strings.HasPrefix(err.Error(), "json: unknown field"):
		RespBadRequest(ctx, w, `{"error": "unknown field %s"}`, strings.TrimPrefix(err.Error(), "json: unknown field "))
	case errors.Is(err, io.EOF):
		RespBadRequest(ctx, w, `{"error": "body must not be empty"}`)
	case err.Error() == "http: request body too large":
		respond(ctx, w, http.StatusRequestEntityTooLarge, `{"error": "request body too large"}`)
	default:
		RespInternalError(ctx, w, `{"error": "failed to decode json %v"}`, err)
	}
}

func RespBadRequest(ctx context.Context, w http.ResponseWriter, format string, args ...interface{}) {
	respond(ctx, w, http.StatusBadRequest, fmt.Sprintf(format, args...))
}

func RespUnprocessable(ctx context.Context, w http.ResponseWriter, format string, args ...interface{}) {
	respond(ctx, w, http.StatusUnprocessableEntity, fmt.Sprintf(format, args...))
}

func RespNotFound(ctx context.Context, w http.ResponseWriter, format string, args ...interface{}) {
	respond(ctx, w, http.StatusNotFound, fmt.Sprintf(format, args...))
}

func RespInternalError(ctx context.Context, w http.ResponseWriter, format string, args ...interface{}) {
	logging.FromContext(ctx).Errorf(format, args...)
	respond(ctx, w, http.StatusInternalServerError, `{"error": "internal error"}`)
}

func respond(ctx context.Context, w http.ResponseWriter, status int, body string) {
	if status < http.StatusInternalServerError {
		logging.FromContext(ctx).Debug(body)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	fmt.Fprintln(w, body)
}
