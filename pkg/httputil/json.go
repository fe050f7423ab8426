package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	errs "github.com/matzehuels/phylo/pkg/errors"
)

// MaxBodyBytes bounds request bodies read by DecodeJSON.
const MaxBodyBytes = 8 << 20

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error     string    `json:"error"`
	Code      errs.Code `json:"code,omitempty"`
	RequestID string    `json:"request_id,omitempty"`
}

// DecodeJSON decodes the request body into v. Unknown fields, trailing data
// and oversized bodies fail with [errs.ErrCodeInvalidInput].
func DecodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, MaxBodyBytes+1))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return errs.New(errs.ErrCodeInvalidInput, "request body is truncated or larger than %d bytes", MaxBodyBytes)
		}
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "decode request body")
	}
	if dec.More() {
		return errs.New(errs.ErrCodeInvalidInput, "request body holds more than one JSON value")
	}
	return nil
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes err as an [ErrorBody] with the status from [StatusFor].
// Internal errors are reported without their message.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	body := ErrorBody{
		Error:     errs.UserMessage(err),
		Code:      errs.GetCode(err),
		RequestID: RequestID(r.Context()),
	}
	if status == http.StatusInternalServerError {
		body.Error = http.StatusText(status)
		body.Code = errs.ErrCodeInternal
	}
	WriteJSON(w, status, body)
}

// StatusFor maps an error onto an HTTP status code.
func StatusFor(err error) int {
	switch errs.GetCode(err) {
	case errs.ErrCodeInvalidInput, errs.ErrCodeSyntax, errs.ErrCodeMalformedTopology:
		return http.StatusBadRequest
	case errs.ErrCodeUnknownTip, errs.ErrCodeUnknownLabel, errs.ErrCodeMissingLengths, errs.ErrCodeAmbiguousMatch:
		return http.StatusUnprocessableEntity
	case errs.ErrCodeNotFound, errs.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errs.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

type ctxKey int

const requestIDKey ctxKey = 0

// WithRequestID returns a context carrying id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestID returns the request ID stored in ctx, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
