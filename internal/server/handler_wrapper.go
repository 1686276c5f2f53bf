// Provides middleware for standardizing HTTP handlers.

package server

import (
	"bytes"
	"context"
	"encoding"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strconv"

	"github.com/kishore-freak653/CRUD-Application/internal/metrics"
	"github.com/kishore-freak653/CRUD-Application/internal/server/dto"
	"github.com/kishore-freak653/CRUD-Application/internal/server/handlers"
	"github.com/kishore-freak653/CRUD-Application/internal/server/ratelimit"
	"github.com/kishore-freak653/CRUD-Application/internal/server/reqctx"
	"github.com/kishore-freak653/CRUD-Application/internal/storage/git"
	"github.com/kishore-freak653/CRUD-Application/internal/storage/users"
)

// Deps holds what Wrap needs besides the handler. Nil fields disable the
// matching feature.
type Deps struct {
	MaxBodyBytes int64
	Limits       *ratelimit.Config
	History      *git.History
	Metrics      *metrics.Metrics
	Users        *users.Service
}

// isMutating returns true for HTTP methods that modify state.
func isMutating(method string) bool {
	return method == http.MethodPost || method == http.MethodPut || method == http.MethodPatch || method == http.MethodDelete
}

// afterMutation records the new version of the data document and refreshes
// the record gauge.
//
// It always attempts the commit regardless of handler outcome; when the
// document did not change, Commit is a no-op.
func afterMutation(ctx context.Context, r *http.Request, d *Deps) {
	if !isMutating(r.Method) {
		return
	}
	if d.History != nil {
		if err := d.History.Commit(ctx, r.Method+" "+r.URL.Path); err != nil {
			slog.ErrorContext(ctx, "Failed to commit data document", "err", err)
		}
	}
	if d.Metrics != nil && d.Users != nil {
		d.Metrics.SetRecords(d.Users.Len())
	}
}

// checkRateLimit checks the client's budget and wraps the response writer.
// Returns the (possibly wrapped) writer and whether the request should
// proceed.
func checkRateLimit(w http.ResponseWriter, r *http.Request, d *Deps) (http.ResponseWriter, bool) {
	tier := d.Limits.Match(r.Method, r.URL.Path)
	if tier == nil {
		return w, true
	}
	result := tier.Limiter.Allow(ratelimit.BuildKey(reqctx.GetClientIP(r), tier.Name))
	w = ratelimit.NewResponseWriter(w, result)
	if !result.Allowed {
		if d.Metrics != nil {
			d.Metrics.RateLimited(tier.Name)
		}
		handlers.WriteErrorResponse(w, dto.RateLimitExceeded(result.RetryAfter))
		return w, false
	}
	return w, true
}

// readAndDecodeBody reads the request body with size limit and decodes JSON
// into input. Returns false if an error occurred and was written to the
// response.
func readAndDecodeBody[In any](ctx context.Context, w http.ResponseWriter, r *http.Request, input *In, maxBytes int64) bool {
	if maxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	}
	body, err := io.ReadAll(r.Body)
	if err2 := r.Body.Close(); err == nil {
		err = err2
	}
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			handlers.WriteErrorResponse(w, dto.PayloadTooLarge(maxBytesErr.Limit))
			return false
		}
		slog.ErrorContext(ctx, "Failed to read request body", "err", err)
		handlers.WriteErrorResponse(w, dto.BadRequest("Failed to read request body"))
		return false
	}
	if len(bytes.TrimSpace(body)) > 0 {
		d := json.NewDecoder(bytes.NewReader(body))
		d.DisallowUnknownFields()
		if err := d.Decode(input); err != nil {
			slog.WarnContext(ctx, "Failed to decode request body", "err", err)
			handlers.WriteErrorResponse(w, dto.BadRequest("Invalid request body"))
			return false
		}
	}
	return true
}

// writeJSONResponse writes a JSON response or error response.
func writeJSONResponse[Out any](ctx context.Context, w http.ResponseWriter, output *Out, err error, d *Deps) {
	if err != nil {
		statusCode := http.StatusInternalServerError
		errorCode := dto.ErrorCodeInternal
		var ewsErr dto.ErrorWithStatus
		if errors.As(err, &ewsErr) {
			statusCode = ewsErr.StatusCode()
			errorCode = ewsErr.Code()
		}
		if errorCode == dto.ErrorCodeStorageError && d.Metrics != nil {
			d.Metrics.PersistenceFailed()
		}
		if statusCode >= http.StatusInternalServerError {
			slog.ErrorContext(ctx, "Handler error", "err", err, "statusCode", statusCode, "code", errorCode)
		} else {
			slog.InfoContext(ctx, "Request rejected", "err", err, "statusCode", statusCode, "code", errorCode)
		}
		handlers.WriteErrorResponse(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(output); err != nil {
		slog.ErrorContext(ctx, "Failed to encode response", "err", err)
	}
}

// handleValidationError handles a validation error from a request's Validate
// method.
func handleValidationError(ctx context.Context, w http.ResponseWriter, err error) {
	var ewsErr dto.ErrorWithStatus
	if !errors.As(err, &ewsErr) {
		err = dto.BadRequest(err.Error())
	}
	slog.InfoContext(ctx, "Validation error", "err", err)
	handlers.WriteErrorResponse(w, err)
}

// Wrap wraps a handler function to work as an http.Handler.
// The function must have signature: func(context.Context, *In) (*Out, error)
// where In can be unmarshalled from JSON and Out is JSON encodable.
// Path parameters are bound to struct fields tagged `path:"name"` and query
// parameters to fields tagged `query:"name"`.
// *In must implement dto.Validatable.
//
// Example:
//
//	type GetUserRequest struct {
//	    ID int64 `path:"id"`
//	}
//
//	func (h *UserHandler) GetUser(ctx context.Context, req *GetUserRequest) (*User, error)
func Wrap[In any, PtrIn interface {
	*In
	dto.Validatable
}, Out any](fn func(context.Context, PtrIn) (*Out, error), d *Deps) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var ok bool
		if w, ok = checkRateLimit(w, r, d); !ok {
			return
		}

		input := new(In)
		if !readAndDecodeBody(ctx, w, r, input, d.MaxBodyBytes) {
			return
		}
		populatePathParams(r, input)
		populateQueryParams(r, input)

		if err := PtrIn(input).Validate(); err != nil {
			handleValidationError(ctx, w, err)
			return
		}

		output, err := fn(ctx, PtrIn(input))
		afterMutation(ctx, r, d)
		writeJSONResponse(ctx, w, output, err, d)
	})
}

// populatePathParams extracts path parameters from the request and populates
// struct fields tagged with `path:"paramName"`. Values that fail to parse
// leave the field zero for Validate to reject.
func populatePathParams(r *http.Request, input any) {
	populate(input, "path", r.PathValue)
}

// populateQueryParams extracts query parameters from the request and
// populates struct fields tagged with `query:"paramName"`.
func populateQueryParams(r *http.Request, input any) {
	query := r.URL.Query()
	populate(input, "query", query.Get)
}

func populate(input any, tagName string, lookup func(string) string) {
	val := reflect.ValueOf(input)
	if val.Kind() != reflect.Pointer {
		return
	}
	elem := val.Elem()
	if elem.Kind() != reflect.Struct {
		return
	}
	typ := elem.Type()
	for i := range typ.NumField() {
		tag := typ.Field(i).Tag.Get(tagName)
		if tag == "" {
			continue
		}
		value := lookup(tag)
		if value == "" {
			continue
		}
		fieldVal := elem.Field(i)
		switch fieldVal.Kind() {
		case reflect.String:
			fieldVal.SetString(value)
		case reflect.Int, reflect.Int64:
			if n, err := strconv.ParseInt(value, 10, 64); err == nil {
				fieldVal.SetInt(n)
			}
		default:
			if fieldVal.CanAddr() {
				if u, ok := fieldVal.Addr().Interface().(encoding.TextUnmarshaler); ok {
					_ = u.UnmarshalText([]byte(value))
				}
			}
		}
	}
}
