package dto

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"
)

func TestAPIError(t *testing.T) {
	t.Run("NewAPIError", func(t *testing.T) {
		err := NewAPIError(http.StatusNotFound, ErrorCodeNotFound, "resource not found")
		if err.StatusCode() != http.StatusNotFound {
			t.Errorf("StatusCode() = %d", err.StatusCode())
		}
		if err.Code() != ErrorCodeNotFound {
			t.Errorf("Code() = %s", err.Code())
		}
		if err.Error() != "resource not found" || err.Message() != "resource not found" {
			t.Errorf("Error() = %q, Message() = %q", err.Error(), err.Message())
		}
		if err.Details() == nil {
			t.Error("Details() returned nil")
		}
	})
	t.Run("WithDetails", func(t *testing.T) {
		err := (&APIError{code: ErrorCodeValidationFailed}).
			WithDetails(map[string]any{"a": 1}).
			WithDetail("b", 2)
		if err.Details()["a"] != 1 || err.Details()["b"] != 2 {
			t.Errorf("Details() = %v", err.Details())
		}
	})
	t.Run("Wrap", func(t *testing.T) {
		base := errors.New("disk full")
		err := StorageError(base)
		if !errors.Is(err, base) {
			t.Error("errors.Is() failed on wrapped error")
		}
		if err.Error() != "Error writing file: disk full" {
			t.Errorf("Error() = %q", err.Error())
		}
		if err.Message() != "Error writing file" {
			t.Errorf("Message() leaks the cause: %q", err.Message())
		}
		var ews ErrorWithStatus
		if !errors.As(error(err), &ews) {
			t.Fatal("APIError does not implement ErrorWithStatus")
		}
	})
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name    string
		err     *APIError
		status  int
		code    ErrorCode
		message string
	}{
		{"NotFound", NotFound("user"), http.StatusNotFound, ErrorCodeNotFound, "user not found"},
		{"BadRequest", BadRequest("bad"), http.StatusBadRequest, ErrorCodeValidationFailed, "bad"},
		{"MissingFields", MissingFields([]string{"age"}), http.StatusBadRequest, ErrorCodeMissingField, "All fields are required"},
		{"InvalidFormat", InvalidFormat("age"), http.StatusBadRequest, ErrorCodeInvalidFormat, "Invalid value for age"},
		{"Conflict", Conflict(3), http.StatusBadRequest, ErrorCodeConflict, "User already exists"},
		{"StorageError", StorageError(errors.New("x")), http.StatusInternalServerError, ErrorCodeStorageError, "Error writing file"},
		{"Internal", Internal("boom"), http.StatusInternalServerError, ErrorCodeInternal, "boom"},
		{"NotImplemented", NotImplemented("History"), http.StatusNotImplemented, ErrorCodeNotImplemented, "History is not enabled"},
		{"PayloadTooLarge", PayloadTooLarge(10), http.StatusRequestEntityTooLarge, ErrorCodePayloadTooLarge, "Request body exceeds 10 bytes"},
		{"RateLimitExceeded", RateLimitExceeded(2 * time.Second), http.StatusTooManyRequests, ErrorCodeRateLimitExceeded, "Too many requests"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.StatusCode() != tt.status {
				t.Errorf("StatusCode() = %d, want %d", tt.err.StatusCode(), tt.status)
			}
			if tt.err.Code() != tt.code {
				t.Errorf("Code() = %s, want %s", tt.err.Code(), tt.code)
			}
			if tt.err.Message() != tt.message {
				t.Errorf("Message() = %q, want %q", tt.err.Message(), tt.message)
			}
		})
	}
}

func TestErrorResponseJSON(t *testing.T) {
	b, err := json.Marshal(ErrorResponse{Message: "User already exists", Code: ErrorCodeConflict})
	if err != nil {
		t.Fatal(err)
	}
	if want := `{"message":"User already exists","code":"CONFLICT"}`; string(b) != want {
		t.Errorf("got %s, want %s", b, want)
	}
}
