// Provides helper functions for writing error responses.

package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/kishore-freak653/CRUD-Application/internal/server/dto"
)

// WriteErrorResponse writes err as a JSON error response. Errors that do not
// implement dto.ErrorWithStatus are reported as a 500 without their text.
// Use this in raw handlers and middleware that don't go through server.Wrap.
func WriteErrorResponse(w http.ResponseWriter, err error) {
	resp := dto.ErrorResponse{Message: "internal error", Code: dto.ErrorCodeInternal}
	statusCode := http.StatusInternalServerError
	var ewsErr dto.ErrorWithStatus
	if errors.As(err, &ewsErr) {
		statusCode = ewsErr.StatusCode()
		resp.Code = ewsErr.Code()
		resp.Message = ewsErr.Message()
		if d := ewsErr.Details(); len(d) != 0 {
			resp.Details = d
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("Failed to encode error response", "err", err)
	}
}
