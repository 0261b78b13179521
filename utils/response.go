package utils

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/einadid/microtask-server/logger"
	"github.com/einadid/microtask-server/services"
)

type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, resp APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// WriteServiceError maps a service failure to its HTTP status. Internal
// errors are logged and answered with a generic message.
func WriteServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var se *services.Error
	if !errors.As(err, &se) {
		logger.Error("internal error", "method", r.Method, "path", r.URL.Path, "request_id", GetRequestID(r), "error", err)
		WriteJSON(w, http.StatusInternalServerError, APIResponse{Success: false, Message: "Internal server error"})
		return
	}
	status := http.StatusInternalServerError
	switch se.Kind {
	case services.KindValidation:
		status = http.StatusBadRequest
	case services.KindUnauthorized:
		status = http.StatusUnauthorized
	case services.KindForbidden:
		status = http.StatusForbidden
	case services.KindNotFound:
		status = http.StatusNotFound
	case services.KindConflict:
		status = http.StatusConflict
	case services.KindBusiness:
		status = http.StatusUnprocessableEntity
	case services.KindExternal:
		status = http.StatusBadGateway
		logger.Warn("external dependency failed", "path", r.URL.Path, "error", se.Message)
	}
	WriteJSON(w, status, APIResponse{Success: false, Message: se.Message})
}
