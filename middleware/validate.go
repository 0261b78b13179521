package middleware

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"

	"github.com/einadid/microtask-server/utils"
)

var errUnsupportedMedia = errors.New("content-type must be application/json")

// ValidateJSON decodes the JSON body into dst and runs its validate tags.
// On failure it has already written the response.
func ValidateJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	if mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type")); err != nil || mt != "application/json" {
		utils.WriteJSON(w, http.StatusUnsupportedMediaType, utils.APIResponse{Success: false, Message: "Content-Type must be application/json"})
		return errUnsupportedMedia
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			utils.WriteJSON(w, http.StatusRequestEntityTooLarge, utils.APIResponse{Success: false, Message: "Request body too large"})
			return err
		}
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid JSON body"})
		return err
	}
	if err := utils.ValidateStruct(dst); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Validation failed", Data: err.Error()})
		return err
	}
	return nil
}
