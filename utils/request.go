package utils

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
)

// PathID parses a positive numeric path variable.
func PathID(r *http.Request, name string) (uint, bool) {
	v, err := strconv.ParseUint(mux.Vars(r)[name], 10, 64)
	if err != nil || v == 0 {
		return 0, false
	}
	return uint(v), true
}

// PathEmail returns the normalized {email} path variable.
func PathEmail(r *http.Request) string {
	return strings.ToLower(strings.TrimSpace(mux.Vars(r)["email"]))
}

// QueryInt reads an integer query parameter, falling back to def.
func QueryInt(r *http.Request, key string, def int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return def
	}
	return v
}

func WriteOK(w http.ResponseWriter, data interface{}) {
	WriteJSON(w, http.StatusOK, APIResponse{Success: true, Message: "Successfully", Data: data})
}

func WriteBadRequest(w http.ResponseWriter, msg string) {
	WriteJSON(w, http.StatusBadRequest, APIResponse{Success: false, Message: msg})
}
