package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/einadid/microtask-server/services"
)

func TestWriteServiceError_MapsKinds(t *testing.T) {
	cases := []struct {
		err    error
		status int
		msg    string
	}{
		{services.ErrInsufficientCoins, http.StatusUnprocessableEntity, "insufficient coins"},
		{fmt.Errorf("approve: %w", services.ErrSubmissionNotPending), http.StatusUnprocessableEntity, "submission is not pending"},
		{&services.Error{Kind: services.KindValidation, Message: "bad"}, http.StatusBadRequest, "bad"},
		{&services.Error{Kind: services.KindForbidden, Message: "no"}, http.StatusForbidden, "no"},
		{&services.Error{Kind: services.KindNotFound, Message: "task not found"}, http.StatusNotFound, "task not found"},
		{services.ErrPaymentAlreadyApplied, http.StatusConflict, "payment already recorded"},
		{&services.Error{Kind: services.KindExternal, Message: "gateway"}, http.StatusBadGateway, "gateway"},
		{errors.New("sql: connection refused"), http.StatusInternalServerError, "Internal server error"},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		WriteServiceError(w, httptest.NewRequest("GET", "/x", nil), tc.err)
		assert.Equal(t, tc.status, w.Code)
		var resp APIResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		assert.Equal(t, tc.msg, resp.Message)
	}
}

func TestValidateStruct_UsesJSONNames(t *testing.T) {
	type req struct {
		Coin   int64  `json:"withdrawal_coin" validate:"required,min=1"`
		Email  string `json:"email" validate:"required,email"`
		Choice string `json:"role" validate:"oneof=worker buyer"`
	}
	assert.EqualError(t, ValidateStruct(req{Email: "a@b.co", Choice: "worker"}), "withdrawal_coin is required")
	assert.EqualError(t, ValidateStruct(req{Coin: 1, Email: "nope", Choice: "worker"}), "email must be a valid email address")
	assert.EqualError(t, ValidateStruct(req{Coin: 1, Email: "a@b.co", Choice: "admin"}), "role must be one of [worker buyer]")
	assert.NoError(t, ValidateStruct(req{Coin: 1, Email: "a@b.co", Choice: "buyer"}))
}
