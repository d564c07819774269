package errutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorIncludesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Internal("failed to store session", cause)

	require.Equal(t, "[INTERNAL] failed to store session: connection refused", err.Error())
	require.ErrorIs(t, err, cause)
}

func TestErrorWithoutCause(t *testing.T) {
	err := UnprocessableEntity("held balance below release amount", nil)
	require.Equal(t, "[UNPROCESSABLE_ENTITY] held balance below release amount", err.Error())
}

func TestConstructorsMapToHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{BadRequest("bad", nil), http.StatusBadRequest},
		{Unauthorized("no", nil), http.StatusUnauthorized},
		{Forbidden("no", nil), http.StatusForbidden},
		{NotFound("gone", nil), http.StatusNotFound},
		{Conflict("dup", nil), http.StatusConflict},
		{UnprocessableEntity("held", nil), http.StatusUnprocessableEntity},
		{Internal("boom", nil), http.StatusInternalServerError},
		{BadGateway("upstream", nil), http.StatusBadGateway},
	}

	for _, tc := range cases {
		var be BaseError
		require.True(t, errors.As(tc.err, &be))
		require.Equal(t, tc.want, be.Code.HTTPStatus())
	}
}

func TestJSONBody(t *testing.T) {
	err := BadRequest("minimum bet is 10 coins", nil)

	var be BaseError
	require.True(t, errors.As(err, &be))

	body := be.JSON().(map[string]interface{})
	inner := body["error"].(map[string]interface{})
	require.Equal(t, StatusBadRequest, inner["code"])
	require.Equal(t, "minimum bet is 10 coins", inner["message"])
	require.Equal(t, fmt.Sprintf("[%s] %s", StatusBadRequest, inner["message"]), be.Error())
}
