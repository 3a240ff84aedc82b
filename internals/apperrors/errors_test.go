package apperrors_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chandanojha35419/currency-exchange-api/internals/apperrors"
)

func TestStatusCodes(t *testing.T) {
	cases := []struct {
		err  *apperrors.Error
		want int
	}{
		{apperrors.Validation("bad input"), http.StatusBadRequest},
		{apperrors.Authentication("who are you"), http.StatusUnauthorized},
		{apperrors.Forbidden("not yours"), http.StatusForbidden},
		{apperrors.NotFound("gone"), http.StatusNotFound},
		{apperrors.Server("boom", nil), http.StatusInternalServerError},
		{apperrors.ServiceUnavailable("later"), http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.err.StatusCode(), tc.err.Message)
	}
}

func TestWithReasonCopies(t *testing.T) {
	base := apperrors.Authentication("token issue")
	expired := base.WithReason(apperrors.ReasonExpired)

	assert.Equal(t, apperrors.ReasonNone, base.Reason)
	assert.Equal(t, apperrors.ReasonExpired, expired.Reason)
	assert.Equal(t, base.Message, expired.Message)
}

func TestErrorsIsMatchesOnKind(t *testing.T) {
	err := apperrors.NotFound("no such row")
	assert.True(t, errors.Is(err, apperrors.NotFound("")))
	assert.False(t, errors.Is(err, apperrors.Validation("")))
	assert.False(t, errors.Is(err, fmt.Errorf("plain")))
}

func TestUnwrapKeepsCause(t *testing.T) {
	cause := fmt.Errorf("disk on fire")
	err := apperrors.Server("storage failed", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "disk on fire")

	// the cause never shows in the client-facing message
	assert.Equal(t, "storage failed", err.Message)
}

func TestKindAndReasonHelpers(t *testing.T) {
	err := apperrors.Forbidden("staff only").WithReason(apperrors.ReasonStaffOnly)

	assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))
	assert.False(t, apperrors.IsKind(err, apperrors.KindServer))
	assert.True(t, apperrors.HasReason(err, apperrors.ReasonStaffOnly))
	assert.False(t, apperrors.HasReason(fmt.Errorf("plain"), apperrors.ReasonStaffOnly))
}
