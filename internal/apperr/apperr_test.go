package apperr

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestKindAndStatus(t *testing.T) {
	tests := []struct {
		err    error
		kind   Kind
		status int
		msg    string
	}{
		{Validation("NIK dan password harus diisi"), KindValidation, http.StatusBadRequest, "NIK dan password harus diisi"},
		{Conflict("NIK sudah terdaftar"), KindConflict, http.StatusConflict, "NIK sudah terdaftar"},
		{Unauthorized("NIK atau password salah"), KindUnauthorized, http.StatusUnauthorized, "NIK atau password salah"},
		{Forbidden("Akses ditolak"), KindForbidden, http.StatusForbidden, "Akses ditolak"},
		{NotFound("User tidak ditemukan"), KindNotFound, http.StatusNotFound, "User tidak ditemukan"},
		{Internal(errors.New("connection refused"), "find user"), KindInternal, http.StatusInternalServerError, InternalMessage},
		{errors.New("unclassified"), KindInternal, http.StatusInternalServerError, InternalMessage},
		{fmt.Errorf("wrapped: %w", NotFound("gone")), KindNotFound, http.StatusNotFound, "gone"},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.kind, KindOf(tt.err))
			assert.Equal(t, tt.status, Status(KindOf(tt.err)))
			assert.Equal(t, tt.msg, Message(tt.err))
		})
	}
}

func TestInternalKeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Internal(cause, "find user")
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "find user: connection refused")
	assert.NotContains(t, Message(err), "connection refused")
}
