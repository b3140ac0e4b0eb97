package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"typed", Validation("Judul wajib diisi"), KindValidationFailed},
		{"wrapped typed", fmt.Errorf("create: %w", ScopeMissing()), KindScopeMissing},
		{"untyped", errors.New("connection refused"), KindServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestInternal_KeepsCauseOutOfMessage(t *testing.T) {
	cause := errors.New("pq: relation \"users\" does not exist")
	err := Internal(cause)

	assert.Equal(t, MsgServerError, err.Message)
	assert.ErrorIs(t, err, cause)
	assert.True(t, Is(err, KindServerError))
}

func TestDuplicateScope_Message(t *testing.T) {
	err := DuplicateScope("TI", "2023")
	assert.Equal(t, "Operator untuk TI angkatan 2023 sudah ada", err.Message)
}
