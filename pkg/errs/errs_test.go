package errs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, ""},
		{"validation", Validation("duration must be >= %d", 1), KindValidation},
		{"conflict", Conflict("unit %s unavailable", "u1"), KindConflict},
		{"not found", NotFound("booking %s not found", "b1"), KindNotFound},
		{"forbidden", Forbidden("not your booking"), KindForbidden},
		{"transition", InvalidTransition(errors.New("cannot confirm")), KindInvalidTransition},
		{"infrastructure", Infrastructure(errors.New("conn refused"), "find booking"), KindInfrastructure},
		{"plain error", errors.New("boom"), KindInfrastructure},
		{"wrapped conflict", Wrap(Conflict("taken"), "create booking"), KindConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestMarkKeepsMessage(t *testing.T) {
	err := Validation("check_in_date must be YYYY-MM-DD")
	assert.Equal(t, "check_in_date must be YYYY-MM-DD", err.Error())
	assert.Equal(t, KindValidation, KindOf(err))
	assert.NotEqual(t, KindConflict, KindOf(err))
}
