package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	cases := []struct {
		err  error
		want Kind
	}{
		{fmt.Errorf("%w: companyName is required", ErrInvalidInput), KindValidation},
		{fmt.Errorf("convert: %w", ErrProfileIncomplete), KindValidation},
		{ErrInvalidTransition, KindValidation},
		{fmt.Errorf("get draft: %w", ErrNotFound), KindNotFound},
		{ErrEmailAlreadyExists, KindConflict},
		{ErrUnauthorized, KindUnauthorized},
		{ErrOnboardingRequired, KindForbidden},
		{errors.New("connection reset"), KindInternal},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, KindOf(tc.err), tc.err.Error())
	}
}
