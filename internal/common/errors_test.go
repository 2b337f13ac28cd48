package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserErrorWrapsCause(t *testing.T) {
	cause := fmt.Errorf("%w: data/raw/bank.xls", ErrMissingFile)
	err := NewUserError("could not parse bank statement", cause)

	assert.EqualError(t, err, "could not parse bank statement: input file not found: data/raw/bank.xls")
	assert.ErrorIs(t, err, ErrMissingFile, "sentinel kinds survive the user-facing wrapper")

	var uerr *UserError
	assert.True(t, errors.As(err, &uerr))
	assert.Equal(t, "could not parse bank statement", uerr.UserMessage)
}

func TestUserErrorWithoutCause(t *testing.T) {
	err := NewUserError("nothing to do", nil)
	assert.EqualError(t, err, "nothing to do")
}
