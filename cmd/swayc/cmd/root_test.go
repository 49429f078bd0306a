package cmd

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserErrorCarriesExitUserErrCode(t *testing.T) {
	err := userError(errors.New("boom"))
	ce, ok := err.(*cliError)
	if assert.True(t, ok) {
		assert.Equal(t, ExitUserErr, ce.code)
		assert.Equal(t, "boom", ce.Error())
	}
}

func TestInternalErrorCarriesExitInternalCode(t *testing.T) {
	err := internalError(errors.New("kaboom"))
	ce, ok := err.(*cliError)
	if assert.True(t, ok) {
		assert.Equal(t, ExitInternal, ce.code)
	}
}
