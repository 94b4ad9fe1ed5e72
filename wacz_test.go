package wacz_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vbanos/wacz"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := wacz.Errorf(wacz.ENOTFOUND, "page %q not found", "test")

	assert.Equal(t, wacz.ENOTFOUND, wacz.ErrorCode(err))
	assert.Equal(t, "page \"test\" not found", wacz.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, wacz.ErrorCode(nil))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, wacz.ErrorMessage(nil))
}
