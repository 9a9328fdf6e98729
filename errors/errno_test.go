package errors_test

import (
	stderrors "errors"
	"testing"

	"github.com/nullblock/tinyblockfs/errors"
	"github.com/stretchr/testify/assert"
)

func TestSentinelWithMessage(t *testing.T) {
	err := errors.ErrDirFull.WithMessage("cwd has 31 entries")
	assert.Equal(t, "directory is full: cwd has 31 entries", err.Error())
	assert.True(t, stderrors.Is(err, errors.ErrDirFull))
	assert.EqualValues(t, 506, err.Code())
}

func TestSentinelWrap(t *testing.T) {
	original := stderrors.New("disk offline")
	err := errors.ErrIOError.Wrap(original)

	assert.Equal(t, "I/O error: disk offline", err.Error())
	assert.True(t, stderrors.Is(err, original))
	assert.True(t, stderrors.Is(err, errors.ErrIOError))
}

func TestCode(t *testing.T) {
	assert.EqualValues(t, 503, errors.Code(errors.ErrFileNotFound))
	assert.EqualValues(t, 0, errors.Code(nil))
	assert.EqualValues(t, errors.CodeUnknown, errors.Code(stderrors.New("plain")))
}
