package tinyfs

import (
	"fmt"

	"github.com/nullblock/tinyblockfs/errors"
)

func errFileNameTooLong(length int) errors.FSError {
	return errors.ErrFileNameTooLong.WithMessage(
		fmt.Sprintf("name is %d bytes, max is %d", length, MaxFNameSize))
}
