//go:build windows

package ops

import (
	"os"

	"github.com/pohangstory/storyteller/internal/errors"
)

// Windows has no O_NOFOLLOW. Creating a symlink there requires elevated
// privileges, and ValidatePath has already refused symlinks via Lstat,
// so plain opens stand in for the no-follow variants.

func createNoFollow(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
}

func openNoFollow(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewFileNotFound(path)
		}
		return nil, err
	}
	return f, nil
}
