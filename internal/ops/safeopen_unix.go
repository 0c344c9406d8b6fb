//go:build !windows

package ops

import (
	stderrors "errors"
	"os"
	"syscall"

	"github.com/pohangstory/storyteller/internal/errors"
)

// Transfer files are opened with O_NOFOLLOW so the kernel refuses a
// symlink in the final path component, closing the window between the
// Lstat in ValidatePath and the actual open. O_NOFOLLOW says nothing
// about the directories above the file, which is why validated paths
// must sit directly inside an export root. O_CLOEXEC keeps the
// descriptor from leaking into child processes.

// createNoFollow creates or truncates a transfer file for writing.
func createNoFollow(path string) (*os.File, error) {
	flags := syscall.O_CREAT | syscall.O_WRONLY | syscall.O_TRUNC |
		syscall.O_NOFOLLOW | syscall.O_CLOEXEC
	fd, err := syscall.Open(path, flags, 0600)
	if err != nil {
		if stderrors.Is(err, syscall.ELOOP) {
			return nil, errors.NewInvalidRequest("cannot write to symlink")
		}
		return nil, err
	}
	return os.NewFile(uintptr(fd), path), nil
}

// openNoFollow opens a transfer file for reading.
func openNoFollow(path string) (*os.File, error) {
	fd, err := syscall.Open(path, syscall.O_RDONLY|syscall.O_NOFOLLOW|syscall.O_CLOEXEC, 0)
	if err != nil {
		switch {
		case stderrors.Is(err, syscall.ELOOP):
			return nil, errors.NewInvalidRequest("cannot read from symlink")
		case stderrors.Is(err, syscall.ENOENT):
			return nil, errors.NewFileNotFound(path)
		}
		return nil, err
	}
	return os.NewFile(uintptr(fd), path), nil
}
