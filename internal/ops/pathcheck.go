package ops

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pohangstory/storyteller/internal/config"
	"github.com/pohangstory/storyteller/internal/errors"
)

// PathCheckMode selects which side of a transfer a path is vetted for.
type PathCheckMode int

const (
	PathCheckRead  PathCheckMode = iota // import source
	PathCheckWrite                      // export destination
)

// ValidatePath vets an import/export path before any file is touched.
//
// A path passes when it has no ".." components, ends in .jsonl, sits
// directly inside one of the export roots, and is not itself a symlink.
// Subdirectories of a root are refused on purpose: with only the final
// component below a known-good directory, no intermediate component can
// be swapped for a symlink between this check and the open, which itself
// uses O_NOFOLLOW. AllowUnsafePaths waives the root requirement only;
// the extension and symlink rules always hold.
func ValidatePath(path string, mode PathCheckMode, cfg *config.Config) error {
	abs, err := absCandidate(path)
	if err != nil {
		return err
	}

	if cfg == nil || !cfg.AllowUnsafePaths {
		roots, err := resolvedExportRoots(cfg)
		if err != nil {
			return err
		}
		if err := checkInsideRoot(abs, roots); err != nil {
			return err
		}
	}

	if mode == PathCheckRead {
		if _, err := os.Stat(abs); os.IsNotExist(err) {
			return errors.NewFileNotFound(path)
		}
	}

	return refuseSymlink(abs)
}

// absCandidate screens out the structurally invalid forms and returns
// the absolute path.
func absCandidate(path string) (string, error) {
	if path == "" {
		return "", errors.NewInvalidRequest("path is required")
	}

	for _, seg := range strings.Split(filepath.ToSlash(path), "/") {
		if seg == ".." {
			return "", errors.NewInvalidRequest("path must not contain directory traversal (..)")
		}
	}

	cleaned := filepath.Clean(path)
	if filepath.Ext(cleaned) != ".jsonl" {
		return "", errors.NewInvalidRequest("path must have .jsonl extension")
	}

	abs, err := filepath.Abs(cleaned)
	if err != nil {
		return "", errors.NewInvalidRequest(fmt.Sprintf("invalid path: %v", err))
	}
	return abs, nil
}

// resolvedExportRoots expands the configured roots, following any root
// that is itself a symlink so containment is judged against the real
// directory.
func resolvedExportRoots(cfg *config.Config) ([]string, error) {
	defaultDir, err := DefaultExportsDir()
	if err != nil {
		return nil, err
	}

	candidates := cfg.ExportRoots(defaultDir)
	roots := make([]string, 0, len(candidates))
	for _, dir := range candidates {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return nil, errors.NewInvalidRequest(fmt.Sprintf("invalid allowed path: %v", err))
		}
		if info, err := os.Lstat(abs); err == nil && info.Mode()&os.ModeSymlink != 0 {
			real, err := filepath.EvalSymlinks(abs)
			if err != nil {
				return nil, errors.NewInvalidRequest(fmt.Sprintf("cannot resolve symlink in allowed path: %v", err))
			}
			abs = real
		}
		roots = append(roots, abs)
	}
	return roots, nil
}

// checkInsideRoot requires the file's parent directory to match one of
// the roots exactly, and the parent itself must not be a symlink.
func checkInsideRoot(abs string, roots []string) error {
	parent := filepath.Dir(abs)

	matched := false
	for _, root := range roots {
		if parent == root {
			matched = true
			break
		}
	}
	if !matched {
		return errors.NewInvalidRequest(fmt.Sprintf(
			"file must be directly in an allowed directory (no subdirectories); allowed: %v", roots))
	}

	if info, err := os.Lstat(parent); err == nil && info.Mode()&os.ModeSymlink != 0 {
		return errors.NewInvalidRequest("parent directory must not be a symlink")
	}
	return nil
}

// refuseSymlink rejects a path whose final component is a symlink.
// The no-follow open would refuse it too, but failing here gives the
// caller a clear message instead of an ELOOP.
func refuseSymlink(abs string) error {
	if info, err := os.Lstat(abs); err == nil && info.Mode()&os.ModeSymlink != 0 {
		return errors.NewInvalidRequest("path must not be a symlink")
	}
	return nil
}

// DefaultExportsDir is where exports land when no path is given:
// ~/.storyteller/exports.
func DefaultExportsDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.NewInternal(fmt.Errorf("failed to get home directory: %w", err))
	}
	return filepath.Join(home, ".storyteller", "exports"), nil
}

// SanitizeForFilename reduces an arbitrary string, usually a trip name,
// to something safe inside a generated filename. Separators and ".."
// become dashes, control characters are dropped, and dash runs are
// collapsed. A string with nothing left becomes "unnamed".
func SanitizeForFilename(s string) string {
	s = strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\':
			return '-'
		case r < 32 || r == 127:
			return -1
		}
		return r
	}, s)
	s = strings.ReplaceAll(s, "..", "-")

	fields := strings.FieldsFunc(s, func(r rune) bool { return r == '-' })
	if len(fields) == 0 {
		return "unnamed"
	}
	return strings.Join(fields, "-")
}
