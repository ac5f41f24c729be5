package cmd

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/natefinch/atomic"
)

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// stdin is the reader used for [stdinSource].
//
//nolint:gochecknoglobals
var stdin io.Reader = os.Stdin

// stdout is the writer used when no output file is given.
//
//nolint:gochecknoglobals
var stdout io.Writer = os.Stdout

// openInput opens path for reading, or stdin for [stdinSource].
func openInput(path string) (io.ReadCloser, error) {
	if path == stdinSource {
		return io.NopCloser(stdin), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, ErrReadInput.Wrap(err)
	}

	return f, nil
}

// readInput reads all of path, or stdin for [stdinSource].
func readInput(path string) ([]byte, error) {
	rc, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, ErrReadInput.Wrap(err)
	}

	return data, nil
}

// writeOutput writes data to path atomically, or to stdout if path is empty.
func writeOutput(path string, data io.Reader) error {
	if path == "" {
		if _, err := io.Copy(stdout, data); err != nil {
			return ErrWriteOutput.Wrap(err)
		}

		return nil
	}

	if err := atomic.WriteFile(path, data); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// uniquePaths returns paths with duplicate references to the same file
// removed, keeping the first occurrence. Paths that cannot be resolved are
// kept so that opening them reports the error. [stdinSource] is kept once.
func uniquePaths(paths []string) []string {
	seen := make(map[fileKey]struct{}, len(paths))
	out := make([]string, 0, len(paths))
	sawStdin := false

	for _, path := range paths {
		if path == stdinSource {
			if !sawStdin {
				out = append(out, path)
			}

			sawStdin = true

			continue
		}

		key, ok := resolveFileKey(path)
		if ok {
			if _, dup := seen[key]; dup {
				continue
			}

			seen[key] = struct{}{}
		}

		out = append(out, path)
	}

	return out
}

// resolveFileKey resolves symlinks in path and returns its device/inode pair.
func resolveFileKey(path string) (fileKey, bool) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fileKey{}, false
	}

	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return fileKey{}, false
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return fileKey{}, false
	}

	return makeFileKey(info)
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true //nolint:unconvert
}
