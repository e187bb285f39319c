package filesystem

import (
	"bytes"
	"io/fs"
	"os"
	"strings"

	"github.com/Alaxouche/loadout/pkg/errors"
	"github.com/Alaxouche/loadout/pkg/types"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadLines reads a managed text file into lines. A missing file yields an
// empty slice, not an error. A UTF-8 BOM is stripped, and both \n and \r\n
// endings are accepted.
func ReadLines(fsys types.FS, path string) ([]string, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to read %s", path).
			WithDetail("path", path)
	}
	return SplitLines(data), nil
}

// SplitLines splits file content into lines without a phantom trailing
// empty line for the final newline.
func SplitLines(data []byte) []string {
	data = bytes.TrimPrefix(data, utf8BOM)
	if len(data) == 0 {
		return nil
	}
	text := strings.TrimSuffix(string(data), "\n")
	parts := strings.Split(text, "\n")
	lines := make([]string, len(parts))
	for i, p := range parts {
		lines[i] = strings.TrimSuffix(p, "\r")
	}
	return lines
}

// JoinLines composes the on-disk form of a managed file: every line
// stripped of trailing CR/LF, joined with \n, with a final newline.
func JoinLines(lines []string) []byte {
	var buf bytes.Buffer
	for _, ln := range lines {
		buf.WriteString(strings.TrimRight(ln, "\r\n"))
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// WriteAtomic writes data to path through a .tmp sibling followed by a
// rename, so readers never observe a half-written file. On failure the
// temp file is removed best-effort and the error is returned wrapped.
func WriteAtomic(fsys types.FS, path string, data []byte, perm fs.FileMode) error {
	tmp := path + ".tmp"
	if err := fsys.WriteFile(tmp, data, perm); err != nil {
		_ = fsys.Remove(tmp)
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to write %s", path).
			WithDetail("path", path)
	}
	if err := fsys.Rename(tmp, path); err != nil {
		_ = fsys.Remove(tmp)
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to replace %s", path).
			WithDetail("path", path)
	}
	return nil
}

// WriteLinesAtomic writes lines as a managed text file via WriteAtomic.
func WriteLinesAtomic(fsys types.FS, path string, lines []string) error {
	return WriteAtomic(fsys, path, JoinLines(lines), 0644)
}
