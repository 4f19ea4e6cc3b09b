package util

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cuemby/gradenet/pkg/wire"
)

// ReadLines reads path and returns every line in order, stripping only the
// trailing newline (bufio.Scanner's ScanLines already drops a trailing
// "\r\n" or "\n"). Blank lines and surrounding whitespace are preserved, so
// a command file's line count and per-line content match the file exactly
// — command indices in the returned commands list line up with the source
// file's line numbers.
func ReadLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", wire.ErrIO, path, err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", wire.ErrIO, path, err)
	}
	return lines, nil
}

// StripExt returns name's base without its file extension, e.g.
// StripExt("submissions/jdoe.zip") == "jdoe".
func StripExt(name string) string {
	base := filepath.Base(name)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
