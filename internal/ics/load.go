package ics

import (
	"errors"
	"fmt"
	"io"
	"os"

	appLog "icstime/internal/log"
)

// ErrRead marks a calendar source that could not be opened or read.
var ErrRead = errors.New("ics read failed")

// StdinPath is the file argument that reads the calendar from stdin.
const StdinPath = "-"

// File is the raw content of one calendar source.
type File struct {
	Path string
	Body []byte
}

// Loader reads calendar sources from the local filesystem.
type Loader struct {
	stdin io.Reader
}

// NewLoader creates a Loader. stdin backs the "-" path; if nil, os.Stdin
// is used.
func NewLoader(stdin io.Reader) *Loader {
	if stdin == nil {
		stdin = os.Stdin
	}
	return &Loader{stdin: stdin}
}

// LoadAll reads every path in order. The first failure aborts the whole
// load; no partial result is returned.
func (l *Loader) LoadAll(paths []string) ([]File, error) {
	files := make([]File, 0, len(paths))

	for _, p := range paths {
		f, err := l.LoadOne(p)
		if err != nil {
			appLog.Error("ics load failed", err, "path", p)
			return nil, err
		}
		files = append(files, f)
	}

	return files, nil
}

// LoadOne reads a single calendar source.
func (l *Loader) LoadOne(path string) (File, error) {
	if path == "" {
		return File{}, fmt.Errorf("%w: empty path", ErrRead)
	}

	var (
		body []byte
		err  error
	)
	if path == StdinPath {
		body, err = io.ReadAll(l.stdin)
	} else {
		body, err = os.ReadFile(path)
	}
	if err != nil {
		return File{}, fmt.Errorf("%w: %s: %v", ErrRead, path, err)
	}

	appLog.Debug("ics load success", "path", path, "bytes", len(body))
	return File{Path: path, Body: body}, nil
}
