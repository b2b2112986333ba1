package parser

import (
	"fmt"
	"io"
	"os"

	"github.com/dgallion1/wikiplain/internal/cleanup"
)

// spoolTemp copies r into a temp file registered for shutdown cleanup. The
// caller must call the returned release func once done with the file.
func spoolTemp(r io.Reader, pattern string) (f *os.File, size int64, release func(), err error) {
	tmp, err := os.CreateTemp("", pattern)
	if err != nil {
		return nil, 0, nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	_ = cleanup.Register(tmpPath)
	release = func() {
		tmp.Close()
		_ = cleanup.Remove(tmpPath)
	}

	size, err = io.Copy(tmp, r)
	if err != nil {
		release()
		return nil, 0, nil, fmt.Errorf("write temp file: %w", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		release()
		return nil, 0, nil, fmt.Errorf("seek temp file: %w", err)
	}
	return tmp, size, release, nil
}
