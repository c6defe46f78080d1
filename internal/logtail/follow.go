package logtail

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
)

const (
	maxLineBytes = 1024 * 1024
	// maxPollBytes bounds one Poll so a large backlog is drained over
	// several ticks instead of stalling the caller.
	maxPollBytes = 4 * 1024 * 1024
)

// Follower returns lines appended to a file since the previous Poll. It keeps
// only a byte offset and the unterminated tail of the last read, so the file
// may be rotated or truncated between polls.
type Follower struct {
	path    string
	dec     *Decoder
	offset  int64
	partial []byte
}

// NewFollower starts following path from its current end. A missing file
// is followed from its first byte once it appears.
func NewFollower(path string, dec *Decoder) (*Follower, error) {
	f := &Follower{path: path, dec: dec}
	info, err := os.Stat(path)
	switch {
	case err == nil:
		f.offset = info.Size()
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("stat log: %w", err)
	}
	return f, nil
}

// Path returns the followed file.
func (f *Follower) Path() string {
	return f.path
}

// Offset returns the byte offset the next Poll reads from.
func (f *Follower) Offset() int64 {
	return f.offset
}

// Poll returns complete lines written since the last call, with trailing
// CR and LF removed. A missing file yields no lines and no error. When the
// file shrinks it is read again from the start.
func (f *Follower) Poll() ([]string, error) {
	file, err := os.Open(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			f.offset = 0
			f.partial = f.partial[:0]
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat log: %w", err)
	}
	size := info.Size()
	if size < f.offset {
		f.offset = 0
		f.partial = f.partial[:0]
	}
	if size == f.offset {
		return nil, nil
	}

	n := size - f.offset
	if n > maxPollBytes {
		n = maxPollBytes
	}
	buf := make([]byte, n)
	read, err := file.ReadAt(buf, f.offset)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read log: %w", err)
	}
	buf = buf[:read]
	f.offset += int64(read)

	data := append(f.partial, buf...)
	var lines []string
	for {
		i := bytes.IndexByte(data, '\n')
		if i < 0 {
			break
		}
		lines = append(lines, f.dec.Line(data[:i]))
		data = data[i+1:]
	}
	if len(data) > maxLineBytes {
		lines = append(lines, f.dec.Line(data))
		data = data[:0]
	}
	f.partial = append(f.partial[:0:0], data...)
	return lines, nil
}
