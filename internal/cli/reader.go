package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
)

// ErrInputCancelled is returned when input is canceled by context.
var ErrInputCancelled = errors.New("input canceled")

// Reader provides context-aware line reading that can be interrupted.
type Reader struct {
	reader      *bufio.Reader
	readingLock sync.Mutex
}

// NewReader wraps the given input stream.
func NewReader(r io.Reader) *Reader {
	if r == nil {
		panic("reader cannot be nil")
	}
	return &Reader{reader: bufio.NewReader(r)}
}

// ReadLine reads one line, trimmed, respecting context cancellation.
// A canceled context returns immediately even though the underlying read
// goroutine may still be blocked.
func (r *Reader) ReadLine(ctx context.Context) (string, error) {
	type result struct {
		err   error
		value string
	}
	resultCh := make(chan result, 1)

	go func() {
		r.readingLock.Lock()
		defer r.readingLock.Unlock()

		value, err := r.reader.ReadString('\n')
		resultCh <- result{value: value, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ErrInputCancelled
	case res := <-resultCh:
		if res.err != nil && res.err != io.EOF {
			return "", res.err
		}
		return strings.TrimSpace(res.value), nil
	}
}
