package shell

import (
	"bufio"
	"context"
	"io"
)

// lineReader reads lines on its own goroutine so that a blocked read does not
// prevent the shell from noticing a cancelled context.
type lineReader struct {
	lines chan string
	done  chan struct{}
	err   error // valid once lines is closed
}

func newLineReader(r io.Reader) *lineReader {
	lr := &lineReader{
		lines: make(chan string),
		done:  make(chan struct{}),
	}
	go func() {
		defer close(lr.lines)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			select {
			case lr.lines <- sc.Text():
			case <-lr.done:
				return
			}
		}
		lr.err = sc.Err()
	}()
	return lr
}

// next returns the next line, io.EOF at end of input, or the context error.
func (lr *lineReader) next(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-lr.lines:
		if !ok {
			if lr.err != nil {
				return "", lr.err
			}
			return "", io.EOF
		}
		return line, nil
	}
}

func (lr *lineReader) stop() {
	close(lr.done)
}
