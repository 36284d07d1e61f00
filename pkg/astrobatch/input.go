package astrobatch

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var ErrMalformedBatch = errors.New("malformed batch input")

const maxLineSize = 1 << 20

// lineReader hands out non-blank lines and remembers the line number for
// error messages. Blank separator lines between cases are skipped.
type lineReader struct {
	sc   *bufio.Scanner
	line int
}

func newLineReader(r io.Reader) *lineReader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), maxLineSize)
	return &lineReader{sc: sc}
}

// next returns io.ErrUnexpectedEOF when input ends before a line is found.
func (lr *lineReader) next() (string, error) {
	for lr.sc.Scan() {
		lr.line++
		if text := lr.sc.Text(); strings.TrimSpace(text) != "" {
			return text, nil
		}
	}
	if err := lr.sc.Err(); err != nil {
		return "", err
	}
	return "", io.ErrUnexpectedEOF
}

// count reads a line holding a single non-negative integer.
func (lr *lineReader) count(what string) (int, error) {
	text, err := lr.next()
	if err != nil {
		return 0, fmt.Errorf("%w: reading %s: %w", ErrMalformedBatch, what, err)
	}
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, fmt.Errorf("%w: line %d: %s %q is not a number", ErrMalformedBatch, lr.line, what, strings.TrimSpace(text))
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: line %d: negative %s %d", ErrMalformedBatch, lr.line, what, n)
	}
	return n, nil
}
