package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Stdin reads user answers line by line from an input stream. An empty
// answer accepts the suggested default.
type Stdin struct {
	reader *bufio.Reader
	writer io.Writer
}

// New creates a prompter reading from r and writing prompts to w.
func New(r io.Reader, w io.Writer) *Stdin {
	return &Stdin{reader: bufio.NewReader(r), writer: w}
}

// Ask prints "Label [default]: " and returns the trimmed answer, or the
// default when the answer is empty or input is exhausted.
func (s *Stdin) Ask(label, defaultValue string) string {
	if defaultValue != "" {
		fmt.Fprintf(s.writer, "%s [%s]: ", label, defaultValue)
	} else {
		fmt.Fprintf(s.writer, "%s: ", label)
	}

	line, err := s.reader.ReadString('\n')
	if err != nil && line == "" {
		return defaultValue
	}

	answer := strings.TrimSpace(line)
	if answer == "" {
		return defaultValue
	}
	return answer
}
