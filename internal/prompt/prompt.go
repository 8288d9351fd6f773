// Package prompt asks the user questions on a line-oriented terminal.
// Each call blocks until a full line is read, so prompts always run in order.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Prompter is the set of questions the scaffold pipeline asks.
type Prompter interface {
	// Input asks for free text. An empty answer yields initial.
	Input(message, initial string) (string, error)
	// Select asks for one of choices by number or by name. An empty answer yields choices[0].
	Select(message string, choices []string) (string, error)
	// Confirm asks a yes/no question. An empty answer yields initial.
	Confirm(message string, initial bool) (bool, error)
}

// Terminal implements Prompter over a reader and a writer.
type Terminal struct {
	reader *bufio.Reader
	w      io.Writer
}

// NewTerminal returns a Terminal reading answers from r and writing questions to w.
func NewTerminal(r io.Reader, w io.Writer) *Terminal {
	return &Terminal{reader: bufio.NewReader(r), w: w}
}

// Input implements Prompter.
func (t *Terminal) Input(message, initial string) (string, error) {
	if initial != "" {
		fmt.Fprintf(t.w, "? %s (%s): ", message, initial)
	} else {
		fmt.Fprintf(t.w, "? %s: ", message)
	}
	line, err := t.readLine()
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", strings.ToLower(message), err)
	}
	if line == "" {
		return initial, nil
	}
	return line, nil
}

// Select implements Prompter.
func (t *Terminal) Select(message string, choices []string) (string, error) {
	if len(choices) == 0 {
		return "", fmt.Errorf("%s: no choices", message)
	}
	fmt.Fprintf(t.w, "? %s\n", message)
	for i, c := range choices {
		fmt.Fprintf(t.w, "  %d) %s\n", i+1, c)
	}
	fmt.Fprintf(t.w, "Enter number [1-%d] (1): ", len(choices))

	line, err := t.readLine()
	if err != nil {
		return "", fmt.Errorf("reading selection: %w", err)
	}
	if line == "" {
		return choices[0], nil
	}
	for _, c := range choices {
		if strings.EqualFold(line, c) {
			return c, nil
		}
	}
	num, err := strconv.Atoi(line)
	if err != nil || num < 1 || num > len(choices) {
		return "", fmt.Errorf("invalid selection %q: choose 1-%d", line, len(choices))
	}
	return choices[num-1], nil
}

// Confirm implements Prompter.
func (t *Terminal) Confirm(message string, initial bool) (bool, error) {
	hint := "y/N"
	if initial {
		hint = "Y/n"
	}
	fmt.Fprintf(t.w, "? %s (%s) ", message, hint)

	line, err := t.readLine()
	if err != nil {
		return false, fmt.Errorf("reading confirmation: %w", err)
	}
	switch strings.ToLower(line) {
	case "":
		return initial, nil
	case "y", "yes":
		return true, nil
	case "n", "no":
		return false, nil
	default:
		return false, fmt.Errorf("invalid answer %q: expected y or n", line)
	}
}

// readLine returns the next trimmed line. A final line without a newline
// still counts; io.EOF is only returned when nothing was read.
func (t *Terminal) readLine() (string, error) {
	line, err := t.reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}
