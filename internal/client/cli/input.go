package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// GetSimpleText prints a prompt to w and reads a single line of input from reader.
// The trailing newline is trimmed. If EOF occurs after some input was read,
// the partial line is returned.
//
// Example prompt format:
//
//	Prompt text
//	> _
func GetSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// GetPassword prints prompt to w and reads a password from the terminal
// without echo. The caller should wipe the result when done.
func GetPassword(prompt string, w io.Writer) ([]byte, error) {
	if _, err := fmt.Fprint(w, prompt+": "); err != nil {
		return nil, err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}
	return pw, nil
}

// GetChoice prints numbered options and reads one pick. An empty answer
// returns -1 so the caller can keep its current value.
func GetChoice(reader *bufio.Reader, prompt string, options []string, w io.Writer) (int, error) {
	for i, o := range options {
		fmt.Fprintf(w, "  %d) %s\n", i+1, o)
	}
	for {
		s, err := GetSimpleText(reader, prompt, w)
		if err != nil {
			return -1, err
		}
		if s == "" {
			return -1, nil
		}
		n, err := strconv.Atoi(s)
		if err == nil && n >= 1 && n <= len(options) {
			return n - 1, nil
		}
		fmt.Fprintf(w, "Pick a number between 1 and %d\n", len(options))
	}
}

// GetToggles prints numbered options, marking the selected ones, and reads
// a comma or space separated list of numbers to toggle. Out of range
// numbers are ignored.
func GetToggles(reader *bufio.Reader, prompt string, options []string, selected func(string) bool, w io.Writer) ([]int, error) {
	for i, o := range options {
		mark := " "
		if selected(o) {
			mark = "x"
		}
		fmt.Fprintf(w, "  [%s] %d) %s\n", mark, i+1, o)
	}
	s, err := GetSimpleText(reader, prompt, w)
	if err != nil {
		return nil, err
	}
	var picks []int
	for _, f := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' }) {
		n, err := strconv.Atoi(f)
		if err != nil || n < 1 || n > len(options) {
			continue
		}
		picks = append(picks, n-1)
	}
	return picks, nil
}
