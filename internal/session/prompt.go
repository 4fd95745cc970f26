package session

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// StdinPrompter is the plain-terminal Prompter: numbered lists on out,
// answers read line by line from in. Empty input takes the default;
// anything unparseable re-asks.
type StdinPrompter struct {
	scanner *bufio.Scanner
	out     io.Writer
}

// NewStdinPrompter returns a prompter reading from in and writing to out.
func NewStdinPrompter(in io.Reader, out io.Writer) *StdinPrompter {
	return &StdinPrompter{scanner: bufio.NewScanner(in), out: out}
}

func (p *StdinPrompter) Select(title string, options []string, def int) (int, error) {
	fmt.Fprintf(p.out, "\n%s\n", title)
	for i, opt := range options {
		fmt.Fprintf(p.out, "  %d) %s\n", i+1, opt)
	}
	for {
		fmt.Fprintf(p.out, "Choice [%d]: ", def+1)
		line, err := p.readLine()
		if err != nil {
			return 0, err
		}
		if line == "" {
			return def, nil
		}
		n, err := strconv.Atoi(line)
		if err != nil || n < 1 || n > len(options) {
			fmt.Fprintf(p.out, "Enter a number between 1 and %d.\n", len(options))
			continue
		}
		return n - 1, nil
	}
}

func (p *StdinPrompter) Confirm(prompt string, def bool) (bool, error) {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}
	for {
		fmt.Fprintf(p.out, "%s [%s]: ", prompt, hint)
		line, err := p.readLine()
		if err != nil {
			return false, err
		}
		switch strings.ToLower(line) {
		case "":
			return def, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		fmt.Fprintln(p.out, "Please answer y or n.")
	}
}

func (p *StdinPrompter) readLine() (string, error) {
	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(p.scanner.Text()), nil
}
