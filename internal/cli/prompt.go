package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const (
	QueryPrompt   = "YouTube Search: "
	CountPrompt   = "How many videos do you want to analyze? "
	IncludePrompt = "Do you want to include videos without transcripts? (yes/no): "
)

// Prompter reads answers line by line from an interactive terminal.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

func (p *Prompter) ask(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("read answer: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// Query returns the search query as typed, without surrounding whitespace.
func (p *Prompter) Query() (string, error) {
	return p.ask(QueryPrompt)
}

// Count asks until it gets a non-negative integer.
func (p *Prompter) Count() (int, error) {
	for {
		answer, err := p.ask(CountPrompt)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(answer)
		if err == nil && n >= 0 {
			return n, nil
		}
		fmt.Fprintln(p.out, "Please enter a non-negative whole number.")
	}
}

// IncludeWithoutTranscript is true only for "yes", ignoring case and whitespace.
func (p *Prompter) IncludeWithoutTranscript() (bool, error) {
	answer, err := p.ask(IncludePrompt)
	if err != nil {
		return false, err
	}
	return strings.ToLower(answer) == "yes", nil
}
