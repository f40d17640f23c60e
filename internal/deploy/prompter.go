package deploy

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Prompter gates the interactive confirmation points of the deployment flow.
type Prompter interface {
	// Confirm asks a yes/no question; only "y"/"yes" count as yes.
	Confirm(prompt string) bool
	// Ask reads a line of input, returning def when the answer is empty.
	Ask(prompt, def string) string
}

// TerminalPrompter reads answers from an input stream, normally stdin.
type TerminalPrompter struct {
	in *bufio.Reader
}

func NewTerminalPrompter(r io.Reader) *TerminalPrompter {
	return &TerminalPrompter{in: bufio.NewReader(r)}
}

func (p *TerminalPrompter) Confirm(prompt string) bool {
	fmt.Printf("%s (y/n): ", prompt)
	line, err := p.in.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func (p *TerminalPrompter) Ask(prompt, def string) string {
	fmt.Printf("%s: ", prompt)
	line, err := p.in.ReadString('\n')
	if err != nil {
		return def
	}
	if answer := strings.TrimSpace(line); answer != "" {
		return answer
	}
	return def
}
