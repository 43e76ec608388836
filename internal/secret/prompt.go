package secret

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// TerminalPrompter reads secrets without echo when in is a terminal, and
// line by line otherwise so secrets can be piped in.
type TerminalPrompter struct {
	in  *os.File
	out io.Writer

	lines *bufio.Reader
}

// NewTerminalPrompter prompts on stderr and reads from stdin.
func NewTerminalPrompter() *TerminalPrompter {
	return &TerminalPrompter{in: os.Stdin, out: os.Stderr}
}

// Prompt writes prompt, reads one secret, and terminates the prompt line.
func (p *TerminalPrompter) Prompt(prompt string) (string, error) {
	if _, err := fmt.Fprint(p.out, prompt); err != nil {
		return "", err
	}

	fd := int(p.in.Fd())
	if term.IsTerminal(fd) {
		secret, err := term.ReadPassword(fd)
		_, _ = fmt.Fprintln(p.out)
		if err != nil {
			return "", err
		}
		return string(secret), nil
	}

	return p.readLine()
}

func (p *TerminalPrompter) readLine() (string, error) {
	if p.lines == nil {
		p.lines = bufio.NewReader(p.in)
	}

	line, err := p.lines.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	_, _ = fmt.Fprintln(p.out)
	return strings.TrimRight(line, "\r\n"), nil
}
