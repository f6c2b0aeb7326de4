package consoles

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Plain reads lines from any reader. It serves piped input and tests.
type Plain struct {
	in  *bufio.Reader
	out io.Writer
}

var _ Console = new(Plain)

func NewPlain(in io.Reader, out io.Writer) *Plain {
	return &Plain{
		in:  bufio.NewReader(in),
		out: out,
	}
}

func (p *Plain) Write(b []byte) (int, error) {
	return p.out.Write(b)
}

func (p *Plain) Prompt(prompt string) (string, error) {
	if _, err := fmt.Fprint(p.out, prompt); err != nil {
		return "", err
	}
	line, err := p.in.ReadString('\n')
	if err != nil {
		// last line without newline
		if err == io.EOF && line != "" {
			return strings.TrimRight(line, "\r"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (p *Plain) Close() error {
	return nil
}
