package game

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// errExit is returned by prompt.ask when the human types "x".
var errExit = errors.New("exit requested")

// prompt reads one answer per line. "?" prints help and asks again, "x"
// exits, and end of input reads as io.EOF.
type prompt struct {
	scanner *bufio.Scanner
	out     io.Writer
	help    func()
}

func newPrompt(in io.Reader, out io.Writer, help func()) *prompt {
	return &prompt{scanner: bufio.NewScanner(in), out: out, help: help}
}

func (p *prompt) ask(ctx context.Context, question string) (string, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		fmt.Fprint(p.out, question)
		if !p.scanner.Scan() {
			fmt.Fprintln(p.out)
			if err := p.scanner.Err(); err != nil {
				return "", err
			}
			return "", io.EOF
		}
		line := strings.TrimSpace(p.scanner.Text())
		switch strings.ToLower(line) {
		case "?":
			p.help()
		case "x":
			return "", errExit
		case "":
		default:
			return line, nil
		}
	}
}

func parseInt(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	return n, err == nil
}
