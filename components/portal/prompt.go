package portal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// TerminalPrompter reads a single line from In. An empty line accepts the
// default; end of input cancels.
type TerminalPrompter struct {
	In  io.Reader
	Out io.Writer
}

func (p TerminalPrompter) Prompt(ctx context.Context, message, defaultValue string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	if p.In == nil {
		return "", false, nil
	}
	if p.Out != nil {
		if defaultValue != "" {
			fmt.Fprintf(p.Out, "%s [%s] ", message, defaultValue)
		} else {
			fmt.Fprintf(p.Out, "%s ", message)
		}
	}
	line, err := bufio.NewReader(p.In).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", false, err
	}
	if errors.Is(err, io.EOF) && line == "" {
		return "", false, nil
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return defaultValue, defaultValue != "", nil
	}
	return line, true, nil
}

// StaticPrompter answers every prompt with Value, or cancels when Cancel is set.
type StaticPrompter struct {
	Value  string
	Cancel bool
}

func (p StaticPrompter) Prompt(context.Context, string, string) (string, bool, error) {
	if p.Cancel {
		return "", false, nil
	}
	return p.Value, true, nil
}
