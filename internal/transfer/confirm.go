package transfer

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// ClearPrompt is the question asked before clearing all data.
const ClearPrompt = "Are you sure you want to clear all data?"

// Confirmer asks the user a yes/no question and blocks until answered.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

// Always answers every prompt with answer.
func Always(answer bool) Confirmer {
	return ConfirmFunc(func(context.Context, string) (bool, error) {
		return answer, nil
	})
}

// PromptConfirmer asks on Out and reads a line from In. Only "y" or "yes" confirm.
type PromptConfirmer struct {
	In  io.Reader
	Out io.Writer
}

func (p PromptConfirmer) Confirm(ctx context.Context, prompt string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if _, err := fmt.Fprintf(p.Out, "%s [y/N]: ", prompt); err != nil {
		return false, err
	}
	line, err := bufio.NewReader(p.In).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("failed to read confirmation: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
