package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Veraticus/meddoc/internal/model"
	"github.com/Veraticus/meddoc/internal/tui/viewmodel"
)

// AskFunc answers a question given the conversation so far.
type AskFunc func(ctx context.Context, question string, history []model.ChatTurn) (model.ChatResponse, error)

// ChatPrompter runs an interactive question-and-answer session about one document.
type ChatPrompter struct {
	writer  io.Writer
	reader  *NonBlockingReader
	history []model.ChatTurn
	asked   int
	failed  int
}

// NewChatPrompter creates a chat prompter with the given reader and writer.
func NewChatPrompter(reader io.Reader, writer io.Writer) *ChatPrompter {
	if reader == nil {
		reader = os.Stdin
	}
	if writer == nil {
		writer = os.Stdout
	}

	return &ChatPrompter{
		reader: NewNonBlockingReader(reader),
		writer: writer,
	}
}

// Run prompts until the user types exit, input ends or ctx is canceled.
// A failed question is reported and the session continues; it is not added to history.
func (p *ChatPrompter) Run(ctx context.Context, ask AskFunc) error {
	if _, err := fmt.Fprintln(p.writer, SubtleStyle.Render("Ask about this document. Type 'exit' to finish.")); err != nil {
		return fmt.Errorf("failed to write chat banner: %w", err)
	}

	for {
		if _, err := fmt.Fprint(p.writer, FormatPrompt("Question")); err != nil {
			return fmt.Errorf("failed to write prompt: %w", err)
		}

		question, err := p.reader.ReadLine(ctx)
		switch {
		case errors.Is(err, io.EOF), errors.Is(err, ErrInputCancelled):
			p.showSummary()
			return nil
		case err != nil:
			return fmt.Errorf("failed to read question: %w", err)
		}

		switch strings.ToLower(question) {
		case "":
			continue
		case "exit", "quit", "q":
			p.showSummary()
			return nil
		}

		resp, err := ask(ctx, question, p.history)
		if err != nil {
			p.failed++
			if _, werr := fmt.Fprint(p.writer, RenderError(viewmodel.NewErrorView(err), "ask the question again")); werr != nil {
				return fmt.Errorf("failed to write error: %w", werr)
			}
			if ctx.Err() != nil {
				return nil
			}
			continue
		}

		p.asked++
		p.history = append(p.history, model.ChatTurn{Question: question, Answer: resp.Answer})
		if _, err := fmt.Fprintln(p.writer, RenderChatAnswer(resp)); err != nil {
			return fmt.Errorf("failed to write answer: %w", err)
		}
	}
}

// History returns the answered turns in order.
func (p *ChatPrompter) History() []model.ChatTurn {
	return append([]model.ChatTurn(nil), p.history...)
}

func (p *ChatPrompter) showSummary() {
	msg := fmt.Sprintf("\n%d questions answered", p.asked)
	if p.failed > 0 {
		msg += fmt.Sprintf(", %d failed", p.failed)
	}
	_, _ = fmt.Fprintln(p.writer, SubtleStyle.Render(msg))
}
