package tui

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/meddoc/internal/query"
)

// Run starts the browser and blocks until the user quits or ctx is canceled.
func Run(ctx context.Context, source DocumentSource, cache *query.Cache, opts ...Option) error {
	if source == nil {
		return fmt.Errorf("document source is required")
	}
	if cache == nil {
		return fmt.Errorf("query cache is required")
	}

	// Restore the terminal even on a crash.
	cleanupTerminal := func() {
		_, _ = os.Stdout.Write([]byte("\033[?1049l\033[?25h\033[m"))
	}
	defer cleanupTerminal()

	m := NewModel(source, cache, opts...)
	program := tea.NewProgram(
		m,
		tea.WithContext(ctx),
		tea.WithAltScreen(),
	)

	final, err := program.Run()
	if fm, ok := final.(Model); ok {
		fm.close()
	} else {
		m.close()
	}
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
