package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/kallinyester/jato/internal/board"
	"github.com/kallinyester/jato/internal/logger"
)

// Run starts the dashboard and blocks until the user quits
func Run(ctx context.Context, ctrl *board.Controller, gate *ConfirmGate) error {
	log := logger.Named("tui")
	log.Info("Starting TUI")

	p := tea.NewProgram(NewModel(ctx, ctrl, gate), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		log.Error("TUI exited with error", logger.F("error", err.Error()))
		return fmt.Errorf("failed to run dashboard: %w", err)
	}

	log.Info("TUI exited")
	return nil
}
