package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/DaanHessen/citk2-editor/internal/editor"
	"github.com/DaanHessen/citk2-editor/internal/util"
)

// Run boots the TUI program and blocks until it exits. A non-empty path is opened first;
// a failure to open it is shown in the status line rather than aborting.
func Run(ctx context.Context, session *editor.Session, cfg util.Config, version, path string) error {
	var openErr error
	if path != "" {
		openErr = session.Open(path)
	}
	m := initialModel(ctx, session, cfg, version)
	if openErr != nil {
		m.setError(openErr)
	} else if path != "" {
		m.setOK("opened " + path)
	}
	program := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen())
	_, err := program.Run()
	return err
}
