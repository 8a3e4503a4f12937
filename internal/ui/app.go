package ui

import (
	"context"
	"io"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/saravenpi/switchboard/internal/adminapi"
	"github.com/saravenpi/switchboard/internal/history"
	"github.com/saravenpi/switchboard/internal/models"
)

// AdminAPI is the backend surface the screens use.
type AdminAPI interface {
	ListUsers(ctx context.Context) ([]models.UserRecord, error)
	ListMessages(ctx context.Context) ([]models.MessageRecord, error)
	GetUser(ctx context.Context, id string) (models.UserRecord, error)
	SaveForwardNumber(ctx context.Context, mobileNumber, forwardPhoneNumber string) error
	SetForwardStatus(ctx context.Context, mobileNumber string, status models.ForwardStatus) (adminapi.StatusResult, error)
	RelayMessage(ctx context.Context, phoneNo, to, message string) error
}

// HistoryStore is the audit log as seen by the screens.
type HistoryStore interface {
	history.Recorder
	Recent(ctx context.Context, limit int) ([]history.Entry, error)
}

// App carries the collaborators every screen needs. It is shared by pointer and
// never mutated after start-up.
type App struct {
	API     AdminAPI
	History HistoryStore // nil disables the audit log
	Logger  *slog.Logger
}

func NewApp(api AdminAPI, hist HistoryStore, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &App{API: api, History: hist, Logger: logger}
}

// record writes an audit entry. Failures are logged and otherwise ignored.
func (a *App) record(ctx context.Context, e history.Entry) {
	if a.History == nil {
		return
	}
	if err := a.History.Record(ctx, e); err != nil {
		a.Logger.Warn("failed to record history", "action", e.Action, "err", err)
	}
}

// withSize replays the last known window size into a freshly built screen.
func withSize(m tea.Model, width, height int) tea.Model {
	if width <= 0 {
		return m
	}
	updated, _ := m.Update(tea.WindowSizeMsg{Width: width, Height: height})
	return updated
}

func errText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
