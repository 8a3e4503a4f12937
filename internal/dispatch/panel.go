// Package dispatch owns the actions panel of a selected user: which workflow is
// open, and whether the panel has a full user record to act on.
package dispatch

import (
	"context"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/saravenpi/switchboard/internal/listview"
	"github.com/saravenpi/switchboard/internal/models"
)

// Payload is what a list view hands over when navigating to the panel. A deep
// link may carry only the identifier.
type Payload struct {
	User   *models.UserRecord
	UserID string
}

// UserFetcher fetches one user by identifier.
type UserFetcher func(ctx context.Context, id string) (models.UserRecord, error)

// Panel holds the user and the open workflow of one actions panel.
type Panel struct {
	user   *models.UserRecord
	userID string
	active models.Workflow
	loader *listview.Loader[models.UserRecord]
}

// NewPanel builds a panel for payload. When only an identifier is known, Init
// fetches the record before any workflow is enabled.
func NewPanel(p Payload, fetch UserFetcher, logger *slog.Logger) *Panel {
	panel := &Panel{user: p.User, userID: p.UserID}
	if p.User != nil && panel.userID == "" {
		panel.userID = p.User.ID
	}
	if panel.user == nil && panel.userID != "" && fetch != nil {
		id := panel.userID
		panel.loader = listview.NewLoader("user "+id, func(ctx context.Context) ([]models.UserRecord, error) {
			u, err := fetch(ctx, id)
			if err != nil {
				return nil, err
			}
			return []models.UserRecord{u}, nil
		}, nil, logger)
	}
	return panel
}

// Init starts the fetch-by-id when needed.
func (p *Panel) Init() tea.Cmd {
	if p.loader == nil {
		return nil
	}
	return p.loader.Mount()
}

// Unmount marks the panel as gone so a late fetch result is dropped.
func (p *Panel) Unmount() {
	if p.loader != nil {
		p.loader.Unmount()
	}
}

// Accept applies a fetch-by-id result. It returns false when msg is not for this
// panel.
func (p *Panel) Accept(msg listview.LoadedMsg[models.UserRecord]) bool {
	if p.loader == nil || !p.loader.Accept(msg) {
		return false
	}
	if len(msg.Items) > 0 {
		u := msg.Items[0]
		p.user = &u
	}
	return true
}

func (p *Panel) Loading() bool {
	return p.loader != nil && p.loader.Loading()
}

// NoData reports that there is nothing to act on: no selection, or the fetch
// came back empty or failed.
func (p *Panel) NoData() bool {
	return p.user == nil && !p.Loading()
}

func (p *Panel) FetchErr() error {
	if p.loader == nil {
		return nil
	}
	return p.loader.Err()
}

// Enabled reports whether workflows can be opened.
func (p *Panel) Enabled() bool {
	return p.user != nil
}

func (p *Panel) User() *models.UserRecord { return p.user }

// Open makes w the one visible workflow. It is refused when no user is loaded.
func (p *Panel) Open(w models.Workflow) bool {
	if !p.Enabled() || w == models.WorkflowNone {
		return false
	}
	p.active = w
	return true
}

func (p *Panel) Close() {
	p.active = models.WorkflowNone
}

func (p *Panel) Active() models.Workflow { return p.active }

// Workflows lists the actions in panel order.
func Workflows() []models.Workflow {
	return []models.Workflow{
		models.WorkflowProfile,
		models.WorkflowMessages,
		models.WorkflowForwarding,
		models.WorkflowSendMessage,
	}
}
