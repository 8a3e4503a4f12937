package ui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/saravenpi/switchboard/internal/history"
	"github.com/saravenpi/switchboard/internal/listview"
)

const historyLimit = 500

var historyColumns = []column[history.Entry]{
	{title: "When", width: 17, value: func(e history.Entry) string { return e.At.Local().Format("Jan 2 15:04:05") }},
	{title: "Action", width: 20, value: func(e history.Entry) string { return e.Action }},
	{title: "Phone No.", width: 14, value: func(e history.Entry) string { return e.MobileNumber }},
	{title: "Detail", width: 18, value: func(e history.Entry) string { return e.Detail }},
	{title: "Result", width: 30, value: historyResult},
}

var historySearchFields = []listview.FieldFunc[history.Entry]{
	func(e history.Entry) string { return e.Action },
	func(e history.Entry) string { return e.MobileNumber },
	func(e history.Entry) string { return e.Detail },
	func(e history.Entry) string { return e.Message },
}

func historyResult(e history.Entry) string {
	if e.OK {
		return "ok"
	}
	return strings.TrimSpace("failed " + e.Message)
}

// HistoryModel shows the local audit log, newest first.
type HistoryModel struct {
	app          *App
	list         pagedTable[history.Entry]
	disabled     bool
	windowWidth  int
	windowHeight int
}

func NewHistoryModel(app *App) HistoryModel {
	store := app.History
	fetch := func(ctx context.Context) ([]history.Entry, error) {
		if store == nil {
			return nil, nil
		}
		return store.Recent(ctx, historyLimit)
	}
	loader := listview.NewLoader("history", fetch, nil, app.Logger)
	return HistoryModel{
		app:          app,
		list:         newPagedTable("History", "Search action, phone or result", loader, historyColumns, historySearchFields...),
		disabled:     store == nil,
		windowWidth:  80,
		windowHeight: 30,
	}
}

func (m HistoryModel) Init() tea.Cmd {
	if m.disabled {
		return nil
	}
	return m.list.init()
}

func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.windowWidth = size.Width
		m.windowHeight = size.Height
		m.list.setSize(size.Width, size.Height)
		return m, nil
	}

	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if !m.disabled {
		if handled, cmd := m.list.update(msg); handled {
			return m, cmd
		}
	}

	if key, ok := msg.(tea.KeyMsg); ok && (key.String() == "esc" || key.String() == "q") {
		m.list.unmount()
		menu := withSize(NewMenuModel(m.app), m.windowWidth, m.windowHeight)
		return menu, menu.Init()
	}
	return m, nil
}

func (m HistoryModel) View() string {
	if m.disabled {
		s := "\n" + titleStyle.Render("History") + "\n"
		s += normalStyle.Render("History is disabled: no history database is configured.") + "\n\n"
		s += helpStyle.Render("esc: back")
		return s
	}
	help := "/: search • ←/→: page • ↑/↓: scroll • r: reload • esc: back"
	if m.list.searchActive() {
		help = "type to filter • enter/esc: done"
	}
	return "\n" + m.list.view() + "\n" + helpStyle.Render(help)
}
