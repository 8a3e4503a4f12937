package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/saravenpi/switchboard/internal/dispatch"
	"github.com/saravenpi/switchboard/internal/listview"
	"github.com/saravenpi/switchboard/internal/models"
)

var userColumns = []column[models.UserRecord]{
	{title: "Name", width: 28, value: func(u models.UserRecord) string { return u.Name }},
	{title: "Phone No.", width: 16, value: func(u models.UserRecord) string { return u.MobileNumber }},
	{title: "Forwarding", width: 12, value: forwardingColumn},
	{title: "Forward To", width: 16, value: func(u models.UserRecord) string { return u.ForwardPhoneNumber }},
}

var userSearchFields = []listview.FieldFunc[models.UserRecord]{
	func(u models.UserRecord) string { return u.Name },
	func(u models.UserRecord) string { return u.MobileNumber },
}

func forwardingColumn(u models.UserRecord) string {
	if raw := models.ForwardStatusText(u.Fields.Raw("isForwarded")); raw != "" {
		return raw
	}
	return u.IsForwarded.Label()
}

// UsersModel lists every user; enter opens the actions panel for the
// highlighted row.
type UsersModel struct {
	app          *App
	list         pagedTable[models.UserRecord]
	windowWidth  int
	windowHeight int
}

func NewUsersModel(app *App) UsersModel {
	loader := listview.NewLoader("users", app.API.ListUsers, nil, app.Logger)
	return UsersModel{
		app:          app,
		list:         newPagedTable("Users", "Search by name or phone", loader, userColumns, userSearchFields...),
		windowWidth:  80,
		windowHeight: 30,
	}
}

func (m UsersModel) Init() tea.Cmd {
	return m.list.init()
}

func (m UsersModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.windowWidth = size.Width
		m.windowHeight = size.Height
		m.list.setSize(size.Width, size.Height)
		return m, nil
	}

	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if handled, cmd := m.list.update(msg); handled {
		return m, cmd
	}

	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc", "q":
			m.list.unmount()
			menu := withSize(NewMenuModel(m.app), m.windowWidth, m.windowHeight)
			return menu, menu.Init()

		case "enter":
			user, ok := m.list.selected()
			if !ok {
				return m, nil
			}
			m.list.unmount()
			actions := withSize(NewActionsModel(m.app, dispatch.Payload{User: &user}), m.windowWidth, m.windowHeight)
			return actions, actions.Init()
		}
	}
	return m, nil
}

func (m UsersModel) View() string {
	help := "/: search • ←/→: page • ↑/↓: select • enter: actions • r: reload • esc: back"
	if m.list.searchActive() {
		help = "type to filter • enter/esc: done"
	}
	return "\n" + m.list.view() + "\n" + helpStyle.Render(help)
}
