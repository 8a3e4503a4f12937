package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/saravenpi/switchboard/internal/listview"
	"github.com/saravenpi/switchboard/internal/models"
)

var messageColumns = []column[models.MessageRecord]{
	{title: "Sender", width: 14, value: func(r models.MessageRecord) string { return r.SenderPhoneNumber }},
	{title: "Receiver", width: 14, value: func(r models.MessageRecord) string { return r.RecieverPhoneNumber }},
	{title: "Message", width: 36, value: func(r models.MessageRecord) string { return r.Message }},
	{title: "Time", width: 8, value: func(r models.MessageRecord) string { return r.Time }},
	{title: "Created At", width: 20, value: func(r models.MessageRecord) string { return formatCreatedAt(r.CreatedAt) }},
}

var messageSearchFields = []listview.FieldFunc[models.MessageRecord]{
	func(r models.MessageRecord) string { return r.SenderPhoneNumber },
	func(r models.MessageRecord) string { return r.Message },
	func(r models.MessageRecord) string { return r.Time },
	func(r models.MessageRecord) string { return r.RecieverPhoneNumber },
}

// formatCreatedAt renders RFC 3339 timestamps in local time and passes anything
// else through.
func formatCreatedAt(s string) string {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return s
	}
	return t.Local().Format("Jan 2 2006 15:04")
}

// FormDataModel lists every message submitted through the service.
type FormDataModel struct {
	app          *App
	list         pagedTable[models.MessageRecord]
	windowWidth  int
	windowHeight int
}

func NewFormDataModel(app *App) FormDataModel {
	loader := listview.NewLoader("form data", app.API.ListMessages, nil, app.Logger)
	return FormDataModel{
		app:          app,
		list:         newPagedTable("Form Data", "Search sender, receiver, message or time", loader, messageColumns, messageSearchFields...),
		windowWidth:  80,
		windowHeight: 30,
	}
}

func (m FormDataModel) Init() tea.Cmd {
	return m.list.init()
}

func (m FormDataModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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

	if key, ok := msg.(tea.KeyMsg); ok && (key.String() == "esc" || key.String() == "q") {
		m.list.unmount()
		menu := withSize(NewMenuModel(m.app), m.windowWidth, m.windowHeight)
		return menu, menu.Init()
	}
	return m, nil
}

func (m FormDataModel) View() string {
	help := "/: search • ←/→: page • ↑/↓: scroll • r: reload • esc: back"
	if m.list.searchActive() {
		help = "type to filter • enter/esc: done"
	}
	return "\n" + m.list.view() + "\n" + helpStyle.Render(help)
}
