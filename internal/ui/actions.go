package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/saravenpi/switchboard/internal/dispatch"
	"github.com/saravenpi/switchboard/internal/listview"
	"github.com/saravenpi/switchboard/internal/models"
)

// ActionsModel is the panel for one user: a menu of workflows, at most one of
// which is open at a time.
type ActionsModel struct {
	app     *App
	panel   *dispatch.Panel
	cursor  int
	spinner spinner.Model
	session int

	profile    profileView
	messages   userMessagesView
	forwarding forwardingForm
	relay      relayForm

	windowWidth  int
	windowHeight int
}

func NewActionsModel(app *App, p dispatch.Payload) ActionsModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = statusStyle

	return ActionsModel{
		app:          app,
		panel:        dispatch.NewPanel(p, app.API.GetUser, app.Logger),
		spinner:      s,
		windowWidth:  80,
		windowHeight: 30,
	}
}

func (m ActionsModel) Init() tea.Cmd {
	cmd := m.panel.Init()
	if cmd == nil {
		return nil
	}
	return tea.Batch(m.spinner.Tick, cmd)
}

func (m ActionsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.windowWidth = msg.Width
		m.windowHeight = msg.Height
		switch m.panel.Active() {
		case models.WorkflowProfile:
			m.profile.setSize(msg.Width, msg.Height)
		case models.WorkflowMessages:
			m.messages.list.setSize(msg.Width, msg.Height)
		case models.WorkflowSendMessage:
			m.relay.setWidth(msg.Width)
		}
		return m, nil

	case listview.LoadedMsg[models.UserRecord]:
		if m.panel.Accept(msg) && m.panel.Active() == models.WorkflowMessages {
			return m, m.messages.retarget(m.panel.User().MobileNumber)
		}
		return m, nil

	case spinner.TickMsg:
		if !m.panel.Loading() {
			return m, m.updateWorkflow(msg)
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.panel.Active() == models.WorkflowNone {
			return m.updateMenu(msg)
		}
		if msg.String() == "esc" && !m.messagesSearching() {
			m.closeWorkflow()
			return m, nil
		}
	}

	return m, m.updateWorkflow(msg)
}

func (m ActionsModel) messagesSearching() bool {
	return m.panel.Active() == models.WorkflowMessages && m.messages.list.searchActive()
}

func (m ActionsModel) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	workflows := dispatch.Workflows()
	switch msg.String() {
	case "esc", "q":
		m.panel.Unmount()
		users := withSize(NewUsersModel(m.app), m.windowWidth, m.windowHeight)
		return users, users.Init()
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(workflows)-1 {
			m.cursor++
		}
	case "enter":
		return m, m.openWorkflow(workflows[m.cursor])
	case "1", "2", "3", "4":
		i := int(msg.String()[0] - '1')
		m.cursor = i
		return m, m.openWorkflow(workflows[i])
	}
	return m, nil
}

// openWorkflow starts a fresh session of w. Nothing from an earlier session of
// the same workflow carries over.
func (m *ActionsModel) openWorkflow(w models.Workflow) tea.Cmd {
	if !m.panel.Open(w) {
		return nil
	}
	m.session++
	u := *m.panel.User()
	switch w {
	case models.WorkflowProfile:
		m.profile = newProfileView(u, m.windowWidth, m.windowHeight)
	case models.WorkflowMessages:
		m.messages = newUserMessagesView(m.app, u.MobileNumber)
		m.messages.list.setSize(m.windowWidth, m.windowHeight)
		return m.messages.list.init()
	case models.WorkflowForwarding:
		m.forwarding = newForwardingForm(u, m.session)
		return textinput.Blink
	case models.WorkflowSendMessage:
		m.relay = newRelayForm(u.MobileNumber, m.session)
		m.relay.setWidth(m.windowWidth)
		return textinput.Blink
	}
	return nil
}

func (m *ActionsModel) closeWorkflow() {
	if m.panel.Active() == models.WorkflowMessages {
		m.messages.list.unmount()
	}
	m.panel.Close()
}

func (m *ActionsModel) updateWorkflow(msg tea.Msg) tea.Cmd {
	switch m.panel.Active() {
	case models.WorkflowProfile:
		return m.profile.update(msg)
	case models.WorkflowMessages:
		_, cmd := m.messages.list.update(msg)
		return cmd
	case models.WorkflowForwarding:
		return m.forwarding.update(m.app, msg)
	case models.WorkflowSendMessage:
		return m.relay.update(m.app, msg)
	}
	return nil
}

func (m ActionsModel) View() string {
	if m.panel.Loading() {
		return fmt.Sprintf("\n  %s Loading user...\n", m.spinner.View())
	}
	if m.panel.NoData() {
		s := "\n" + titleStyle.Render("Actions") + "\n"
		s += normalStyle.Render("No data available.") + "\n"
		if err := m.panel.FetchErr(); err != nil {
			s += errorStyle.Render(err.Error()) + "\n"
		}
		return s + "\n" + helpStyle.Render("esc: back")
	}

	switch m.panel.Active() {
	case models.WorkflowProfile:
		return "\n" + overlayStyle.Render(m.profile.view()) + "\n" + helpStyle.Render("↑/↓: scroll • esc: close")
	case models.WorkflowMessages:
		help := "/: search • ←/→: page • r: reload • esc: close"
		if m.messages.list.searchActive() {
			help = "type to filter • enter/esc: done"
		}
		return "\n" + m.messages.list.view() + "\n" + helpStyle.Render(help)
	case models.WorkflowForwarding:
		return "\n" + overlayStyle.Render(m.forwarding.view()) + "\n" + helpStyle.Render("enter/ctrl+s: save • ctrl+a: activate • ctrl+d: deactivate • esc: close")
	case models.WorkflowSendMessage:
		return "\n" + overlayStyle.Render(m.relay.view()) + "\n" + helpStyle.Render("tab: switch field • ctrl+s: send • esc: close")
	}
	return m.menuView()
}

func (m ActionsModel) menuView() string {
	u := m.panel.User()
	var b strings.Builder
	b.WriteString("\n" + titleStyle.Render("Actions") + "\n")
	b.WriteString(labelStyle.Render("Name") + normalStyle.Render(u.Name) + "\n")
	b.WriteString(labelStyle.Render("Phone No.") + normalStyle.Render(u.MobileNumber) + "\n")
	if badge := statusBadge(u.IsForwarded, models.ForwardStatusText(u.Fields.Raw("isForwarded"))); badge != "" {
		b.WriteString(labelStyle.Render("Forwarded") + badge + "\n")
	}
	b.WriteString("\n")

	for i, w := range dispatch.Workflows() {
		line := fmt.Sprintf("%d. %s", i+1, w)
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> "+line) + "\n")
		} else {
			b.WriteString(normalStyle.Render("  "+line) + "\n")
		}
	}
	b.WriteString("\n" + helpStyle.Render("↑/↓: select • enter or 1-4: open • esc: back"))
	return b.String()
}
