package ui

import (
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	menuUsers    = "👥 Users"
	menuFormData = "📨 Form Data"
	menuHistory  = "🕑 History"
)

type menuItem struct {
	title string
	desc  string
}

func (i menuItem) FilterValue() string { return i.title }
func (i menuItem) Title() string       { return i.title }
func (i menuItem) Description() string { return i.desc }

type MenuModel struct {
	app          *App
	list         list.Model
	windowWidth  int
	windowHeight int
}

// NewMenuModel creates the main menu.
func NewMenuModel(app *App) MenuModel {
	items := []list.Item{
		menuItem{title: menuUsers, desc: "Browse users and act on one"},
		menuItem{title: menuFormData, desc: "All messages submitted through the service"},
		menuItem{title: menuHistory, desc: "Changes made from this console"},
	}

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.Color("5")).
		Bold(true)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(lipgloss.Color("8"))

	l := list.New(items, delegate, 80, 14)
	l.Title = "Switchboard - Messaging Admin Console"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	return MenuModel{
		app:          app,
		list:         l,
		windowWidth:  80,
		windowHeight: 30,
	}
}

func (m MenuModel) Init() tea.Cmd {
	return nil
}

func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.windowWidth = msg.Width
		m.windowHeight = msg.Height
		m.list.SetWidth(msg.Width)
		m.list.SetHeight(msg.Height - 4)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return m, tea.Quit
		}

		if msg.String() == "enter" {
			selectedItem, ok := m.list.SelectedItem().(menuItem)
			if !ok {
				return m, nil
			}

			var next tea.Model
			switch selectedItem.title {
			case menuUsers:
				next = NewUsersModel(m.app)
			case menuFormData:
				next = NewFormDataModel(m.app)
			case menuHistory:
				next = NewHistoryModel(m.app)
			default:
				return m, nil
			}
			next = withSize(next, m.windowWidth, m.windowHeight)
			return next, next.Init()
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m MenuModel) View() string {
	return "\n" + m.list.View() + "\n\n" + helpStyle.Render("enter: open • q: quit")
}
