package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/saravenpi/switchboard/internal/listview"
	"github.com/saravenpi/switchboard/internal/models"
)

// userMessagesView lists the messages a user sent or received.
type userMessagesView struct {
	mobile string
	list   pagedTable[models.MessageRecord]
}

func involves(mobile string) func(models.MessageRecord) bool {
	return func(r models.MessageRecord) bool { return r.Involves(mobile) }
}

func newUserMessagesView(app *App, mobile string) userMessagesView {
	loader := listview.NewLoader("messages of "+mobile, app.API.ListMessages, involves(mobile), app.Logger)
	return userMessagesView{
		mobile: mobile,
		list:   newPagedTable("Messages of "+mobile, "Search sender, receiver, message or time", loader, messageColumns, messageSearchFields...),
	}
}

// retarget points the view at another user and refetches.
func (v *userMessagesView) retarget(mobile string) tea.Cmd {
	if mobile == v.mobile {
		return nil
	}
	v.mobile = mobile
	v.list.title = "Messages of " + mobile
	return v.list.loader.SetFilter(involves(mobile))
}
