package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/saravenpi/switchboard/internal/relay"
)

type relayForm struct {
	session int
	form    *relay.Form
	to      textinput.Model
	body    textarea.Model
	focus   int // 0 = receiver, 1 = message
}

func newRelayForm(phoneNo string, session int) relayForm {
	to := textinput.New()
	to.Placeholder = "Receiver phone number"
	to.CharLimit = 20
	to.Width = 30
	to.Focus()

	body := textarea.New()
	body.Placeholder = "Type your message..."
	body.SetWidth(60)
	body.SetHeight(4)
	body.ShowLineNumbers = false
	body.CharLimit = 1000

	return relayForm{
		session: session,
		form:    relay.Open(phoneNo),
		to:      to,
		body:    body,
	}
}

func (r *relayForm) setWidth(width int) {
	if width > 10 {
		r.body.SetWidth(min(80, width-8))
	}
}

func (r *relayForm) update(app *App, msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case relaySentMsg:
		if msg.session != r.session {
			return nil
		}
		r.form.Apply(msg.res)
		if msg.res.Err == nil {
			r.to.Reset()
			r.body.Reset()
		}
		return nil

	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "shift+tab":
			r.focus = 1 - r.focus
			if r.focus == 0 {
				r.body.Blur()
				return r.to.Focus()
			}
			r.to.Blur()
			return r.body.Focus()

		case "ctrl+s":
			if r.form.State().Sending {
				return nil
			}
			r.sync()
			req, err := r.form.Start()
			if err != nil {
				return nil
			}
			return relayCmd(app, r.session, req)
		}

		var cmd tea.Cmd
		if r.focus == 0 {
			r.to, cmd = r.to.Update(msg)
		} else {
			r.body, cmd = r.body.Update(msg)
		}
		r.sync()
		return cmd
	}
	return nil
}

func (r *relayForm) sync() {
	r.form.SetTo(r.to.Value())
	r.form.SetMessage(r.body.Value())
}

func (r *relayForm) view() string {
	st := r.form.State()
	var b strings.Builder

	b.WriteString(titleStyle.Render("Message Forward") + "\n")
	b.WriteString(labelStyle.Render("From") + normalStyle.Render(st.PhoneNo) + "\n\n")

	b.WriteString(inputStyle.Render("To:") + "\n")
	b.WriteString(r.to.View() + "\n\n")
	b.WriteString(inputStyle.Render("Message:") + "\n")
	b.WriteString(r.body.View() + "\n\n")

	b.WriteString(button("ctrl+s Send", r.form.CanSend()) + "\n")
	switch {
	case st.Sending:
		b.WriteString(statusStyle.Render("Sending...") + "\n")
	case st.Error != "":
		b.WriteString(errorStyle.Render(st.Error) + "\n")
	case st.Success != "":
		b.WriteString(successStyle.Render(st.Success) + "\n")
	}
	return b.String()
}
