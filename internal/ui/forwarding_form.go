package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/saravenpi/switchboard/internal/forwarding"
	"github.com/saravenpi/switchboard/internal/models"
)

type forwardingForm struct {
	session   int
	rec       *forwarding.Reconciler
	input     textinput.Model
	rawStatus string
}

func newForwardingForm(u models.UserRecord, session int) forwardingForm {
	ti := textinput.New()
	ti.Placeholder = "Enter number to forward calls to"
	if u.ForwardPhoneNumber != "" {
		ti.Placeholder = "Current: " + u.ForwardPhoneNumber
	}
	ti.CharLimit = 20
	ti.Width = 30
	ti.Focus()

	return forwardingForm{
		session:   session,
		rec:       forwarding.Open(u.MobileNumber, u.ForwardPhoneNumber, u.IsForwarded),
		input:     ti,
		rawStatus: models.ForwardStatusText(u.Fields.Raw("isForwarded")),
	}
}

func (f *forwardingForm) update(app *App, msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case forwardSavedMsg:
		if msg.session != f.session {
			return nil
		}
		f.rec.ApplySave(msg.res)
		if msg.res.Err == nil {
			f.input.Reset()
			f.input.Placeholder = "Current: " + f.rec.State().ConfirmedForwardNumber
		}
		return nil

	case forwardStatusMsg:
		if msg.session != f.session {
			return nil
		}
		f.rec.ApplyStatus(msg.res)
		return nil

	case tea.KeyMsg:
		switch msg.String() {
		case "enter", "ctrl+s":
			if f.rec.State().SavingNumber {
				return nil
			}
			f.rec.SetPending(f.input.Value())
			req, err := f.rec.StartSave()
			if err != nil {
				return nil
			}
			return saveForwardCmd(app, f.session, req)

		case "ctrl+a":
			return f.setStatus(app, models.ForwardActive)

		case "ctrl+d":
			return f.setStatus(app, models.ForwardInactive)
		}

		var cmd tea.Cmd
		f.input, cmd = f.input.Update(msg)
		f.rec.SetPending(f.input.Value())
		return cmd
	}
	return nil
}

func (f *forwardingForm) setStatus(app *App, status models.ForwardStatus) tea.Cmd {
	st := f.rec.State()
	if st.SettingStatus {
		return nil
	}
	req, err := f.rec.StartSetStatus(status)
	if err != nil {
		return nil
	}
	return setStatusCmd(app, f.session, req)
}

// statusBadge renders the forwarding flag. An unrecognized raw spelling is
// shown as is; an unset flag renders nothing.
func statusBadge(s models.ForwardStatus, raw string) string {
	switch {
	case s == models.ForwardActive:
		return activeBadgeStyle.Render(s.Label())
	case s == models.ForwardInactive:
		return inactiveBadgeStyle.Render(s.Label())
	case raw != "":
		return unsetBadgeStyle.Render(raw)
	default:
		return ""
	}
}

func (f *forwardingForm) view() string {
	st := f.rec.State()
	var b strings.Builder

	b.WriteString(titleStyle.Render("Call Forwarding") + "\n")
	b.WriteString(labelStyle.Render("Phone No.") + normalStyle.Render(st.PhoneNumber) + "\n")
	if badge := statusBadge(st.ViewStatus, f.rawStatus); badge != "" {
		b.WriteString(labelStyle.Render("Forwarded") + badge + "\n")
	}
	if st.ConfirmedForwardNumber != "" {
		b.WriteString(labelStyle.Render("Forwarding To") + normalStyle.Render(st.ConfirmedForwardNumber) + "\n")
	}
	b.WriteString("\n")

	b.WriteString(inputStyle.Render("Forward calls to:") + "\n")
	b.WriteString(f.input.View() + "\n")
	switch {
	case st.SavingNumber:
		b.WriteString(statusStyle.Render("Saving...") + "\n")
	case st.NumberError != "":
		b.WriteString(errorStyle.Render(st.NumberError) + "\n")
	case st.NumberSuccess != "":
		b.WriteString(successStyle.Render(st.NumberSuccess) + "\n")
	}
	b.WriteString("\n")

	b.WriteString(button("ctrl+s Save", f.rec.CanSave()) + "  ")
	b.WriteString(button("ctrl+a Activate", !st.SettingStatus) + "  ")
	b.WriteString(button("ctrl+d Deactivate", !st.SettingStatus) + "\n")

	switch {
	case st.SettingStatus:
		b.WriteString(statusStyle.Render("Updating status...") + "\n")
	case st.StatusMessage != "" && st.StatusOK:
		b.WriteString(successStyle.Render(st.StatusMessage) + "\n")
	case st.StatusMessage != "":
		b.WriteString(errorStyle.Render(st.StatusMessage) + "\n")
	}
	return b.String()
}

func button(label string, enabled bool) string {
	if enabled {
		return selectedStyle.Render(fmt.Sprintf("[ %s ]", label))
	}
	return disabledStyle.Render(fmt.Sprintf("[ %s ]", label))
}
