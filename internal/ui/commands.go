package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/saravenpi/switchboard/internal/forwarding"
	"github.com/saravenpi/switchboard/internal/history"
	"github.com/saravenpi/switchboard/internal/relay"
)

// Results carry the session of the form that issued them so a reply for a
// closed form never lands in a newer one.

type forwardSavedMsg struct {
	session int
	res     forwarding.SaveResult
}

type forwardStatusMsg struct {
	session int
	res     forwarding.StatusResult
}

type relaySentMsg struct {
	session int
	res     relay.Result
}

func saveForwardCmd(app *App, session int, req forwarding.SaveRequest) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		res := req.Run(ctx, app.API)
		app.Logger.Info("save forward number", "mobile", req.MobileNumber, "ok", res.Err == nil)
		app.record(ctx, history.Entry{
			Action:       history.ActionSaveForwardNumber,
			MobileNumber: req.MobileNumber,
			Detail:       req.ForwardPhoneNumber,
			OK:           res.Err == nil,
			Message:      errText(res.Err),
		})
		return forwardSavedMsg{session: session, res: res}
	}
}

func setStatusCmd(app *App, session int, req forwarding.StatusRequest) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		res := req.Run(ctx, app.API)
		app.Logger.Info("set forward status", "mobile", req.MobileNumber, "status", req.Status.String(), "ok", res.Err == nil)
		app.record(ctx, history.Entry{
			Action:       history.ActionSetForwardStatus,
			MobileNumber: req.MobileNumber,
			Detail:       req.Status.String(),
			OK:           res.Err == nil,
			Message:      errText(res.Err),
		})
		return forwardStatusMsg{session: session, res: res}
	}
}

func relayCmd(app *App, session int, req relay.Request) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		res := req.Run(ctx, app.API)
		app.Logger.Info("relay message", "from", req.PhoneNo, "to", req.To, "ok", res.Err == nil)
		app.record(ctx, history.Entry{
			Action:       history.ActionRelayMessage,
			MobileNumber: req.PhoneNo,
			Detail:       req.To,
			OK:           res.Err == nil,
			Message:      errText(res.Err),
		})
		return relaySentMsg{session: session, res: res}
	}
}
