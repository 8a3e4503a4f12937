// Package relay holds the state of the "send a message on behalf of a user" form.
package relay

import (
	"context"
	"errors"
	"strings"

	"github.com/saravenpi/switchboard/internal/adminapi"
)

const (
	MsgSent   = "Message sent successfully!"
	MsgFailed = "Failed to send message."
)

var ErrMissingFields = errors.New("receiver and message are both required")

type Relayer interface {
	RelayMessage(ctx context.Context, phoneNo, to, message string) error
}

type State struct {
	PhoneNo string
	To      string
	Message string
	Sending bool
	Success string
	Error   string
}

type Form struct {
	s State
}

// Open starts a fresh form for phoneNo.
func Open(phoneNo string) *Form {
	return &Form{s: State{PhoneNo: phoneNo}}
}

func (f *Form) State() State { return f.s }

func (f *Form) SetTo(to string) { f.s.To = to }

func (f *Form) SetMessage(msg string) { f.s.Message = msg }

func (f *Form) CanSend() bool {
	return !f.s.Sending && strings.TrimSpace(f.s.To) != "" && strings.TrimSpace(f.s.Message) != ""
}

type Request struct {
	PhoneNo string
	To      string
	Message string
}

type Result struct {
	Request Request
	Err     error
}

// Start validates the form and marks it as sending.
func (f *Form) Start() (Request, error) {
	to := strings.TrimSpace(f.s.To)
	msg := strings.TrimSpace(f.s.Message)
	if to == "" || msg == "" {
		f.s.Success = ""
		f.s.Error = ErrMissingFields.Error()
		return Request{}, ErrMissingFields
	}
	f.s.Sending = true
	f.s.Success = ""
	f.s.Error = ""
	return Request{PhoneNo: f.s.PhoneNo, To: to, Message: msg}, nil
}

func (req Request) Run(ctx context.Context, r Relayer) Result {
	return Result{Request: req, Err: r.RelayMessage(ctx, req.PhoneNo, req.To, req.Message)}
}

// Apply folds the outcome in; success clears both inputs.
func (f *Form) Apply(res Result) {
	f.s.Sending = false
	if res.Err != nil {
		f.s.Error = adminapi.UserMessage(res.Err, MsgFailed)
		return
	}
	f.s.To = ""
	f.s.Message = ""
	f.s.Success = MsgSent
}
