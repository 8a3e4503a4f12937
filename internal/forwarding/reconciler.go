// Package forwarding reconciles what the operator sees about one user's call
// forwarding with the two endpoints that change it.
//
// The destination number and the active/deactive flag are written by separate
// endpoints and never affect each other, so a destination can be set up before
// forwarding is switched on. Each write is split into Start (local validation,
// busy flag), Run (the network call, safe to execute off the update loop) and
// Apply (fold the outcome back in). Requests are not serialized: whichever
// result is applied last wins for the fields it owns.
package forwarding

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/saravenpi/switchboard/internal/adminapi"
	"github.com/saravenpi/switchboard/internal/models"
)

const (
	MsgNumberSaved     = "Call forwarding saved successfully!"
	MsgNumberFailed    = "Failed to save call forwarding."
	MsgStatusRejected  = "Failed to update forwarding status."
	MsgStatusTransport = "Error updating forwarding status."
)

var (
	ErrEmptyNumber   = errors.New("enter a number to forward calls to")
	ErrInvalidStatus = errors.New("status must be active or deactive")
)

// Forwarder is the subset of the admin API used here.
type Forwarder interface {
	SaveForwardNumber(ctx context.Context, mobileNumber, forwardPhoneNumber string) error
	SetForwardStatus(ctx context.Context, mobileNumber string, status models.ForwardStatus) (adminapi.StatusResult, error)
}

// State is a snapshot for rendering.
type State struct {
	PhoneNumber            string
	PendingForwardNumber   string
	ConfirmedForwardNumber string
	ViewStatus             models.ForwardStatus

	SavingNumber  bool
	SettingStatus bool

	NumberSuccess string
	NumberError   string
	StatusMessage string
	StatusOK      bool
}

// Reconciler tracks one forwarding session for a single user.
type Reconciler struct {
	s State
}

// Open seeds a fresh session from the parent user record. Nothing carries over
// from earlier sessions.
func Open(phoneNumber, currentForwardNumber string, status models.ForwardStatus) *Reconciler {
	return &Reconciler{s: State{
		PhoneNumber:            phoneNumber,
		ConfirmedForwardNumber: currentForwardNumber,
		ViewStatus:             status,
	}}
}

func (r *Reconciler) State() State { return r.s }

func (r *Reconciler) ViewStatus() models.ForwardStatus { return r.s.ViewStatus }

// SetPending records the operator's unsaved destination input.
func (r *Reconciler) SetPending(number string) {
	r.s.PendingForwardNumber = number
}

// CanSave mirrors the enabled state of the save control.
func (r *Reconciler) CanSave() bool {
	return !r.s.SavingNumber && strings.TrimSpace(r.s.PendingForwardNumber) != ""
}

type SaveRequest struct {
	MobileNumber       string
	ForwardPhoneNumber string
}

type SaveResult struct {
	Request SaveRequest
	Err     error
}

// StartSave validates the pending number and marks a save as in flight. An
// empty number is rejected here and never reaches the network.
func (r *Reconciler) StartSave() (SaveRequest, error) {
	number := strings.TrimSpace(r.s.PendingForwardNumber)
	if number == "" {
		r.s.NumberSuccess = ""
		r.s.NumberError = ErrEmptyNumber.Error()
		return SaveRequest{}, ErrEmptyNumber
	}
	r.s.SavingNumber = true
	r.s.NumberSuccess = ""
	r.s.NumberError = ""
	return SaveRequest{MobileNumber: r.s.PhoneNumber, ForwardPhoneNumber: number}, nil
}

func (req SaveRequest) Run(ctx context.Context, f Forwarder) SaveResult {
	return SaveResult{Request: req, Err: f.SaveForwardNumber(ctx, req.MobileNumber, req.ForwardPhoneNumber)}
}

// ApplySave folds a save outcome in. ViewStatus is never touched.
func (r *Reconciler) ApplySave(res SaveResult) {
	r.s.SavingNumber = false
	if res.Err != nil {
		r.s.NumberSuccess = ""
		r.s.NumberError = adminapi.UserMessage(res.Err, MsgNumberFailed)
		return
	}
	r.s.PendingForwardNumber = ""
	r.s.ConfirmedForwardNumber = res.Request.ForwardPhoneNumber
	r.s.NumberError = ""
	r.s.NumberSuccess = MsgNumberSaved
}

type StatusRequest struct {
	MobileNumber string
	Status       models.ForwardStatus
}

type StatusResult struct {
	Request StatusRequest
	Err     error
}

// StartSetStatus marks a status change as in flight. It does not refuse while
// another one is pending; callers that need ordering check SettingStatus.
func (r *Reconciler) StartSetStatus(status models.ForwardStatus) (StatusRequest, error) {
	if status != models.ForwardActive && status != models.ForwardInactive {
		return StatusRequest{}, ErrInvalidStatus
	}
	r.s.SettingStatus = true
	r.s.StatusMessage = ""
	r.s.StatusOK = false
	return StatusRequest{MobileNumber: r.s.PhoneNumber, Status: status}, nil
}

func (req StatusRequest) Run(ctx context.Context, f Forwarder) StatusResult {
	_, err := f.SetForwardStatus(ctx, req.MobileNumber, req.Status)
	return StatusResult{Request: req, Err: err}
}

// ApplyStatus folds a status outcome in. ViewStatus only moves on success.
func (r *Reconciler) ApplyStatus(res StatusResult) {
	r.s.SettingStatus = false
	if res.Err == nil {
		r.s.ViewStatus = res.Request.Status
		r.s.StatusOK = true
		r.s.StatusMessage = fmt.Sprintf("Forwarding status set to %q successfully!", res.Request.Status.String())
		return
	}

	r.s.StatusOK = false
	var rej *adminapi.RejectionError
	if errors.As(res.Err, &rej) && !rej.HTTPFailure() {
		r.s.StatusMessage = adminapi.UserMessage(res.Err, MsgStatusRejected)
		return
	}
	r.s.StatusMessage = adminapi.UserMessage(res.Err, MsgStatusTransport)
}
