package forwarding

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saravenpi/switchboard/internal/adminapi"
	"github.com/saravenpi/switchboard/internal/models"
)

type fakeForwarder struct {
	saveErr   error
	statusErr error
	saves     []SaveRequest
	statuses  []StatusRequest
}

func (f *fakeForwarder) SaveForwardNumber(ctx context.Context, mobile, forward string) error {
	f.saves = append(f.saves, SaveRequest{MobileNumber: mobile, ForwardPhoneNumber: forward})
	return f.saveErr
}

func (f *fakeForwarder) SetForwardStatus(ctx context.Context, mobile string, status models.ForwardStatus) (adminapi.StatusResult, error) {
	f.statuses = append(f.statuses, StatusRequest{MobileNumber: mobile, Status: status})
	if f.statusErr != nil {
		return adminapi.StatusResult{}, f.statusErr
	}
	return adminapi.StatusResult{Success: true}, nil
}

func TestOpen_NullStatusSeedsUnset(t *testing.T) {
	var u models.UserRecord
	require.NoError(t, u.UnmarshalJSON([]byte(`{"_id":"1","mobileNumber":"111","isForwarded":null}`)))

	r := Open(u.MobileNumber, u.ForwardPhoneNumber, u.IsForwarded)
	assert.Equal(t, models.ForwardUnset, r.State().ViewStatus)
	assert.Equal(t, "Not set", u.IsForwarded.Label())
}

func TestOpen_SeedsFromParent(t *testing.T) {
	var u models.UserRecord
	require.NoError(t, u.UnmarshalJSON([]byte(`{"mobileNumber":"111","forwardPhoneNumber":"999","isForwarded":true}`)))

	r := Open(u.MobileNumber, u.ForwardPhoneNumber, u.IsForwarded)
	s := r.State()
	assert.Equal(t, models.ForwardActive, s.ViewStatus)
	assert.Equal(t, "999", s.ConfirmedForwardNumber)
	assert.Empty(t, s.PendingForwardNumber)
	assert.False(t, s.SavingNumber)
	assert.False(t, s.SettingStatus)
}

func TestSaveForwardNumber_EmptyRejectedLocally(t *testing.T) {
	f := &fakeForwarder{}
	r := Open("111", "", models.ForwardUnset)
	r.SetPending("   ")

	assert.False(t, r.CanSave())
	_, err := r.StartSave()
	assert.ErrorIs(t, err, ErrEmptyNumber)
	assert.False(t, r.State().SavingNumber)
	assert.Empty(t, f.saves)
}

func TestSaveForwardNumber_SuccessKeepsStatus(t *testing.T) {
	f := &fakeForwarder{}
	r := Open("111", "", models.ForwardInactive)
	r.SetPending("999")

	req, err := r.StartSave()
	require.NoError(t, err)
	assert.True(t, r.State().SavingNumber)

	r.ApplySave(req.Run(context.Background(), f))

	s := r.State()
	assert.False(t, s.SavingNumber)
	assert.Empty(t, s.PendingForwardNumber)
	assert.Equal(t, "999", s.ConfirmedForwardNumber)
	assert.Equal(t, MsgNumberSaved, s.NumberSuccess)
	assert.Equal(t, models.ForwardInactive, s.ViewStatus)
	assert.Equal(t, []SaveRequest{{MobileNumber: "111", ForwardPhoneNumber: "999"}}, f.saves)
}

func TestSaveForwardNumber_Failure(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"server message", &adminapi.RejectionError{Op: "x", StatusCode: 400, Message: "invalid number"}, "invalid number"},
		{"no message", &adminapi.RejectionError{Op: "x", StatusCode: 500}, MsgNumberFailed},
		{"network", &adminapi.NetworkError{Op: "x", Err: errors.New("refused")}, MsgNumberFailed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := Open("111", "555", models.ForwardActive)
			r.SetPending("999")
			req, err := r.StartSave()
			require.NoError(t, err)

			r.ApplySave(req.Run(context.Background(), &fakeForwarder{saveErr: tc.err}))

			s := r.State()
			assert.Equal(t, tc.want, s.NumberError)
			assert.Empty(t, s.NumberSuccess)
			assert.Equal(t, "999", s.PendingForwardNumber)
			assert.Equal(t, "555", s.ConfirmedForwardNumber)
			assert.Equal(t, models.ForwardActive, s.ViewStatus)
		})
	}
}

func TestSetForwardStatus_Success(t *testing.T) {
	f := &fakeForwarder{}
	r := Open("111", "", models.ForwardUnset)

	req, err := r.StartSetStatus(models.ForwardActive)
	require.NoError(t, err)
	assert.True(t, r.State().SettingStatus)

	r.ApplyStatus(req.Run(context.Background(), f))

	s := r.State()
	assert.Equal(t, models.ForwardActive, s.ViewStatus)
	assert.True(t, s.StatusOK)
	assert.Contains(t, s.StatusMessage, `"active"`)
	assert.False(t, s.SettingStatus)
}

func TestSetForwardStatus_RejectedWithMessage(t *testing.T) {
	f := &fakeForwarder{statusErr: &adminapi.RejectionError{Op: "x", StatusCode: 200, Message: "limit exceeded"}}
	r := Open("111", "", models.ForwardInactive)

	req, _ := r.StartSetStatus(models.ForwardActive)
	r.ApplyStatus(req.Run(context.Background(), f))

	s := r.State()
	assert.Equal(t, "limit exceeded", s.StatusMessage)
	assert.False(t, s.StatusOK)
	assert.Equal(t, models.ForwardInactive, s.ViewStatus)
}

func TestSetForwardStatus_FallbackMessages(t *testing.T) {
	r := Open("111", "", models.ForwardActive)

	req, _ := r.StartSetStatus(models.ForwardInactive)
	r.ApplyStatus(StatusResult{Request: req, Err: &adminapi.RejectionError{Op: "x", StatusCode: 200}})
	assert.Equal(t, MsgStatusRejected, r.State().StatusMessage)

	req, _ = r.StartSetStatus(models.ForwardInactive)
	r.ApplyStatus(StatusResult{Request: req, Err: &adminapi.NetworkError{Op: "x", Err: errors.New("timeout")}})
	assert.Equal(t, MsgStatusTransport, r.State().StatusMessage)

	req, _ = r.StartSetStatus(models.ForwardInactive)
	r.ApplyStatus(StatusResult{Request: req, Err: &adminapi.RejectionError{Op: "x", StatusCode: 503, Message: "maintenance"}})
	assert.Equal(t, "maintenance", r.State().StatusMessage)

	assert.Equal(t, models.ForwardActive, r.ViewStatus())
}

func TestSetForwardStatus_InvalidStatus(t *testing.T) {
	r := Open("111", "", models.ForwardActive)
	_, err := r.StartSetStatus(models.ForwardUnset)
	assert.ErrorIs(t, err, ErrInvalidStatus)
	assert.False(t, r.State().SettingStatus)
}

func TestSetForwardStatus_LastSettledWins(t *testing.T) {
	r := Open("111", "", models.ForwardUnset)

	activate, _ := r.StartSetStatus(models.ForwardActive)
	deactivate, _ := r.StartSetStatus(models.ForwardInactive)

	// Responses arrive in reverse order of the requests.
	r.ApplyStatus(StatusResult{Request: deactivate})
	r.ApplyStatus(StatusResult{Request: activate})
	assert.Equal(t, models.ForwardActive, r.ViewStatus())
}

func TestWritesTouchDisjointFields(t *testing.T) {
	f := &fakeForwarder{}
	r := Open("111", "", models.ForwardInactive)
	r.SetPending("999")

	save, _ := r.StartSave()
	status, _ := r.StartSetStatus(models.ForwardActive)

	r.ApplyStatus(status.Run(context.Background(), f))
	r.ApplySave(save.Run(context.Background(), f))

	s := r.State()
	assert.Equal(t, models.ForwardActive, s.ViewStatus)
	assert.Equal(t, MsgNumberSaved, s.NumberSuccess)
	assert.True(t, s.StatusOK)
}
