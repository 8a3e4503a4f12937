package relay

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saravenpi/switchboard/internal/adminapi"
)

type fakeRelayer struct {
	err  error
	sent []Request
}

func (f *fakeRelayer) RelayMessage(ctx context.Context, phoneNo, to, message string) error {
	f.sent = append(f.sent, Request{PhoneNo: phoneNo, To: to, Message: message})
	return f.err
}

func TestForm_RequiresBothFields(t *testing.T) {
	f := Open("111")
	f.SetTo("222")
	assert.False(t, f.CanSend())

	_, err := f.Start()
	assert.ErrorIs(t, err, ErrMissingFields)
	assert.False(t, f.State().Sending)
}

func TestForm_SendSuccessClearsInputs(t *testing.T) {
	r := &fakeRelayer{}
	f := Open("111")
	f.SetTo(" 222 ")
	f.SetMessage("hello")
	require.True(t, f.CanSend())

	req, err := f.Start()
	require.NoError(t, err)
	f.Apply(req.Run(context.Background(), r))

	s := f.State()
	assert.Equal(t, MsgSent, s.Success)
	assert.Empty(t, s.To)
	assert.Empty(t, s.Message)
	assert.Equal(t, []Request{{PhoneNo: "111", To: "222", Message: "hello"}}, r.sent)
}

func TestForm_SendFailureKeepsInputs(t *testing.T) {
	f := Open("111")
	f.SetTo("222")
	f.SetMessage("hello")
	req, _ := f.Start()

	f.Apply(req.Run(context.Background(), &fakeRelayer{err: &adminapi.RejectionError{StatusCode: 429, Message: "slow down"}}))
	assert.Equal(t, "slow down", f.State().Error)
	assert.Equal(t, "222", f.State().To)

	req, _ = f.Start()
	f.Apply(req.Run(context.Background(), &fakeRelayer{err: errors.New("offline")}))
	assert.Equal(t, MsgFailed, f.State().Error)
}
