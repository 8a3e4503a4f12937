package dispatch

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saravenpi/switchboard/internal/listview"
	"github.com/saravenpi/switchboard/internal/models"
)

func TestPanel_NoSelectionDisablesWorkflows(t *testing.T) {
	p := NewPanel(Payload{}, nil, nil)
	assert.Nil(t, p.Init())
	assert.True(t, p.NoData())
	assert.False(t, p.Enabled())
	for _, w := range Workflows() {
		assert.False(t, p.Open(w))
	}
	assert.Equal(t, models.WorkflowNone, p.Active())
}

func TestPanel_ExclusiveWorkflow(t *testing.T) {
	p := NewPanel(Payload{User: &models.UserRecord{ID: "u1", Name: "A"}}, nil, nil)
	require.True(t, p.Enabled())

	require.True(t, p.Open(models.WorkflowProfile))
	require.True(t, p.Open(models.WorkflowForwarding))
	assert.Equal(t, models.WorkflowForwarding, p.Active())
	assert.False(t, p.Open(models.WorkflowNone))

	p.Close()
	assert.Equal(t, models.WorkflowNone, p.Active())
}

func TestPanel_DeepLinkFetchesByID(t *testing.T) {
	var gotID string
	fetch := func(ctx context.Context, id string) (models.UserRecord, error) {
		gotID = id
		return models.UserRecord{ID: id, Name: "Deep"}, nil
	}

	p := NewPanel(Payload{UserID: "u7"}, fetch, nil)
	cmd := p.Init()
	require.NotNil(t, cmd)
	assert.True(t, p.Loading())
	assert.False(t, p.Enabled())
	assert.False(t, p.NoData())

	msg := cmd().(listview.LoadedMsg[models.UserRecord])
	require.True(t, p.Accept(msg))
	assert.Equal(t, "u7", gotID)
	assert.True(t, p.Enabled())
	assert.Equal(t, "Deep", p.User().Name)
}

func TestPanel_DeepLinkFailureShowsNoData(t *testing.T) {
	fetch := func(ctx context.Context, id string) (models.UserRecord, error) {
		return models.UserRecord{}, errors.New("not found")
	}

	p := NewPanel(Payload{UserID: "u7"}, fetch, nil)
	msg := p.Init()().(listview.LoadedMsg[models.UserRecord])
	require.True(t, p.Accept(msg))

	assert.True(t, p.NoData())
	assert.False(t, p.Enabled())
	assert.EqualError(t, p.FetchErr(), "not found")
}

func TestPanel_LateFetchAfterUnmountIgnored(t *testing.T) {
	fetch := func(ctx context.Context, id string) (models.UserRecord, error) {
		return models.UserRecord{ID: id}, nil
	}
	p := NewPanel(Payload{UserID: "u7"}, fetch, nil)
	cmd := p.Init()
	p.Unmount()

	assert.False(t, p.Accept(cmd().(listview.LoadedMsg[models.UserRecord])))
	assert.Nil(t, p.User())
}
