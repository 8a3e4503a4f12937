package twin

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saravenpi/switchboard/internal/adminapi"
	"github.com/saravenpi/switchboard/internal/forwarding"
	"github.com/saravenpi/switchboard/internal/models"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func startTwin(t *testing.T, cfg Config, seedUsers, seedMessages int) (*MemoryStore, *adminapi.Client) {
	t.Helper()
	store := NewStore()
	store.Seed(seedUsers, seedMessages)
	srv := httptest.NewServer(NewHandler(store, cfg, quietLogger()).Router())
	t.Cleanup(srv.Close)

	client := adminapi.NewClient(adminapi.Options{
		BaseURL:    srv.URL,
		Tokens:     adminapi.StaticToken("secret"),
		AuthScheme: "Bearer",
	})
	return store, client
}

func TestTwin_ListsBareAndEnveloped(t *testing.T) {
	for _, envelope := range []bool{false, true} {
		_, client := startTwin(t, Config{Token: "secret", Envelope: envelope}, 25, 40)
		ctx := context.Background()

		users, err := client.ListUsers(ctx)
		require.NoError(t, err)
		assert.Len(t, users, 25)
		assert.Equal(t, "9876500000", users[0].MobileNumber)
		assert.Equal(t, models.ForwardActive, users[0].IsForwarded)
		assert.Equal(t, models.ForwardInactive, users[1].IsForwarded)
		assert.Equal(t, models.ForwardUnset, users[2].IsForwarded)

		msgs, err := client.ListMessages(ctx)
		require.NoError(t, err)
		assert.Len(t, msgs, 40)

		u, err := client.GetUser(ctx, users[3].ID)
		require.NoError(t, err)
		assert.Equal(t, users[3].Name, u.Name)
	}
}

func TestTwin_RejectsWrongToken(t *testing.T) {
	store := NewStore()
	srv := httptest.NewServer(NewHandler(store, Config{Token: "secret"}, quietLogger()).Router())
	defer srv.Close()

	client := adminapi.NewClient(adminapi.Options{BaseURL: srv.URL, Tokens: adminapi.StaticToken("wrong")})
	_, err := client.ListUsers(context.Background())

	var rej *adminapi.RejectionError
	require.ErrorAs(t, err, &rej)
	assert.Equal(t, http.StatusUnauthorized, rej.StatusCode)
	assert.Equal(t, "Invalid authorization token.", adminapi.UserMessage(err, ""))
}

func TestTwin_UnknownUser(t *testing.T) {
	_, client := startTwin(t, Config{}, 1, 0)
	_, err := client.GetUser(context.Background(), "missing")
	assert.Equal(t, "User not found.", adminapi.UserMessage(err, ""))
}

func TestTwin_ForwardingFlow(t *testing.T) {
	store, client := startTwin(t, Config{MaxActive: 9}, 25, 0)
	ctx := context.Background()

	users, err := client.ListUsers(ctx)
	require.NoError(t, err)
	target := users[2] // unset status, no destination

	r := forwarding.Open(target.MobileNumber, target.ForwardPhoneNumber, target.IsForwarded)
	r.SetPending("5550000000")
	save, err := r.StartSave()
	require.NoError(t, err)
	r.ApplySave(save.Run(ctx, client))
	assert.Equal(t, forwarding.MsgNumberSaved, r.State().NumberSuccess)
	assert.Equal(t, models.ForwardUnset, r.ViewStatus())

	// Seeded data already has 9 active users, the cap.
	req, err := r.StartSetStatus(models.ForwardActive)
	require.NoError(t, err)
	r.ApplyStatus(req.Run(ctx, client))
	assert.Equal(t, "limit exceeded", r.State().StatusMessage)
	assert.Equal(t, models.ForwardUnset, r.ViewStatus())

	req, err = r.StartSetStatus(models.ForwardInactive)
	require.NoError(t, err)
	r.ApplyStatus(req.Run(ctx, client))
	assert.Equal(t, models.ForwardInactive, r.ViewStatus())

	u, ok := store.User(target.ID)
	require.True(t, ok)
	assert.Equal(t, "5550000000", u.ForwardPhoneNumber)
	assert.Equal(t, "deactive", u.IsForwarded)
}

func TestTwin_FailStatus(t *testing.T) {
	_, client := startTwin(t, Config{FailStatus: true}, 3, 0)
	_, err := client.SetForwardStatus(context.Background(), "9876500001", models.ForwardActive)

	var rej *adminapi.RejectionError
	require.ErrorAs(t, err, &rej)
	assert.False(t, rej.HTTPFailure())
	assert.Equal(t, "Forwarding updates are disabled.", adminapi.UserMessage(err, ""))
}

func TestTwin_Relay(t *testing.T) {
	store, client := startTwin(t, Config{}, 2, 0)
	require.NoError(t, client.RelayMessage(context.Background(), "111", "222", "hello"))

	forms := store.Forms()
	require.Len(t, forms, 1)
	assert.Equal(t, "111", forms[0].SenderPhoneNumber)
	assert.Equal(t, "222", forms[0].RecieverPhoneNumber)

	err := client.RelayMessage(context.Background(), "111", "", "hello")
	assert.Equal(t, "phoneNo, to and message are required.", adminapi.UserMessage(err, ""))
}

func TestTwin_MissingAuthorization(t *testing.T) {
	srv := httptest.NewServer(NewHandler(NewStore(), Config{}, quietLogger()).Router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + adminapi.PathAllSaveData)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestStore_LoadState(t *testing.T) {
	s := NewStore()
	err := s.LoadState([]byte(`{"users":[{"name":"A","mobileNumber":"1"}],"forms":[{"senderPhoneNumber":"1","recieverPhoneNumber":"2","message":"x"}]}`))
	require.NoError(t, err)
	require.Len(t, s.Users(), 1)
	assert.NotEmpty(t, s.Users()[0].ID)
	require.Len(t, s.Forms(), 1)
	assert.NotEmpty(t, s.Forms()[0].Time)

	assert.Error(t, s.LoadState([]byte(`nope`)))
}
