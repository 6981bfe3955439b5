package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shopsphere/client/internal/domain/identity"
	"github.com/shopsphere/client/internal/domain/shared"
	"github.com/shopsphere/client/internal/infrastructure/gateway"
	"github.com/shopsphere/client/internal/infrastructure/storage"
	"github.com/shopsphere/client/internal/mapping"
)

type fakeAuthAPI struct {
	loginResp   gateway.LoginResponse
	loginErr    error
	refreshResp gateway.LoginResponse
	registerMsg string
	registered  []gateway.RegisterRequest
	oauthCodes  []string
}

func (f *fakeAuthAPI) Register(_ context.Context, req gateway.RegisterRequest) (string, error) {
	f.registered = append(f.registered, req)
	return f.registerMsg, nil
}

func (f *fakeAuthAPI) Login(context.Context, gateway.LoginRequest) (gateway.LoginResponse, error) {
	return f.loginResp, f.loginErr
}

func (f *fakeAuthAPI) RefreshToken(context.Context) (gateway.LoginResponse, error) {
	return f.refreshResp, nil
}

func (f *fakeAuthAPI) OAuthExchange(_ context.Context, req gateway.OAuthExchangeRequest) (gateway.LoginResponse, error) {
	f.oauthCodes = append(f.oauthCodes, req.Code)
	return f.loginResp, f.loginErr
}

type recordingBus struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (b *recordingBus) Publish(_ context.Context, events ...shared.DomainEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, events...)
	return nil
}

func (b *recordingBus) snapshot() []shared.DomainEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]shared.DomainEvent, len(b.events))
	copy(out, b.events)
	return out
}

func mapLoginUser(resp gateway.LoginResponse) (identity.AuthUser, error) {
	return mapping.AuthUser(resp.User)
}

func buyerResponse() gateway.LoginResponse {
	return gateway.LoginResponse{
		Token: "tok-1",
		User:  mapping.UserPayload{ID: "U1", Email: "a@b.c", FirstName: "Ada"},
	}
}

func newTestManager(api API, store storage.Store, bus shared.EventPublisher) *Manager {
	return NewManager(api, store, bus, mapLoginUser, "client-1", zap.NewNop())
}

func TestManager_LoginPersistsAndDefaultsRoles(t *testing.T) {
	ctx := context.Background()
	api := &fakeAuthAPI{loginResp: buyerResponse()}
	store := storage.NewMemoryStore()
	bus := &recordingBus{}
	m := newTestManager(api, store, bus)

	session, nav, err := m.Login(ctx, "a@b.c", "pw")
	require.NoError(t, err)

	assert.Equal(t, "tok-1", session.Token)
	assert.Equal(t, []identity.Role{identity.RoleBuyer}, session.User.Roles)
	assert.Equal(t, identity.CompanyNone, session.User.CompanyID)
	assert.Equal(t, NavigationRequest{Path: "/"}, nav)

	token, ok, _ := store.Get(ctx, storage.KeyToken)
	require.True(t, ok)
	assert.Equal(t, "tok-1", token)
	userRaw, ok, _ := store.Get(ctx, storage.KeyUser)
	require.True(t, ok)
	assert.Contains(t, userRaw, `"U1"`)

	events := bus.snapshot()
	require.Len(t, events, 1)
	signedIn, ok := events[0].(*SignedInEvent)
	require.True(t, ok)
	assert.Equal(t, OriginLocal, signedIn.Origin)
}

func TestManager_AdminLoginRequestsHardReset(t *testing.T) {
	api := &fakeAuthAPI{loginResp: gateway.LoginResponse{
		Token: "tok-a",
		User:  mapping.UserPayload{ID: "U9", Email: "root@b.c", Roles: []string{"admin"}},
	}}
	m := newTestManager(api, storage.NewMemoryStore(), nil)

	_, nav, err := m.Login(context.Background(), "root@b.c", "pw")
	require.NoError(t, err)
	assert.Equal(t, NavigationRequest{Path: "/admin", HardReset: true}, nav)
}

func TestManager_LoginFailureLeavesNoSession(t *testing.T) {
	ctx := context.Background()
	api := &fakeAuthAPI{loginErr: errors.New("denied")}
	store := storage.NewMemoryStore()
	m := newTestManager(api, store, nil)

	_, _, err := m.Login(ctx, "a@b.c", "pw")
	require.Error(t, err)

	_, ok := m.Current()
	assert.False(t, ok)
	_, found, _ := store.Get(ctx, storage.KeyToken)
	assert.False(t, found)
	assert.Empty(t, m.Token(ctx))
}

func TestManager_LoginRejectsEmptyCredentials(t *testing.T) {
	m := newTestManager(&fakeAuthAPI{}, storage.NewMemoryStore(), nil)
	_, _, err := m.Login(context.Background(), "", "pw")
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestManager_RegisterValidatesInput(t *testing.T) {
	api := &fakeAuthAPI{registerMsg: "check your inbox"}
	m := newTestManager(api, storage.NewMemoryStore(), nil)
	ctx := context.Background()

	tests := []struct {
		name  string
		input RegistrationInput
	}{
		{"bad email", RegistrationInput{Email: "nope", Password: "longenough", FirstName: "A", LastName: "B"}},
		{"short password", RegistrationInput{Email: "a@b.c", Password: "short", FirstName: "A", LastName: "B"}},
		{"missing name", RegistrationInput{Email: "a@b.c", Password: "longenough"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Register(ctx, tt.input)
			assert.Error(t, err)
		})
	}
	assert.Empty(t, api.registered)

	msg, err := m.Register(ctx, RegistrationInput{
		Email: "a@b.c", Password: "longenough", FirstName: "Ada", LastName: "L",
	})
	require.NoError(t, err)
	assert.Equal(t, "check your inbox", msg)
	require.Len(t, api.registered, 1)

	// Registration never signs in.
	_, ok := m.Current()
	assert.False(t, ok)
}

func TestManager_OAuthLoginUsesConfiguredClient(t *testing.T) {
	api := &fakeAuthAPI{loginResp: buyerResponse()}
	m := newTestManager(api, storage.NewMemoryStore(), nil)

	session, _, err := m.OAuthLogin(context.Background(), "code-7")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", session.Token)
	assert.Equal(t, []string{"code-7"}, api.oauthCodes)
}

func TestManager_LogoutClearsStoreAndIsIdempotent(t *testing.T) {
	ctx := context.Background()
	api := &fakeAuthAPI{loginResp: buyerResponse()}
	store := storage.NewMemoryStore()
	bus := &recordingBus{}
	m := newTestManager(api, store, bus)

	_, _, err := m.Login(ctx, "a@b.c", "pw")
	require.NoError(t, err)
	require.NoError(t, m.Logout(ctx))

	_, ok := m.Current()
	assert.False(t, ok)
	_, found, _ := store.Get(ctx, storage.KeyToken)
	assert.False(t, found)
	_, found, _ = store.Get(ctx, storage.KeyUser)
	assert.False(t, found)

	// Second logout changes nothing and publishes nothing new.
	require.NoError(t, m.Logout(ctx))
	events := bus.snapshot()
	require.Len(t, events, 2)
	_, isSignedOut := events[1].(*SignedOutEvent)
	assert.True(t, isSignedOut)
}

func TestManager_RestoreRecoversPersistedSession(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	require.NoError(t, store.SetMulti(ctx, map[string]string{
		storage.KeyToken: "tok-r",
		storage.KeyUser:  `{"id":"U1","email":"a@b.c","roles":["buyer"],"companyId":"none"}`,
	}))

	m := newTestManager(&fakeAuthAPI{}, store, nil)
	require.NoError(t, m.Restore(ctx))

	session, ok := m.Current()
	require.True(t, ok)
	assert.Equal(t, "tok-r", session.Token)
	assert.Equal(t, "U1", session.User.ID)
}

func TestManager_RestoreDiscardsCorruptPair(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	require.NoError(t, store.SetMulti(ctx, map[string]string{
		storage.KeyToken: "tok-r",
		storage.KeyUser:  `{not json`,
	}))

	m := newTestManager(&fakeAuthAPI{}, store, nil)
	require.NoError(t, m.Restore(ctx))

	_, ok := m.Current()
	assert.False(t, ok)
	_, found, _ := store.Get(ctx, storage.KeyToken)
	assert.False(t, found)
}

func TestManager_RefreshRequiresSession(t *testing.T) {
	m := newTestManager(&fakeAuthAPI{}, storage.NewMemoryStore(), nil)
	_, err := m.Refresh(context.Background())
	assert.ErrorIs(t, err, shared.ErrNotSignedIn)
}

func TestManager_RefreshReplacesToken(t *testing.T) {
	ctx := context.Background()
	api := &fakeAuthAPI{loginResp: buyerResponse()}
	api.refreshResp = buyerResponse()
	api.refreshResp.Token = "tok-2"
	m := newTestManager(api, storage.NewMemoryStore(), nil)

	_, _, err := m.Login(ctx, "a@b.c", "pw")
	require.NoError(t, err)

	session, err := m.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-2", session.Token)
	assert.Equal(t, "tok-2", m.Token(ctx))
}

func TestManager_WatchAdoptsExternalSignIn(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := storage.NewMemoryStore()
	bus := &recordingBus{}
	watcher := newTestManager(&fakeAuthAPI{}, store, bus)
	require.NoError(t, watcher.Watch(ctx))

	// Another client instance sharing the store signs in.
	other := newTestManager(&fakeAuthAPI{loginResp: buyerResponse()}, store, nil)
	_, _, err := other.Login(ctx, "a@b.c", "pw")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		_, ok := watcher.Current()
		return ok
	}, time.Second, 5*time.Millisecond)

	session, _ := watcher.Current()
	assert.Equal(t, "tok-1", session.Token)

	events := bus.snapshot()
	require.NotEmpty(t, events)
	signedIn, ok := events[len(events)-1].(*SignedInEvent)
	require.True(t, ok)
	assert.Equal(t, OriginExternal, signedIn.Origin)
}

func TestManager_WatchAdoptsExternalSignOut(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := storage.NewMemoryStore()
	m := newTestManager(&fakeAuthAPI{loginResp: buyerResponse()}, store, nil)
	_, _, err := m.Login(ctx, "a@b.c", "pw")
	require.NoError(t, err)
	require.NoError(t, m.Watch(ctx))

	// Another instance logs out.
	require.NoError(t, store.Delete(ctx, storage.KeyToken, storage.KeyUser))

	require.Eventually(t, func() bool {
		_, ok := m.Current()
		return !ok
	}, time.Second, 5*time.Millisecond)
}

func TestManager_WatchIgnoresOwnWrites(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := storage.NewMemoryStore()
	bus := &recordingBus{}
	m := newTestManager(&fakeAuthAPI{loginResp: buyerResponse()}, store, bus)
	require.NoError(t, m.Watch(ctx))

	_, _, err := m.Login(ctx, "a@b.c", "pw")
	require.NoError(t, err)

	// Give the watch loop time to see the store echo; only the local
	// sign-in event should exist.
	time.Sleep(50 * time.Millisecond)
	for _, event := range bus.snapshot() {
		if signedIn, ok := event.(*SignedInEvent); ok {
			assert.Equal(t, OriginLocal, signedIn.Origin)
		}
	}
}
