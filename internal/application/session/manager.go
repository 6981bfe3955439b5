// Package session owns the authentication state of the client: sign-in,
// sign-out, persistence of the token/user pair, and adoption of session
// changes made by other client instances sharing the same store.
package session

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/shopsphere/client/internal/domain/identity"
	"github.com/shopsphere/client/internal/domain/shared"
	"github.com/shopsphere/client/internal/infrastructure/gateway"
	"github.com/shopsphere/client/internal/infrastructure/storage"
)

// API is the slice of the gateway the manager needs.
type API interface {
	Register(ctx context.Context, req gateway.RegisterRequest) (string, error)
	Login(ctx context.Context, req gateway.LoginRequest) (gateway.LoginResponse, error)
	RefreshToken(ctx context.Context) (gateway.LoginResponse, error)
	OAuthExchange(ctx context.Context, req gateway.OAuthExchangeRequest) (gateway.LoginResponse, error)
}

// UserMapper converts the raw wire user into the canonical AuthUser. It is a
// parameter so the manager does not import the mapping layer directly.
type UserMapper func(gateway.LoginResponse) (identity.AuthUser, error)

// RegistrationInput is the validated registration form.
type RegistrationInput struct {
	Email     string `validate:"required,email"`
	Password  string `validate:"required,min=8"`
	FirstName string `validate:"required"`
	LastName  string `validate:"required"`
}

// Manager holds the current session and keeps it in lockstep with the store.
// The token and user are always written and cleared together, so the store
// never holds a token without its user or vice versa.
type Manager struct {
	api           API
	store         storage.Store
	bus           shared.EventPublisher
	mapUser       UserMapper
	validate      *validator.Validate
	oauthClientID string
	logger        *zap.Logger

	mu      sync.RWMutex
	current *identity.Session
	// Raw stored values of the last write this manager made or adopted. The
	// watch loop compares against them so a store echo of our own write is
	// not re-adopted as an external change.
	lastToken   string
	lastUserRaw string
}

var _ gateway.TokenSource = (*Manager)(nil)

// NewManager creates a session manager. bus may be nil.
func NewManager(api API, store storage.Store, bus shared.EventPublisher, mapUser UserMapper, oauthClientID string, logger *zap.Logger) *Manager {
	return &Manager{
		api:           api,
		store:         store,
		bus:           bus,
		mapUser:       mapUser,
		validate:      validator.New(),
		oauthClientID: oauthClientID,
		logger:        logger,
	}
}

// SetAPI installs the gateway after construction. The manager and the
// gateway reference each other (the gateway pulls its bearer token from the
// manager), so one side is wired late.
func (m *Manager) SetAPI(api API) {
	m.api = api
}

// Restore loads a persisted session, if any. A half-written or corrupt pair
// is discarded rather than restored.
func (m *Manager) Restore(ctx context.Context) error {
	token, tokenOK, err := m.store.Get(ctx, storage.KeyToken)
	if err != nil {
		return err
	}
	userRaw, userOK, err := m.store.Get(ctx, storage.KeyUser)
	if err != nil {
		return err
	}
	if !tokenOK || !userOK {
		return nil
	}

	var user identity.AuthUser
	if err := json.Unmarshal([]byte(userRaw), &user); err != nil {
		if m.logger != nil {
			m.logger.Warn("discarding corrupt persisted session", zap.Error(err))
		}
		return m.store.Delete(ctx, storage.KeyToken, storage.KeyUser)
	}

	m.mu.Lock()
	m.current = &identity.Session{Token: token, User: user}
	m.lastToken = token
	m.lastUserRaw = userRaw
	m.mu.Unlock()
	return nil
}

// Current returns the active session, if any.
func (m *Manager) Current() (identity.Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return identity.Session{}, false
	}
	return *m.current, true
}

// Token implements gateway.TokenSource. An empty string means no session.
func (m *Manager) Token(context.Context) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return ""
	}
	return m.current.Token
}

// ExpiresAt reports the expiry claim of the current token. The claim is read
// without signature verification; only the server can vouch for the token,
// this is a hint for scheduling a refresh.
func (m *Manager) ExpiresAt() (time.Time, bool) {
	m.mu.RLock()
	token := ""
	if m.current != nil {
		token = m.current.Token
	}
	m.mu.RUnlock()
	if token == "" {
		return time.Time{}, false
	}

	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// Register submits a registration and returns the server acknowledgement.
// Registration never establishes a session; the caller signs in afterwards.
func (m *Manager) Register(ctx context.Context, input RegistrationInput) (string, error) {
	if err := m.validate.Struct(input); err != nil {
		return "", err
	}
	return m.api.Register(ctx, gateway.RegisterRequest{
		Email:     input.Email,
		Password:  input.Password,
		FirstName: input.FirstName,
		LastName:  input.LastName,
	})
}

// Login signs in with credentials. On success the session is persisted and
// the returned NavigationRequest tells the UI where to land.
func (m *Manager) Login(ctx context.Context, email, password string) (identity.Session, NavigationRequest, error) {
	if email == "" || password == "" {
		return identity.Session{}, NavigationRequest{}, shared.ErrInvalidInput
	}
	resp, err := m.api.Login(ctx, gateway.LoginRequest{Email: email, Password: password})
	if err != nil {
		return identity.Session{}, NavigationRequest{}, err
	}
	return m.adopt(ctx, resp)
}

// OAuthLogin signs in by exchanging an identity-provider code.
func (m *Manager) OAuthLogin(ctx context.Context, code string) (identity.Session, NavigationRequest, error) {
	if code == "" {
		return identity.Session{}, NavigationRequest{}, shared.ErrInvalidInput
	}
	resp, err := m.api.OAuthExchange(ctx, gateway.OAuthExchangeRequest{Code: code, ClientID: m.oauthClientID})
	if err != nil {
		return identity.Session{}, NavigationRequest{}, err
	}
	return m.adopt(ctx, resp)
}

// Refresh renews the current session in place.
func (m *Manager) Refresh(ctx context.Context) (identity.Session, error) {
	if _, ok := m.Current(); !ok {
		return identity.Session{}, shared.ErrNotSignedIn
	}
	resp, err := m.api.RefreshToken(ctx)
	if err != nil {
		return identity.Session{}, err
	}
	session, _, err := m.adopt(ctx, resp)
	return session, err
}

// Logout ends the session. It is purely local: the persisted pair is removed
// and the in-memory session cleared. Logging out while signed out is a no-op.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	wasSignedIn := m.current != nil
	m.current = nil
	m.lastToken = ""
	m.lastUserRaw = ""
	m.mu.Unlock()

	if err := m.store.Delete(ctx, storage.KeyToken, storage.KeyUser); err != nil {
		return err
	}
	if wasSignedIn {
		m.publish(ctx, newSignedOutEvent(OriginLocal))
	}
	return nil
}

// adopt maps, persists and installs a login response. The token and user are
// written in one atomic step.
func (m *Manager) adopt(ctx context.Context, resp gateway.LoginResponse) (identity.Session, NavigationRequest, error) {
	user, err := m.mapUser(resp)
	if err != nil {
		return identity.Session{}, NavigationRequest{}, err
	}

	userRaw, err := json.Marshal(user)
	if err != nil {
		return identity.Session{}, NavigationRequest{}, err
	}
	if err := m.store.SetMulti(ctx, map[string]string{
		storage.KeyToken: resp.Token,
		storage.KeyUser:  string(userRaw),
	}); err != nil {
		return identity.Session{}, NavigationRequest{}, err
	}

	session := identity.Session{Token: resp.Token, User: user}
	m.mu.Lock()
	m.current = &session
	m.lastToken = resp.Token
	m.lastUserRaw = string(userRaw)
	m.mu.Unlock()

	m.publish(ctx, newSignedInEvent(user, OriginLocal))
	return session, navigationFor(user), nil
}

// Watch follows the store's change feed and adopts session changes made by
// other client instances. It returns once the watch is established; the loop
// runs until ctx is cancelled or the store closes the feed.
func (m *Manager) Watch(ctx context.Context) error {
	changes, err := m.store.Watch(ctx)
	if err != nil {
		return err
	}
	go func() {
		for change := range changes {
			if change.Key != storage.KeyToken && change.Key != storage.KeyUser {
				continue
			}
			m.reconcile(ctx)
		}
	}()
	return nil
}

// reconcile re-reads the persisted pair and aligns the in-memory session with
// it. Echoes of this manager's own writes are filtered by comparing the raw
// stored values against the last write made here.
func (m *Manager) reconcile(ctx context.Context) {
	token, tokenOK, err := m.store.Get(ctx, storage.KeyToken)
	if err != nil {
		if m.logger != nil {
			m.logger.Warn("session reconcile read failed", zap.Error(err))
		}
		return
	}
	userRaw, userOK, err := m.store.Get(ctx, storage.KeyUser)
	if err != nil {
		if m.logger != nil {
			m.logger.Warn("session reconcile read failed", zap.Error(err))
		}
		return
	}

	if !tokenOK || !userOK {
		// The pair is gone (or half-gone mid-delete): treat as signed out.
		m.mu.Lock()
		wasSignedIn := m.current != nil
		m.current = nil
		m.lastToken = ""
		m.lastUserRaw = ""
		m.mu.Unlock()
		if wasSignedIn {
			m.publish(ctx, newSignedOutEvent(OriginExternal))
		}
		return
	}

	m.mu.Lock()
	if token == m.lastToken && userRaw == m.lastUserRaw {
		m.mu.Unlock()
		return
	}
	var user identity.AuthUser
	if err := json.Unmarshal([]byte(userRaw), &user); err != nil {
		m.mu.Unlock()
		if m.logger != nil {
			m.logger.Warn("ignoring corrupt external session", zap.Error(err))
		}
		return
	}
	m.current = &identity.Session{Token: token, User: user}
	m.lastToken = token
	m.lastUserRaw = userRaw
	m.mu.Unlock()

	m.publish(ctx, newSignedInEvent(user, OriginExternal))
}

func (m *Manager) publish(ctx context.Context, event shared.DomainEvent) {
	if m.bus == nil {
		return
	}
	if err := m.bus.Publish(ctx, event); err != nil && m.logger != nil {
		m.logger.Warn("failed to publish session event", zap.Error(err))
	}
}
