package session

import (
	"github.com/shopsphere/client/internal/domain/identity"
	"github.com/shopsphere/client/internal/domain/shared"
)

// Session event types. Origin distinguishes a sign-in performed through this
// manager from one adopted off the shared store (another client instance).
const (
	EventTypeSignedIn  = "session.signed_in"
	EventTypeSignedOut = "session.signed_out"

	OriginLocal    = "local"
	OriginExternal = "external"
)

// SignedInEvent is published when a session is established or replaced.
type SignedInEvent struct {
	shared.BaseDomainEvent
	User   identity.AuthUser `json:"user"`
	Origin string            `json:"origin"`
}

func newSignedInEvent(user identity.AuthUser, origin string) *SignedInEvent {
	return &SignedInEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSignedIn),
		User:            user,
		Origin:          origin,
	}
}

// SignedOutEvent is published when the session ends.
type SignedOutEvent struct {
	shared.BaseDomainEvent
	Origin string `json:"origin"`
}

func newSignedOutEvent(origin string) *SignedOutEvent {
	return &SignedOutEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSignedOut),
		Origin:          origin,
	}
}

// NavigationRequest tells the embedding UI where to go after an auth
// transition. HardReset means the whole application must be reloaded rather
// than routed in place; it is set when an admin signs in, so the admin shell
// starts from a clean slate.
type NavigationRequest struct {
	Path      string
	HardReset bool
}

func navigationFor(user identity.AuthUser) NavigationRequest {
	if user.IsAdmin() {
		return NavigationRequest{Path: "/admin", HardReset: true}
	}
	return NavigationRequest{Path: "/"}
}
