package client

// TokenSource supplies the current auth token, if any. The core never
// manages token storage or refresh; it only reads.
type TokenSource interface {
	CurrentAuthToken() (token string, ok bool)
}

// AuthState is the signed-in state of the current user.
type AuthState struct {
	Authenticated bool
	UserID        string
}

// AuthWatcher pushes auth state changes to the core. The core subscribes
// instead of polling the token store on an interval.
type AuthWatcher interface {
	// WatchAuth registers fn for auth changes and returns a cancel
	// function that unregisters it.
	WatchAuth(fn func(AuthState)) (cancel func())
}

// StaticTokenSource is a TokenSource that always returns the same token.
// An empty token reads as signed out.
type StaticTokenSource string

// CurrentAuthToken implements TokenSource.
func (s StaticTokenSource) CurrentAuthToken() (string, bool) {
	return string(s), s != ""
}
