package tui

// MsgBanner signals that the banner should be displayed.
type MsgBanner struct{ BaseURL string }

// MsgChecking signals that session bootstrap has started checking for a session.
type MsgChecking struct{}

// MsgSessionActive signals that an access token is already held.
type MsgSessionActive struct{}

// MsgPersistDisabled signals that silent sign-in is turned off.
type MsgPersistDisabled struct{}

// MsgNoSavedSession signals that no refresh credential is stored.
type MsgNoSavedSession struct{}

// MsgRefreshing signals that a token refresh is in progress.
type MsgRefreshing struct{}

// MsgRefreshOK signals that the token was refreshed successfully.
type MsgRefreshOK struct{}

// MsgRefreshFailed signals that token refresh failed.
type MsgRefreshFailed struct{ Err error }

// MsgCredentialSaved signals that the refresh credential was written to disk.
type MsgCredentialSaved struct{}

// MsgCredentialSaveFailed signals that writing the refresh credential failed.
type MsgCredentialSaveFailed struct{ Err error }

// MsgAccessTokenRejected signals that the access token was rejected (401).
type MsgAccessTokenRejected struct{}

// MsgTokenRefreshedRetrying signals that a fresh token is in hand and the request is re-issued.
type MsgTokenRefreshedRetrying struct{}

// MsgSessionExpired signals that the session could not be renewed and was cleared.
type MsgSessionExpired struct{}

// MsgLoggingIn signals that a login request is in flight.
type MsgLoggingIn struct{ Email string }

// MsgLoggedIn signals a successful login.
type MsgLoggedIn struct{ TokenType string }

// MsgLoggedOut signals that the local session was cleared.
type MsgLoggedOut struct{}

// MsgReady signals that session bootstrap finished.
type MsgReady struct{ Authenticated bool }

// MsgWorking signals that a command is waiting on the API.
type MsgWorking struct{ Task string }

// MsgDone signals that the command finished.
type MsgDone struct{ Summary string }

// MsgFatal signals an error that ends the command.
type MsgFatal struct{ Err error }
