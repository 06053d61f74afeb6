package tui

import (
	"fmt"
	"io"

	tea "charm.land/bubbletea/v2"
)

// Displayer abstracts all progress output from the session and commands.
type Displayer interface {
	Banner(baseURL string)
	Checking()
	SessionActive()
	PersistDisabled()
	NoSavedSession()
	Refreshing()
	RefreshOK()
	RefreshFailed(err error)
	CredentialSaved()
	CredentialSaveFailed(err error)
	AccessTokenRejected()
	TokenRefreshedRetrying()
	SessionExpired()
	LoggingIn(email string)
	LoggedIn(tokenType string)
	LoggedOut()
	Ready(authenticated bool)
	Working(task string)
	Done(summary string)
	Fatal(err error)
}

// PlainDisplayer writes plain text progress to w.
// Used when stderr is not a TTY (pipes, CI, SSH without pty).
type PlainDisplayer struct {
	w io.Writer
}

// NewPlainDisplayer creates a PlainDisplayer that writes to w.
func NewPlainDisplayer(w io.Writer) *PlainDisplayer {
	return &PlainDisplayer{w: w}
}

func (p *PlainDisplayer) Banner(baseURL string) {
	fmt.Fprintf(p.w, "=== rentdesk (%s) ===\n", baseURL)
}

func (p *PlainDisplayer) Checking() {
	fmt.Fprintln(p.w, "Checking for a saved session...")
}

func (p *PlainDisplayer) SessionActive() {
	fmt.Fprintln(p.w, "Session already active")
}

func (p *PlainDisplayer) PersistDisabled() {
	fmt.Fprintln(p.w, "Silent sign-in is off, skipping refresh")
}

func (p *PlainDisplayer) NoSavedSession() {
	fmt.Fprintln(p.w, "No saved session found")
}

func (p *PlainDisplayer) Refreshing() {
	fmt.Fprintln(p.w, "Refreshing access token...")
}

func (p *PlainDisplayer) RefreshOK() {
	fmt.Fprintln(p.w, "Token refreshed successfully")
}

func (p *PlainDisplayer) RefreshFailed(err error) {
	fmt.Fprintf(p.w, "Refresh failed: %v\n", err)
}

func (p *PlainDisplayer) CredentialSaved() {
	fmt.Fprintln(p.w, "Refresh credential saved")
}

func (p *PlainDisplayer) CredentialSaveFailed(err error) {
	fmt.Fprintf(p.w, "Warning: failed to save refresh credential: %v\n", err)
}

func (p *PlainDisplayer) AccessTokenRejected() {
	fmt.Fprintln(p.w, "Access token rejected (401), refreshing...")
}

func (p *PlainDisplayer) TokenRefreshedRetrying() {
	fmt.Fprintln(p.w, "Token refreshed, retrying request...")
}

func (p *PlainDisplayer) SessionExpired() {
	fmt.Fprintln(p.w, "Session expired, please log in again")
}

func (p *PlainDisplayer) LoggingIn(email string) {
	fmt.Fprintf(p.w, "Logging in as %s...\n", email)
}

func (p *PlainDisplayer) LoggedIn(tokenType string) {
	fmt.Fprintf(p.w, "Logged in (%s token)\n", tokenType)
}

func (p *PlainDisplayer) LoggedOut() {
	fmt.Fprintln(p.w, "Logged out")
}

func (p *PlainDisplayer) Ready(authenticated bool) {
	if authenticated {
		fmt.Fprintln(p.w, "Session ready")
		return
	}
	fmt.Fprintln(p.w, "Not logged in")
}

func (p *PlainDisplayer) Working(task string) {
	fmt.Fprintln(p.w, task+"...")
}

func (p *PlainDisplayer) Done(summary string) {
	if summary != "" {
		fmt.Fprintln(p.w, summary)
	}
}

func (p *PlainDisplayer) Fatal(err error) {
	fmt.Fprintf(p.w, "Error: %v\n", err)
}

// NoopDisplayer discards all output. Used in tests.
type NoopDisplayer struct{}

func (NoopDisplayer) Banner(_ string)              {}
func (NoopDisplayer) Checking()                    {}
func (NoopDisplayer) SessionActive()               {}
func (NoopDisplayer) PersistDisabled()             {}
func (NoopDisplayer) NoSavedSession()              {}
func (NoopDisplayer) Refreshing()                  {}
func (NoopDisplayer) RefreshOK()                   {}
func (NoopDisplayer) RefreshFailed(_ error)        {}
func (NoopDisplayer) CredentialSaved()             {}
func (NoopDisplayer) CredentialSaveFailed(_ error) {}
func (NoopDisplayer) AccessTokenRejected()         {}
func (NoopDisplayer) TokenRefreshedRetrying()      {}
func (NoopDisplayer) SessionExpired()              {}
func (NoopDisplayer) LoggingIn(_ string)           {}
func (NoopDisplayer) LoggedIn(_ string)            {}
func (NoopDisplayer) LoggedOut()                   {}
func (NoopDisplayer) Ready(_ bool)                 {}
func (NoopDisplayer) Working(_ string)             {}
func (NoopDisplayer) Done(_ string)                {}
func (NoopDisplayer) Fatal(_ error)                {}

// ProgramDisplayer sends BubbleTea messages to a running tea.Program.
type ProgramDisplayer struct {
	p *tea.Program
}

// NewProgramDisplayer creates a ProgramDisplayer that sends messages to p.
func NewProgramDisplayer(p *tea.Program) *ProgramDisplayer {
	return &ProgramDisplayer{p: p}
}

func (t *ProgramDisplayer) Banner(baseURL string) {
	t.p.Send(MsgBanner{BaseURL: baseURL})
}

func (t *ProgramDisplayer) Checking() {
	t.p.Send(MsgChecking{})
}

func (t *ProgramDisplayer) SessionActive() {
	t.p.Send(MsgSessionActive{})
}

func (t *ProgramDisplayer) PersistDisabled() {
	t.p.Send(MsgPersistDisabled{})
}

func (t *ProgramDisplayer) NoSavedSession() {
	t.p.Send(MsgNoSavedSession{})
}

func (t *ProgramDisplayer) Refreshing() {
	t.p.Send(MsgRefreshing{})
}

func (t *ProgramDisplayer) RefreshOK() {
	t.p.Send(MsgRefreshOK{})
}

func (t *ProgramDisplayer) RefreshFailed(err error) {
	t.p.Send(MsgRefreshFailed{Err: err})
}

func (t *ProgramDisplayer) CredentialSaved() {
	t.p.Send(MsgCredentialSaved{})
}

func (t *ProgramDisplayer) CredentialSaveFailed(err error) {
	t.p.Send(MsgCredentialSaveFailed{Err: err})
}

func (t *ProgramDisplayer) AccessTokenRejected() {
	t.p.Send(MsgAccessTokenRejected{})
}

func (t *ProgramDisplayer) TokenRefreshedRetrying() {
	t.p.Send(MsgTokenRefreshedRetrying{})
}

func (t *ProgramDisplayer) SessionExpired() {
	t.p.Send(MsgSessionExpired{})
}

func (t *ProgramDisplayer) LoggingIn(email string) {
	t.p.Send(MsgLoggingIn{Email: email})
}

func (t *ProgramDisplayer) LoggedIn(tokenType string) {
	t.p.Send(MsgLoggedIn{TokenType: tokenType})
}

func (t *ProgramDisplayer) LoggedOut() {
	t.p.Send(MsgLoggedOut{})
}

func (t *ProgramDisplayer) Ready(authenticated bool) {
	t.p.Send(MsgReady{Authenticated: authenticated})
}

func (t *ProgramDisplayer) Working(task string) {
	t.p.Send(MsgWorking{Task: task})
}

func (t *ProgramDisplayer) Done(summary string) {
	t.p.Send(MsgDone{Summary: summary})
}

func (t *ProgramDisplayer) Fatal(err error) {
	t.p.Send(MsgFatal{Err: err})
}
