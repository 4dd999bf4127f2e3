package domain

import "time"

// AuthEventKind names an entry of the authentication audit trail.
type AuthEventKind string

const (
	AuthRegistered       AuthEventKind = "registered"
	AuthRegisterRejected AuthEventKind = "register_rejected"
	AuthLoginSucceeded   AuthEventKind = "login_succeeded"
	AuthLoginFailed      AuthEventKind = "login_failed"
	AuthLoggedOut        AuthEventKind = "logout"
)

// AuthEvent records an authentication outcome. Identifier is the email or
// username the caller presented; secrets are never recorded.
type AuthEvent struct {
	Kind       AuthEventKind
	AccountID  int64
	Identifier string
	At         time.Time
}
