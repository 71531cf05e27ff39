package domain

import "time"

// AuthAction identifies the operation an audit event records.
type AuthAction string

const (
	ActionRegister AuthAction = "register"
	ActionLogin    AuthAction = "login"
)

// AuthEvent is one entry in the authentication audit trail. Events carry the
// login email, never the password or its hash.
type AuthEvent struct {
	Kind      Kind       `json:"kind"`
	Action    AuthAction `json:"action"`
	Email     string     `json:"email"`
	Success   bool       `json:"success"`
	Reason    string     `json:"reason,omitempty"`
	Timestamp time.Time  `json:"timestamp"`
}
