// Package queue defines the login-event payload exchanged over the message
// broker plus the publisher and the background consumer.
package queue

// LoginEvent is published after every successful credential issuance
// (signup, local login, federated login, reissue). It carries enough for
// downstream consumers to audit or trigger analytics without querying the
// primary database.
type LoginEvent struct {
	Email    string `json:"email"`
	Provider string `json:"provider,omitempty"`
	Method   string `json:"method"` // signup | local | google | kakao | reissue
	Points   int    `json:"points"`
	At       string `json:"at"`
}
