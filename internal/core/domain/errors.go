package domain

import "errors"

// Failure classes for remote access-list operations. The wanderer adapter
// wraps these so callers can branch with errors.Is without knowing HTTP.
var (
	// ErrAuth means the API key was rejected. Not retryable; an operator
	// has to rotate the key.
	ErrAuth = errors.New("api key rejected")

	// ErrNotFound means the ACL or member does not exist remotely. Often
	// benign: removing an absent member is already satisfied.
	ErrNotFound = errors.New("not found")

	// ErrOwnerUnknown means Wanderer does not know the character chosen
	// to own a new access list.
	ErrOwnerUnknown = errors.New("owner character unknown to wanderer")

	// ErrTransient covers network failures and retryable status codes
	// that survived the client's bounded retries. Safe to retry on the
	// next pass.
	ErrTransient = errors.New("transient wanderer error")
)
