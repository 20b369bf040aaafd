package session

import "context"

// Store keeps sessions keyed by sender identity. Implementations must treat
// a missing key as (nil, nil) rather than an error so the dialogue engine can
// branch on presence.
type Store interface {
	// Get returns the sender's session, or nil when none exists.
	Get(ctx context.Context, sender string) (*Session, error)
	// Put creates or replaces the sender's session.
	Put(ctx context.Context, sender string, s *Session) error
	// Delete removes the sender's session. Deleting a missing session is a no-op.
	Delete(ctx context.Context, sender string) error
	// Clear drops every session. Invoked when the channel reconnects: every
	// in-flight booking is discarded and senders must restart.
	Clear(ctx context.Context) error
}
