package notify

import "context"

// Sender delivers a push notification to a device token. Callers treat sends
// as fire-and-forget: failures are logged, never propagated to the user.
type Sender interface {
	Send(ctx context.Context, token, title, body string) error
}
