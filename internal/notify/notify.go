package notify

import "context"

// Dispatcher sends outcome mail to candidates. Delivery is best effort: the
// status write it follows is never rolled back on failure.
type Dispatcher interface {
	Send(ctx context.Context, to, subject, bodyHTML string) error
}
