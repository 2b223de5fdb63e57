package form

import "context"

// Outcome messages delivered to the Notifier and stored for load failures.
const (
	MsgSaveSucceeded = "User updated successfully"
	MsgSaveFailed    = "Error updating user"
	MsgLoadFailed    = "Failed to load user data"
)

// NotificationKind separates successful from failed saves.
type NotificationKind string

const (
	NotificationSuccess NotificationKind = "success"
	NotificationFailure NotificationKind = "failure"
)

// Notification is the user-visible outcome of a save that passed validation.
type Notification struct {
	Kind    NotificationKind
	Message string
	Err     error
}

// Notifier receives save outcomes.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, n Notification)

// Notify calls f.
func (f NotifierFunc) Notify(ctx context.Context, n Notification) {
	f(ctx, n)
}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, Notification) {}
