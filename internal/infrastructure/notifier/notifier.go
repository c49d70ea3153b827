package notifier

import (
	"context"
	"errors"
)

// Notification is a message shown to a user on a monitored host.
type Notification struct {
	Username string `json:"username"`
	Hostname string `json:"hostname,omitempty"`
	Title    string `json:"title"`
	Text     string `json:"text"`
	Locale   string `json:"locale,omitempty"`
	// Urgent marks a forced logout rather than a warning.
	Urgent bool `json:"urgent"`
}

type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// MultiNotifier delivers to every notifier and joins their errors.
type MultiNotifier []Notifier

func (m MultiNotifier) Notify(ctx context.Context, n Notification) error {
	var errs []error
	for _, notifier := range m {
		if err := notifier.Notify(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
