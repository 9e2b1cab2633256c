// Package notification delivers user-facing messages from background
// jobs. The current transport is the application log; the Notifier
// interface keeps the scheduler decoupled from whatever replaces it.
package notification

import (
	"context"
	"log"
)

// Notifier sends a message to a user.
type Notifier interface {
	Notify(ctx context.Context, userID uint, subject, body string) error
}

// LogNotifier writes notifications to the application log.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) Notify(ctx context.Context, userID uint, subject, body string) error {
	log.Printf("Notification for user %d: %s - %s", userID, subject, body)
	return nil
}
