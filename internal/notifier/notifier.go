package notifier

import (
	"context"
	"log"
)

type Kind string

const (
	KindWelcome              Kind = "welcome"
	KindApplicationSubmitted Kind = "application-submitted"
	KindApplicationReceived  Kind = "application-received"
	KindJobApproved          Kind = "job-approved"
	KindJobRejected          Kind = "job-rejected"
)

// Data carries the template fields. Kinds use the subset they need.
type Data struct {
	FirstName     string
	JobTitle      string
	Company       string
	ApplicantName string
	Reason        string
}

// Notifier delivers a single message best-effort. Callers invoke it
// only after their transaction has committed and must treat a returned
// error as log-worthy, never as grounds for a rollback or retry.
type Notifier interface {
	Notify(ctx context.Context, recipient string, kind Kind, data Data) error
}

// LogNotifier is the fallback when mail delivery is not configured: it
// records the would-be message and succeeds.
type LogNotifier struct {
	logger *log.Logger
}

func NewLogNotifier(logger *log.Logger) *LogNotifier {
	if logger == nil {
		logger = log.Default()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(_ context.Context, recipient string, kind Kind, data Data) error {
	msg, err := Render(kind, data)
	if err != nil {
		return err
	}
	n.logger.Printf("[Notifier] mail disabled, dropping %s to %s: %q", kind, recipient, msg.Subject)
	return nil
}
