package audit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/getsentry/sentry-go"
)

// SentrySink reports denials as Sentry messages with a warning level.
type SentrySink struct {
	hub *sentry.Hub
}

// NewSentrySink creates a sink with its own client, so it does not touch the
// global hub.
func NewSentrySink(dsn, environment string) (*SentrySink, error) {
	client, err := sentry.NewClient(sentry.ClientOptions{
		Dsn:         dsn,
		Environment: environment,
	})
	if err != nil {
		return nil, fmt.Errorf("sentry client: %w", err)
	}
	return &SentrySink{hub: sentry.NewHub(client, sentry.NewScope())}, nil
}

func (s *SentrySink) Denied(_ context.Context, d Denial) error {
	hub := s.hub.Clone()
	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetLevel(sentry.LevelWarning)
		scope.SetTag("entity", d.EntityType)
		scope.SetTag("operation", d.Name())
		scope.SetTag("role", string(d.Role))
		if d.RequestID != "" {
			scope.SetTag("request_id", d.RequestID)
		}
		scope.SetUser(sentry.User{ID: strconv.FormatUint(uint64(d.UserID), 10)})
		scope.SetContext("denial", sentry.Context{
			"entity_id": d.EntityID,
			"reason":    d.Reason,
		})
		hub.CaptureMessage("permission denied: " + d.Name())
	})
	return nil
}

// Flush waits for buffered events to be sent.
func (s *SentrySink) Flush(timeout time.Duration) bool {
	return s.hub.Flush(timeout)
}
