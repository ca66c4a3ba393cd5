// Package audit receives denial notifications from the service layer.
package audit

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/diewo77/epic-crm/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Denial describes a refused operation on a contract or event.
type Denial struct {
	UserID     uint
	Role       models.Role
	EntityType string // "contract" or "event"
	EntityID   uint   // 0 for create and list
	Operation  string // e.g. "create", "detail", "update", "destroy"
	Reason     string
	RequestID  string
	At         time.Time
}

// Name is the "entity.operation" label used in logs and reports.
func (d Denial) Name() string {
	return d.EntityType + "." + d.Operation
}

// Sink is notified of every denial. Implementations must not block for long;
// a failing sink never turns a denial into a different outcome.
type Sink interface {
	Denied(ctx context.Context, d Denial) error
}

// Nop discards denials.
type Nop struct{}

func (Nop) Denied(context.Context, Denial) error { return nil }

// LogSink writes denials to the standard logger.
type LogSink struct{}

func (LogSink) Denied(_ context.Context, d Denial) error {
	log.Printf("audit: denied %s user=%d role=%s entity=%d request=%s: %s",
		d.Name(), d.UserID, d.Role, d.EntityID, d.RequestID, d.Reason)
	return nil
}

// DBSink appends denials to the audit_logs table.
type DBSink struct {
	DB *gorm.DB
}

// NewDBSink creates a sink writing through db.
func NewDBSink(db *gorm.DB) *DBSink {
	return &DBSink{DB: db}
}

func (s *DBSink) Denied(ctx context.Context, d Denial) error {
	correlation := d.RequestID
	if correlation == "" {
		correlation = uuid.NewString()
	}
	entry := models.AuditLog{
		UserID:        d.UserID,
		Role:          string(d.Role),
		EntityType:    d.EntityType,
		EntityID:      d.EntityID,
		Action:        models.AuditDenied,
		Operation:     d.Name(),
		Reason:        truncate(d.Reason, 255),
		CorrelationID: correlation,
	}
	if !d.At.IsZero() {
		entry.CreatedAt = d.At
	}
	if err := s.DB.WithContext(ctx).Create(&entry).Error; err != nil {
		return fmt.Errorf("write audit log: %w", err)
	}
	return nil
}

// Multi fans a denial out to several sinks and joins their errors.
type Multi []Sink

func (m Multi) Denied(ctx context.Context, d Denial) error {
	var errs []error
	for _, s := range m {
		if s == nil {
			continue
		}
		if err := s.Denied(ctx, d); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Notify sends d to sink and logs delivery failures.
func Notify(ctx context.Context, sink Sink, d Denial) {
	if sink == nil {
		return
	}
	if d.At.IsZero() {
		d.At = time.Now().UTC()
	}
	if err := sink.Denied(ctx, d); err != nil {
		log.Printf("audit: %s: %v", d.Name(), err)
	}
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// Setup builds the sink used by the server and the CLI: the log, the
// audit_logs table and, when dsn is set, Sentry. flush must be called before
// exiting.
func Setup(db *gorm.DB, dsn, environment string) (sink Sink, flush func(), err error) {
	sinks := Multi{LogSink{}, NewDBSink(db)}
	flush = func() {}
	if dsn != "" {
		s, err := NewSentrySink(dsn, environment)
		if err != nil {
			return nil, nil, err
		}
		sinks = append(sinks, s)
		flush = func() { s.Flush(2 * time.Second) }
	}
	return sinks, flush, nil
}
