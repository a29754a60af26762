package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dtroode/portfolio-server/internal/logger"
	"github.com/dtroode/portfolio-server/internal/model"
	"github.com/dtroode/portfolio-server/internal/store"
)

// AlertSink receives user-facing notices about failed mutations.
type AlertSink interface {
	Alert(ctx context.Context, alert model.Alert)
}

// DefaultAlertLimit is how many alerts the feed keeps.
const DefaultAlertLimit = 50

// Alerts keeps the most recent alerts so clients can show them.
type Alerts struct {
	feed   *store.Store[[]model.Alert]
	limit  int
	now    func() time.Time
	logger *logger.Logger
}

// NewAlerts creates an alert feed keeping at most limit entries.
func NewAlerts(limit int, logger *logger.Logger) *Alerts {
	if limit <= 0 {
		limit = DefaultAlertLimit
	}
	return &Alerts{
		feed:   store.New([]model.Alert{}),
		limit:  limit,
		now:    time.Now,
		logger: logger,
	}
}

// Alert records alert, newest last.
func (a *Alerts) Alert(ctx context.Context, alert model.Alert) {
	if alert.CreatedAt.IsZero() {
		alert.CreatedAt = a.now()
	}
	a.logger.Warn("Alert raised",
		"entity", alert.Entity,
		"operation", alert.Operation,
		"key", alert.Key,
		"message", alert.Message)

	_ = a.feed.Mutate(ctx,
		func(cur []model.Alert) ([]model.Alert, error) {
			start := 0
			if len(cur) >= a.limit {
				start = len(cur) - a.limit + 1
			}
			out := make([]model.Alert, 0, len(cur)-start+1)
			out = append(out, cur[start:]...)
			return append(out, alert), nil
		},
		func(context.Context) (func([]model.Alert) []model.Alert, error) { return nil, nil },
	)
}

// Recent returns the kept alerts, oldest first.
func (a *Alerts) Recent() []model.Alert {
	return a.feed.Get()
}

// Subscribe calls fn with the feed after every new alert.
func (a *Alerts) Subscribe(fn func([]model.Alert)) func() {
	return a.feed.Subscribe(fn)
}

// mutationFailed logs a failed operation, raises an alert when the remote side
// failed (every failed get counts) and returns the error wrapped for the caller.
func mutationFailed(ctx context.Context, lg *logger.Logger, alerts AlertSink, entity, op, key string, err error) error {
	var rb *store.RollbackError
	remote := errors.As(err, &rb)
	if !remote && op != "get" {
		lg.Info("Mutation rejected",
			"entity", entity,
			"operation", op,
			"key", key,
			"error", err)
		return fmt.Errorf("failed to %s %s: %w", op, entity, err)
	}

	cause := err
	if remote {
		cause = rb.Err
	}
	lg.Error("Remote operation failed",
		"entity", entity,
		"operation", op,
		"key", key,
		"error", cause)
	alerts.Alert(ctx, model.Alert{
		Entity:    entity,
		Operation: op,
		Key:       key,
		Message:   fmt.Sprintf("Failed to %s %s %q: %v", op, entity, key, cause),
	})
	return fmt.Errorf("failed to %s %s: %w", op, entity, err)
}
