package service

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// IdleSessionStorage is the part of the session storage the janitor needs.
type IdleSessionStorage interface {
	DeleteIdle(olderThan time.Time) int
	Len() int
}

// SessionJanitor periodically evicts sessions that have been idle too long.
type SessionJanitor struct {
	sessions IdleSessionStorage
	idleTTL  time.Duration
	spec     string
	logger   *zap.Logger
	now      func() time.Time
}

// NewSessionJanitor creates a janitor that runs on the cron spec and removes
// sessions idle for longer than idleTTL.
func NewSessionJanitor(sessions IdleSessionStorage, idleTTL time.Duration, spec string, logger *zap.Logger) *SessionJanitor {
	return &SessionJanitor{
		sessions: sessions,
		idleTTL:  idleTTL,
		spec:     spec,
		logger:   logger,
		now:      time.Now,
	}
}

// Start runs the cleanup schedule until ctx is done.
func (j *SessionJanitor) Start(ctx context.Context) error {
	c := cron.New(cron.WithLocation(time.UTC))

	_, err := c.AddFunc(j.spec, func() {
		j.Sweep()
	})
	if err != nil {
		j.logger.Error("failed to add cron job", zap.String("spec", j.spec), zap.Error(err))
		return err
	}

	c.Start()
	j.logger.Info("session janitor started", zap.String("spec", j.spec), zap.Duration("idle_ttl", j.idleTTL))

	<-ctx.Done()

	<-c.Stop().Done()
	j.logger.Info("session janitor stopped")

	return nil
}

// Sweep removes idle sessions once and returns how many were removed.
func (j *SessionJanitor) Sweep() int {
	removed := j.sessions.DeleteIdle(j.now().Add(-j.idleTTL))
	if removed > 0 {
		j.logger.Info("evicted idle sessions",
			zap.Int("count", removed),
			zap.Int("active", j.sessions.Len()),
		)
	}
	return removed
}
