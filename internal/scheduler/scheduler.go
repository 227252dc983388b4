// Copyright (c) 2025-2026 SPACE Exhibitions
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs periodic maintenance: the nightly audit-event
// purge and the expired-session sweep.
package scheduler

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/space-exhibitions/spacecms/internal/store"
)

// Scheduler owns the cron runner and the maintenance jobs.
type Scheduler struct {
	db             *sql.DB
	cron           *cron.Cron
	logger         *slog.Logger
	eventRetention time.Duration
}

// New creates a scheduler. eventRetention is how long audit events are
// kept.
func New(db *sql.DB, logger *slog.Logger, eventRetention time.Duration) *Scheduler {
	return &Scheduler{
		db:             db,
		cron:           cron.New(),
		logger:         logger,
		eventRetention: eventRetention,
	}
}

// Start registers the maintenance jobs and starts the cron runner. Both
// jobs run nightly at 03:10 server time, off the traffic peak.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc("10 3 * * *", s.runMaintenance)
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) runMaintenance() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	s.PurgeEvents(ctx)
	s.SweepSessions(ctx)
}

// PurgeEvents removes audit events older than the retention window.
func (s *Scheduler) PurgeEvents(ctx context.Context) {
	queries := store.New(s.db)
	cutoff := time.Now().UTC().Add(-s.eventRetention)

	n, err := queries.PurgeEventsBefore(ctx, cutoff)
	if err != nil {
		s.logger.Error("purging audit events failed", "error", err)
		return
	}
	if n > 0 {
		s.logger.Info("purged audit events", "count", n, "cutoff", cutoff)
	}
}

// SweepSessions removes expired session rows. scs lazily deletes sessions
// it touches; this catches the ones nobody comes back for.
func (s *Scheduler) SweepSessions(ctx context.Context) {
	queries := store.New(s.db)

	n, err := queries.PurgeExpiredSessions(ctx)
	if err != nil {
		s.logger.Error("sweeping expired sessions failed", "error", err)
		return
	}
	if n > 0 {
		s.logger.Info("swept expired sessions", "count", n)
	}
}
