// Package reminder dispatches proactive notifications ahead of confirmed
// appointments. Each appointment is notified at most once: a guarded update
// claims the row before anything goes out on the wire.
package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/KevinCFreitas/controle-bot/internal/appointment"
	"github.com/KevinCFreitas/controle-bot/internal/channel"
	"github.com/KevinCFreitas/controle-bot/internal/observability/metrics"
	"github.com/KevinCFreitas/controle-bot/pkg/logging"
	"github.com/google/uuid"
)

// Store is the slice of the appointment store the dispatcher needs.
type Store interface {
	ListDueForReminder(ctx context.Context, from, to time.Time) ([]appointment.Appointment, error)
	MarkReminderSent(ctx context.Context, id uuid.UUID) error
}

// Dispatcher periodically finds appointments entering the reminder window
// and sends one notification per appointment.
type Dispatcher struct {
	store    Store
	sender   channel.Sender
	lead     time.Duration
	interval time.Duration
	now      func() time.Time
	logger   *logging.Logger
	metrics  *metrics.BotMetrics
}

// NewDispatcher creates a reminder dispatcher with the default 2h lead and
// one-minute tick.
func NewDispatcher(store Store, sender channel.Sender, logger *logging.Logger, m *metrics.BotMetrics) *Dispatcher {
	if logger == nil {
		logger = logging.Default()
	}
	return &Dispatcher{
		store:    store,
		sender:   sender,
		lead:     2 * time.Hour,
		interval: time.Minute,
		now:      time.Now,
		logger:   logger,
		metrics:  m,
	}
}

// WithLead overrides how far ahead of the appointment the reminder goes out.
func (d *Dispatcher) WithLead(lead time.Duration) *Dispatcher {
	if lead > 0 {
		d.lead = lead
	}
	return d
}

// WithInterval overrides the tick period.
func (d *Dispatcher) WithInterval(interval time.Duration) *Dispatcher {
	if interval > 0 {
		d.interval = interval
	}
	return d
}

// WithClock overrides the dispatcher's time source.
func (d *Dispatcher) WithClock(now func() time.Time) *Dispatcher {
	if now != nil {
		d.now = now
	}
	return d
}

// Run sweeps immediately and then on every tick until the context ends.
func (d *Dispatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()
	if _, err := d.Sweep(ctx); err != nil {
		d.logger.Error("reminder: sweep failed", "error", err)
	}
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := d.Sweep(ctx); err != nil {
				d.logger.Error("reminder: sweep failed", "error", err)
			}
		}
	}
}

// Sweep processes every appointment due inside (now, now+lead] that has not
// been reminded. Returns the number of reminders sent. A query failure aborts
// the sweep; the rows stay due and the next tick retries them.
func (d *Dispatcher) Sweep(ctx context.Context) (int, error) {
	now := d.now()
	due, err := d.store.ListDueForReminder(ctx, now, now.Add(d.lead))
	if err != nil {
		return 0, fmt.Errorf("reminder: list due: %w", err)
	}
	if len(due) == 0 {
		return 0, nil
	}

	d.logger.Info("reminder: processing due appointments", "count", len(due))

	sent := 0
	for i := range due {
		a := &due[i]

		// Claim before sending. Losing the claim means another sweep (or
		// instance) owns this appointment; sending anyway would duplicate.
		if err := d.store.MarkReminderSent(ctx, a.ID); err != nil {
			d.logger.Warn("reminder: appointment already claimed", "id", a.ID, "error", err)
			d.metrics.ObserveReminder("skipped")
			continue
		}

		if err := d.sender.Send(ctx, channel.Address(a.Phone), Message(a)); err != nil {
			// The claim stands: delivery is at-most-once, not guaranteed.
			d.logger.Error("reminder: send failed", "id", a.ID, "phone", a.Phone, "error", err)
			d.metrics.ObserveReminder("failed")
			continue
		}

		d.logger.Info("reminder: sent",
			"id", a.ID,
			"phone", a.Phone,
			"scheduled_at", a.ScheduledAt.Format(time.RFC3339),
		)
		d.metrics.ObserveReminder("sent")
		sent++
	}
	return sent, nil
}

// Message renders the reminder text for an appointment.
func Message(a *appointment.Appointment) string {
	return fmt.Sprintf(
		"⏰ Olá, *%s*! Passando para lembrar da sua sessão às *%s*.\n\nSe precisar de algo, digite *menu*. Até já! 💙",
		a.Name, a.ScheduledAt.Format("15:04"),
	)
}
