// Package dialogue implements the per-sender booking state machine. Given a
// raw inbound text it produces the reply and, on confirmation, the single
// appointment insert. All other state lives in the injected session store.
package dialogue

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/KevinCFreitas/controle-bot/internal/appointment"
	"github.com/KevinCFreitas/controle-bot/internal/observability/metrics"
	"github.com/KevinCFreitas/controle-bot/internal/session"
	"github.com/KevinCFreitas/controle-bot/pkg/logging"
)

// Inserter persists a confirmed appointment. Satisfied by *appointment.Store.
type Inserter interface {
	Create(ctx context.Context, a *appointment.Appointment) error
}

// greetings trigger the booking flow via substring containment, same as the
// menu keywords of the original bot. Containment can fire on words that
// embed a greeting ("Nicola" contains "ola"); that looseness is intentional.
var greetings = []string{"oi", "olá", "ola", "bom dia", "boa tarde", "boa noite"}

// Engine walks each sender through the booking dialogue.
type Engine struct {
	sessions     session.Store
	appointments Inserter
	links        FormLinks
	logger       *logging.Logger
	metrics      *metrics.BotMetrics
	now          func() time.Time
}

// NewEngine creates a dialogue engine.
func NewEngine(sessions session.Store, appointments Inserter, links FormLinks, logger *logging.Logger, m *metrics.BotMetrics) *Engine {
	if sessions == nil {
		panic("dialogue: session store cannot be nil")
	}
	if appointments == nil {
		panic("dialogue: appointment inserter cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Engine{
		sessions:     sessions,
		appointments: appointments,
		links:        links,
		logger:       logger,
		metrics:      m,
		now:          time.Now,
	}
}

// WithClock overrides the engine's time source.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	if now != nil {
		e.now = now
	}
	return e
}

// HandleMessage processes one inbound text and returns the reply. Validation
// failures never surface as errors: they re-prompt the current step. An error
// return means the session store or an intercept itself failed; the caller
// logs it and the sender sees nothing worse than a generic retry hint.
func (e *Engine) HandleMessage(ctx context.Context, sender, body string) (string, error) {
	body = strings.TrimSpace(body)
	lower := strings.ToLower(body)

	// Global intercepts win over any step-specific validation.
	if lower == "menu" {
		e.metrics.ObserveInbound("menu")
		return menuText(), nil
	}
	if lower == "cancelar" {
		if err := e.sessions.Delete(ctx, sender); err != nil {
			return "", fmt.Errorf("dialogue: cancel: %w", err)
		}
		e.metrics.ObserveInbound("cancelled")
		return cancelledText(), nil
	}

	sess, err := e.sessions.Get(ctx, sender)
	if err != nil {
		return "", fmt.Errorf("dialogue: load session: %w", err)
	}

	// Form shortcuts only apply outside an active booking; inside the flow
	// "1" and "2" are step answers (shift selection), not shortcuts.
	if sess == nil {
		if lower == "1" || strings.Contains(lower, "paciente") {
			e.metrics.ObserveInbound("form_patient")
			return patientFormText(e.links.Patient), nil
		}
		if lower == "2" || strings.Contains(lower, "psicólogo") || strings.Contains(lower, "psicologo") {
			e.metrics.ObserveInbound("form_psychologist")
			return psychologistFormText(e.links.Psychologist), nil
		}
	}

	// Booking intent resets the dialogue from any state, discarding drafts.
	if isBookingIntent(lower) {
		if err := e.sessions.Put(ctx, sender, session.New()); err != nil {
			return "", fmt.Errorf("dialogue: start session: %w", err)
		}
		e.metrics.ObserveInbound("intent")
		return askNameText(), nil
	}

	if sess == nil {
		// Direct single-line command bypasses the step machine.
		if strings.Contains(body, "|") {
			return e.handleDirect(ctx, sender, body)
		}
		e.metrics.ObserveInbound("idle")
		return menuText(), nil
	}

	return e.handleStep(ctx, sender, sess, body, lower)
}

func isBookingIntent(lower string) bool {
	if lower == "agendar" {
		return true
	}
	for _, g := range greetings {
		if strings.Contains(lower, g) {
			return true
		}
	}
	return false
}

func (e *Engine) handleStep(ctx context.Context, sender string, sess *session.Session, body, lower string) (string, error) {
	switch sess.State {
	case session.StateName:
		name, err := validateName(body)
		if err != nil {
			e.metrics.ObserveInbound("retry")
			return retryNameText(), nil
		}
		sess.Draft.Name = name
		return e.advance(ctx, sender, sess, session.StatePhone, askPhoneText(name))

	case session.StatePhone:
		phone, err := validatePhone(body)
		if err != nil {
			e.metrics.ObserveInbound("retry")
			return retryPhoneText(), nil
		}
		sess.Draft.Phone = phone
		return e.advance(ctx, sender, sess, session.StateShift, shiftMenuText())

	case session.StateShift:
		shift, ok := ParseShift(lower)
		if !ok {
			e.metrics.ObserveInbound("retry")
			return retryShiftText(), nil
		}
		sess.Draft.Shift = shift
		return e.advance(ctx, sender, sess, session.StateTime, slotListText(shift))

	case session.StateTime:
		if !ValidSlot(sess.Draft.Shift, body) {
			e.metrics.ObserveInbound("retry")
			return retrySlotText(sess.Draft.Shift), nil
		}
		sess.Draft.TimeSlot = body
		return e.advance(ctx, sender, sess, session.StateConfirm, summaryText(sess.Draft))

	case session.StateConfirm:
		if lower != "confirmar" {
			e.metrics.ObserveInbound("retry")
			return retryConfirmText(), nil
		}
		return e.confirm(ctx, sender, sess)

	default:
		// Unknown state means a stale or corrupted session; drop it so the
		// sender can restart cleanly.
		e.logger.Warn("dialogue: unknown session state", "sender", sender, "state", sess.State)
		if err := e.sessions.Delete(ctx, sender); err != nil {
			return "", fmt.Errorf("dialogue: reset session: %w", err)
		}
		e.metrics.ObserveInbound("fallback")
		return fallbackText(), nil
	}
}

func (e *Engine) advance(ctx context.Context, sender string, sess *session.Session, next session.State, reply string) (string, error) {
	sess.State = next
	sess.UpdatedAt = e.now().UTC()
	if err := e.sessions.Put(ctx, sender, sess); err != nil {
		return "", fmt.Errorf("dialogue: save session: %w", err)
	}
	e.metrics.ObserveInbound("advance")
	return reply, nil
}

func (e *Engine) confirm(ctx context.Context, sender string, sess *session.Session) (string, error) {
	scheduledAt, err := NextSlot(sess.Draft.TimeSlot, e.now())
	if err != nil {
		// The slot came from the fixed catalog, so this is a programming
		// error; treat it like a persistence failure for the sender.
		e.logger.Error("dialogue: bad stored slot", "sender", sender, "slot", sess.Draft.TimeSlot, "error", err)
		_ = e.sessions.Delete(ctx, sender)
		e.metrics.ObserveInbound("failed")
		return persistFailedText(), nil
	}

	appt := &appointment.Appointment{
		Name:        sess.Draft.Name,
		Phone:       sess.Draft.Phone,
		Shift:       sess.Draft.Shift,
		TimeSlot:    sess.Draft.TimeSlot,
		ScheduledAt: scheduledAt,
	}

	if err := e.appointments.Create(ctx, appt); err != nil {
		// Fire-and-forget failure policy: discard the draft, tell the
		// sender to restart. No retry, no partial rows.
		e.logger.Error("dialogue: persist appointment failed", "sender", sender, "error", err)
		if delErr := e.sessions.Delete(ctx, sender); delErr != nil {
			e.logger.Error("dialogue: drop session after failed insert", "sender", sender, "error", delErr)
		}
		e.metrics.ObserveInbound("failed")
		return persistFailedText(), nil
	}

	if err := e.sessions.Delete(ctx, sender); err != nil {
		return "", fmt.Errorf("dialogue: clear session after confirm: %w", err)
	}

	e.logger.Info("dialogue: appointment confirmed",
		"sender", sender,
		"phone", appt.Phone,
		"shift", string(appt.Shift),
		"scheduled_at", appt.ScheduledAt.Format(time.RFC3339),
	)
	e.metrics.ObserveInbound("confirmed")
	e.metrics.ObserveBooking("guided")
	return confirmedText(sess.Draft), nil
}

func (e *Engine) handleDirect(ctx context.Context, sender, body string) (string, error) {
	name, phone, scheduledAt, err := parseDirect(body, e.now())
	if err != nil {
		e.metrics.ObserveInbound("direct_invalid")
		return directUsageText(directErrorReason(err)), nil
	}

	appt := &appointment.Appointment{
		Name:        name,
		Phone:       phone,
		TimeSlot:    scheduledAt.Format("15:04"),
		ScheduledAt: scheduledAt,
	}
	if err := e.appointments.Create(ctx, appt); err != nil {
		e.logger.Error("dialogue: persist direct appointment failed", "sender", sender, "error", err)
		e.metrics.ObserveInbound("failed")
		return persistFailedText(), nil
	}

	e.logger.Info("dialogue: direct appointment confirmed",
		"sender", sender,
		"phone", appt.Phone,
		"scheduled_at", appt.ScheduledAt.Format(time.RFC3339),
	)
	e.metrics.ObserveInbound("confirmed")
	e.metrics.ObserveBooking("direct")
	return directConfirmedText(name, phone, scheduledAt.Format(datetimeLayout)), nil
}

// parseDirect interprets the single-line command "name|phone|YYYY-MM-DD HH:MM".
// Each field is validated independently before anything is persisted.
func parseDirect(body string, now time.Time) (name, phone string, scheduledAt time.Time, err error) {
	parts := strings.Split(body, "|")
	if len(parts) != 3 {
		return "", "", time.Time{}, errDirectBadForm
	}
	if name, err = validateName(parts[0]); err != nil {
		return "", "", time.Time{}, err
	}
	if phone, err = validatePhone(parts[1]); err != nil {
		return "", "", time.Time{}, err
	}
	if scheduledAt, err = validateDatetime(parts[2], now); err != nil {
		return "", "", time.Time{}, err
	}
	return name, phone, scheduledAt, nil
}

func directErrorReason(err error) string {
	switch {
	case errors.Is(err, errNameTooShort):
		return "O nome precisa ter pelo menos 3 letras."
	case errors.Is(err, errPhoneInvalid):
		return "O telefone precisa ter entre 10 e 13 dígitos."
	case errors.Is(err, errDatetimeBad):
		return "A data precisa estar no formato AAAA-MM-DD HH:MM."
	case errors.Is(err, errDatetimePast):
		return "A data precisa estar no futuro."
	default:
		return "Não consegui entender o comando."
	}
}
