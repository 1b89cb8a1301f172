// Package engine holds the conversation state machine: it receives inbound
// (user, text) events, validates input against the current step's grammar,
// transitions the session, and dispatches side effects to the backend
// gateway, the quote picker, and the message channel.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/GibaTrindade/bot-seplag/internal/domain"
	"github.com/GibaTrindade/bot-seplag/internal/logging"
	"github.com/GibaTrindade/bot-seplag/internal/ports"
	"github.com/GibaTrindade/bot-seplag/internal/session"
)

// Engine drives the fixed conversational flow. Processing is serialized per
// user; different users proceed independently.
type Engine struct {
	store   ports.SessionStore
	backend ports.BackendGateway
	quotes  ports.QuotePicker
	channel ports.MessageChannel
	locks   *session.Locks
	hooks   domain.Hooks
	logger  *slog.Logger
}

// Option configures the Engine.
type Option func(*Engine)

// WithHooks registers observability hooks.
func WithHooks(hooks domain.Hooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger configures the engine logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New creates an engine over its four collaborators.
func New(store ports.SessionStore, backend ports.BackendGateway, quotes ports.QuotePicker, channel ports.MessageChannel, opts ...Option) *Engine {
	e := &Engine{
		store:   store,
		backend: backend,
		quotes:  quotes,
		channel: channel,
		locks:   session.NewLocks(),
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// HandleMessage processes one inbound event. Input that fails the current
// step's grammar re-prompts without advancing; upstream failures degrade to
// an apology and the transition still happens. Only store failures are
// returned to the caller.
func (e *Engine) HandleMessage(ctx context.Context, from, body string) error {
	return e.locks.With(from, func() error {
		return e.process(ctx, from, body)
	})
}

func (e *Engine) process(ctx context.Context, from, body string) error {
	sess, err := e.store.Get(ctx, from)
	if errors.Is(err, domain.ErrSessionNotFound) {
		if _, err := e.store.Create(ctx, from); err != nil {
			return fmt.Errorf("creating session for %s: %w", from, err)
		}
		if e.hooks.OnSessionStart != nil {
			e.hooks.OnSessionStart(ctx, &domain.SessionEvent{UserID: from, Step: domain.StepCPF})
		}
		e.send(ctx, from, msgWelcome)
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading session for %s: %w", from, err)
	}

	// Every inbound event slides the expiry window, including invalid input.
	if err := e.store.Touch(ctx, from); err != nil {
		e.logger.Warn("failed to touch session", "user_id", from, "err", err)
	}

	switch sess.Step {
	case domain.StepCPF:
		return e.stepCPF(ctx, sess, body)
	case domain.StepMenu:
		return e.stepMenu(ctx, sess, body)
	case domain.StepAgendaYear:
		return e.stepAgendaYear(ctx, sess, body)
	case domain.StepAgendaMonth:
		return e.stepAgendaMonth(ctx, sess, body)
	case domain.StepAmendmentSearch:
		return e.stepAmendmentSearch(ctx, sess, body)
	case domain.StepAmendmentSelect:
		return e.stepAmendmentSelect(ctx, sess, body)
	default:
		return fmt.Errorf("session %s in unknown step %q", from, sess.Step)
	}
}

func (e *Engine) stepCPF(ctx context.Context, sess *domain.Session, body string) error {
	cpf := stripNonDigits(body)
	if len(cpf) != 11 {
		e.send(ctx, sess.UserID, msgCPFInvalid)
		return nil
	}

	sess.CPF = cpf
	e.transition(ctx, sess, domain.StepMenu)
	if err := e.store.Replace(ctx, sess.UserID, sess); err != nil {
		return err
	}

	e.send(ctx, sess.UserID, msgCPFConfirmed)
	e.send(ctx, sess.UserID, msgMenu)
	return nil
}

func (e *Engine) stepMenu(ctx context.Context, sess *domain.Session, body string) error {
	switch strings.TrimSpace(body) {
	case "1":
		e.sendSchedule(ctx, sess)
	case "2":
		e.sendCourses(ctx, sess)
	case "3":
		e.sendQuote(ctx, sess)
	case "4":
		e.send(ctx, sess.UserID, msgContact)
	case "5":
		e.transition(ctx, sess, domain.StepAgendaYear)
		if err := e.store.Replace(ctx, sess.UserID, sess); err != nil {
			return err
		}
		e.send(ctx, sess.UserID, msgAskYear)
		return nil
	case "6":
		e.transition(ctx, sess, domain.StepAmendmentSearch)
		if err := e.store.Replace(ctx, sess.UserID, sess); err != nil {
			return err
		}
		e.send(ctx, sess.UserID, msgAskParliamentarian)
		return nil
	default:
		e.send(ctx, sess.UserID, msgInvalidOption)
	}

	e.send(ctx, sess.UserID, msgMenu)
	return nil
}

func (e *Engine) stepAgendaYear(ctx context.Context, sess *domain.Session, body string) error {
	year, err := strconv.Atoi(strings.TrimSpace(body))
	if err != nil || year < 2000 || year > 2100 {
		e.send(ctx, sess.UserID, msgYearInvalid)
		return nil
	}

	sess.Year = year
	e.transition(ctx, sess, domain.StepAgendaMonth)
	if err := e.store.Replace(ctx, sess.UserID, sess); err != nil {
		return err
	}

	e.send(ctx, sess.UserID, msgAskMonth)
	return nil
}

func (e *Engine) stepAgendaMonth(ctx context.Context, sess *domain.Session, body string) error {
	month, err := strconv.Atoi(strings.TrimSpace(body))
	if err != nil || month < 1 || month > 12 {
		e.send(ctx, sess.UserID, msgMonthInvalid)
		return nil
	}

	e.send(ctx, sess.UserID, renderAgendaProgress(sess.Year, month))
	e.deliverAgenda(ctx, sess, month)

	e.transition(ctx, sess, domain.StepMenu)
	sess.ResetToMenu()
	if err := e.store.Replace(ctx, sess.UserID, sess); err != nil {
		return err
	}

	e.send(ctx, sess.UserID, msgMenu)
	return nil
}

// deliverAgenda fetches the calendar PDF and hands it to the channel through
// a scoped temp file, removed on every exit path.
func (e *Engine) deliverAgenda(ctx context.Context, sess *domain.Session, month int) {
	padded := fmt.Sprintf("%02d", month)

	data, err := e.backend.FetchCalendarDocument(ctx, sess.Year, padded)
	if err != nil {
		e.upstreamFailed(ctx, sess.UserID, "fetch_calendar", err)
		e.send(ctx, sess.UserID, msgAgendaFailure)
		return
	}

	tmp, err := os.CreateTemp("", "agenda-*.pdf")
	if err != nil {
		e.logger.Error("failed to create temp file for agenda", "err", err)
		e.send(ctx, sess.UserID, msgAgendaFailure)
		return
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		e.logger.Error("failed to write agenda file", "err", err)
		e.send(ctx, sess.UserID, msgAgendaFailure)
		return
	}
	if err := tmp.Close(); err != nil {
		e.logger.Error("failed to close agenda file", "err", err)
		e.send(ctx, sess.UserID, msgAgendaFailure)
		return
	}

	name := fmt.Sprintf("agenda_%d_%s.pdf", sess.Year, padded)
	caption := renderAgendaCaption(sess.Year, padded)
	if err := e.channel.SendFile(ctx, sess.UserID, tmp.Name(), name, caption); err != nil {
		e.logger.Warn("agenda delivery failed", "user_id", sess.UserID, "err", err)
		e.send(ctx, sess.UserID, msgAgendaFailure)
	}
}

func (e *Engine) stepAmendmentSearch(ctx context.Context, sess *domain.Session, body string) error {
	name := strings.TrimSpace(body)

	candidates, err := e.backend.SearchParliamentarians(ctx, name)
	if err != nil {
		e.upstreamFailed(ctx, sess.UserID, "search_parliamentarians", err)
		e.send(ctx, sess.UserID, msgSearchFailure)
	} else if len(candidates) == 0 {
		e.send(ctx, sess.UserID, msgNoCandidates)
	}

	// Failure and empty result both short-circuit back to the menu; the
	// candidate list is only ever stored non-empty.
	if err != nil || len(candidates) == 0 {
		e.transition(ctx, sess, domain.StepMenu)
		sess.ResetToMenu()
		if err := e.store.Replace(ctx, sess.UserID, sess); err != nil {
			return err
		}
		e.send(ctx, sess.UserID, msgMenu)
		return nil
	}

	sess.SearchName = name
	sess.Candidates = candidates
	e.transition(ctx, sess, domain.StepAmendmentSelect)
	if err := e.store.Replace(ctx, sess.UserID, sess); err != nil {
		return err
	}

	e.send(ctx, sess.UserID, renderCandidates(candidates))
	return nil
}

func (e *Engine) stepAmendmentSelect(ctx context.Context, sess *domain.Session, body string) error {
	choice, err := strconv.Atoi(strings.TrimSpace(body))
	if err != nil || choice < 1 || choice > len(sess.Candidates) {
		e.send(ctx, sess.UserID, msgChoiceInvalid)
		return nil
	}

	candidate := sess.Candidates[choice-1]
	summary, err := e.backend.FetchAmendmentSummary(ctx, candidate.ExternalID.String())
	if err != nil {
		e.upstreamFailed(ctx, sess.UserID, "fetch_amendment_summary", err)
		e.send(ctx, sess.UserID, msgSummaryFailure)
	} else {
		e.send(ctx, sess.UserID, renderSummary(summary))
	}

	e.transition(ctx, sess, domain.StepMenu)
	sess.ResetToMenu()
	if err := e.store.Replace(ctx, sess.UserID, sess); err != nil {
		return err
	}

	e.send(ctx, sess.UserID, msgMenu)
	return nil
}

func (e *Engine) sendSchedule(ctx context.Context, sess *domain.Session) {
	schedule, err := e.backend.FetchSchedule(ctx, sess.CPF)
	if err != nil {
		e.upstreamFailed(ctx, sess.UserID, "fetch_schedule", err)
		e.send(ctx, sess.UserID, msgScheduleFailure)
		return
	}
	e.send(ctx, sess.UserID, renderSchedule(schedule))
}

func (e *Engine) sendCourses(ctx context.Context, sess *domain.Session) {
	courses, err := e.backend.FetchCourses(ctx)
	if err != nil {
		e.upstreamFailed(ctx, sess.UserID, "fetch_courses", err)
		e.send(ctx, sess.UserID, msgCoursesFailure)
		return
	}
	if len(courses) == 0 {
		e.send(ctx, sess.UserID, msgNoCourses)
		return
	}
	e.send(ctx, sess.UserID, renderCourses(courses))
}

func (e *Engine) sendQuote(ctx context.Context, sess *domain.Session) {
	quote, err := e.quotes.PickRandom(ctx)
	if err != nil {
		e.logger.Warn("quote pick failed", "user_id", sess.UserID, "err", err)
		e.send(ctx, sess.UserID, msgQuoteFailure)
		return
	}
	e.send(ctx, sess.UserID, renderQuote(quote))
}

// transition moves the session to the next step and fires the hook.
func (e *Engine) transition(ctx context.Context, sess *domain.Session, to domain.Step) {
	from := sess.Step
	sess.Step = to
	if from != to && e.hooks.OnStepChange != nil {
		e.hooks.OnStepChange(ctx, &domain.StepEvent{UserID: sess.UserID, From: from, To: to})
	}
}

// send delivers a text message; a delivery failure is logged and never
// blocks state progression.
func (e *Engine) send(ctx context.Context, userID, text string) {
	if err := e.channel.SendText(ctx, userID, text); err != nil {
		e.logger.Warn("send failed", "user_id", userID, "err", err)
	}
}

func (e *Engine) upstreamFailed(ctx context.Context, userID, operation string, err error) {
	e.logger.Warn("backend call failed", "user_id", userID, "operation", operation, "err", err)
	if e.hooks.OnUpstreamError != nil {
		e.hooks.OnUpstreamError(ctx, &domain.UpstreamEvent{UserID: userID, Operation: operation, Err: err})
	}
}

func stripNonDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
