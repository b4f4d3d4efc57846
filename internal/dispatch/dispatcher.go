// Package dispatch orchestrates one inbound turn: global overrides, in-flow
// continuation, intent answers, fallback generation and the activity log.
package dispatch

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/eiescz/idiomasbot/internal/config"
	"github.com/eiescz/idiomasbot/internal/domain"
	"github.com/eiescz/idiomasbot/internal/flow"
	"github.com/eiescz/idiomasbot/internal/intent"
	"github.com/eiescz/idiomasbot/internal/logging"
	"github.com/eiescz/idiomasbot/internal/metrics"
	"github.com/eiescz/idiomasbot/internal/ports"
	"github.com/eiescz/idiomasbot/internal/reply"
	"github.com/eiescz/idiomasbot/internal/session"
	"github.com/eiescz/idiomasbot/internal/validate"
)

// Dispatcher composes the classifier, the flow machine and the collaborators.
// It is the only piece that touches the transport and the record store.
type Dispatcher struct {
	sessions  *session.Manager
	machine   *flow.Machine
	classify  *intent.Classifier
	content   *config.Snapshot
	records   ports.RecordStore
	messenger ports.Messenger
	generator ports.AnswerGenerator
	metrics   *metrics.Metrics
	logger    *slog.Logger
	now       func() time.Time
}

// Option configures the Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the dispatcher logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// WithMetrics enables turn counters.
func WithMetrics(m *metrics.Metrics) Option {
	return func(d *Dispatcher) {
		d.metrics = m
	}
}

// WithClock injects the reference clock. Tests pin it.
func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) {
		d.now = now
	}
}

// New wires a Dispatcher.
func New(
	sessions *session.Manager,
	machine *flow.Machine,
	classifier *intent.Classifier,
	content *config.Snapshot,
	records ports.RecordStore,
	messenger ports.Messenger,
	generator ports.AnswerGenerator,
	opts ...Option,
) *Dispatcher {
	d := &Dispatcher{
		sessions:  sessions,
		machine:   machine,
		classify:  classifier,
		content:   content,
		records:   records,
		messenger: messenger,
		generator: generator,
		logger:    logging.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// turnPlan is what one locked load-modify-save window decides: the messages
// to send, the intent to log, and whether the fallback generator still has
// to run. Sends and generation happen after the lock is released.
type turnPlan struct {
	out          []domain.Outbound
	leadIntent   string
	path         string
	needFallback bool
}

// Handle processes one inbound turn end to end. It never returns an error to
// the transport: failures are logged and the turn completes as far as it can.
func (d *Dispatcher) Handle(ctx context.Context, in domain.Inbound) {
	var plan turnPlan

	err := d.sessions.WithLock(ctx, in.Conversation, func(ctx context.Context) error {
		sess, err := d.sessions.LoadOrCreate(ctx, in.Conversation)
		if err != nil {
			return err
		}
		sess.LastText = in.Text

		plan = d.decide(ctx, in, sess)
		if plan.leadIntent != "" {
			sess.LastIntent = plan.leadIntent
		}

		return d.sessions.Save(ctx, in.Conversation, sess)
	})
	if err != nil {
		d.logger.Error("turn aborted", "conversation", in.Conversation, "err", err)
		d.count("aborted", "")
		return
	}

	// The generator is an outbound network call; it runs outside the lock.
	// A general-intent turn never mutates flow state, so this is safe.
	if plan.needFallback {
		plan.out = append(plan.out, domain.TextMessage(in.Conversation, d.generator.Generate(ctx, in.Text)))
	}

	d.send(ctx, plan.out)
	d.appendLead(ctx, in, plan.leadIntent)
	d.count(plan.path, plan.leadIntent)
}

// decide runs the ordered per-turn pipeline under the session lock.
func (d *Dispatcher) decide(ctx context.Context, in domain.Inbound, sess *domain.Session) turnPlan {
	c := d.content.Current()

	// Global reset keywords clear any flow and re-issue the menu.
	if validate.IsResetKeyword(in.Text) {
		sess.Reset()
		return turnPlan{
			out:        []domain.Outbound{domain.TextMessage(in.Conversation, reply.Menu(c))},
			leadIntent: string(intent.General),
			path:       "reset",
		}
	}

	// Greetings short-circuit but advance nothing.
	if validate.IsGreeting(in.Text) {
		return turnPlan{
			out:        []domain.Outbound{domain.TextMessage(in.Conversation, reply.Welcome(c))},
			leadIntent: string(intent.General),
			path:       "greeting",
		}
	}

	// Mid-flow turns go to the state machine. An unhandled result means the
	// message was rerouted out of the flow and falls through to the intent
	// pipeline against the already-reset session.
	if sess.State != domain.StateIdle {
		family := string(intent.Enrollment)
		if sess.State.InReservation() {
			family = "reservar"
		}
		if out, handled := d.machine.Continue(ctx, in, sess); handled {
			return turnPlan{out: out, leadIntent: family, path: "flow"}
		}
	}

	return d.answer(in, sess, c)
}

// answer handles an idle-state message: classify, reply or enter a flow.
func (d *Dispatcher) answer(in domain.Inbound, sess *domain.Session, c *config.Content) turnPlan {
	tag := d.classify.Classify(in.Text)
	plan := turnPlan{leadIntent: string(tag), path: "answer"}

	// Enrollment enters the flow instead of answering.
	if tag == intent.Enrollment {
		plan.out = d.machine.StartEnrollment(in, sess)
		plan.path = "flow_entry"
		return plan
	}

	if text, ok := reply.ForIntent(c, tag); ok {
		plan.out = []domain.Outbound{domain.TextMessage(in.Conversation, text)}
		switch tag {
		case intent.Location:
			plan.out = append(plan.out, domain.LocationMessage(
				in.Conversation, c.Org.Latitude, c.Org.Longitude, c.Org.Name, c.Org.Address))
		case intent.Schedule:
			// Informational schedule answers open the reservation flow.
			plan.out = append(plan.out, d.machine.OfferReservation(in, sess)...)
		}
		return plan
	}

	plan.needFallback = true
	plan.path = "fallback"
	return plan
}

// send delivers the queued requests. Failures are logged; the turn has
// already completed and session state never rolls back.
func (d *Dispatcher) send(ctx context.Context, out []domain.Outbound) {
	for _, o := range out {
		var err error
		switch o.Kind {
		case domain.OutText:
			err = d.messenger.SendText(ctx, o.To, o.Text)
		case domain.OutYesNo:
			err = d.messenger.SendYesNo(ctx, o.To, o.Text)
		case domain.OutList:
			err = d.messenger.SendList(ctx, o.To, o.Text, o.Title, o.Options)
		case domain.OutLocation:
			err = d.messenger.SendLocation(ctx, o.To, o.Lat, o.Lng, o.Label, o.Address)
		}
		if err != nil {
			d.logger.Warn("outbound send failed", "to", o.To, "kind", o.Kind, "err", err)
			if d.metrics != nil {
				d.metrics.SendFailures.Inc()
			}
		}
	}
}

// appendLead records the raw turn as a side-channel activity log, independent
// of whether a structured flow record was also created.
func (d *Dispatcher) appendLead(ctx context.Context, in domain.Inbound, tag string) {
	lead := domain.Lead{
		ID:           uuid.NewString(),
		Conversation: in.Conversation,
		Name:         in.DisplayName,
		Intent:       tag,
		LastMessage:  in.Text,
		CreatedAt:    d.now(),
	}
	if err := d.records.AppendLead(ctx, lead); err != nil {
		d.logger.Warn("lead append failed", "conversation", in.Conversation, "err", err)
	}
}

func (d *Dispatcher) count(path, tag string) {
	if d.metrics == nil {
		return
	}
	d.metrics.Turns.WithLabelValues(path).Inc()
	if tag != "" {
		d.metrics.Intents.WithLabelValues(tag).Inc()
	}
}
