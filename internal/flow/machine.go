// Package flow implements the multi-turn dialog state machine: the closed set
// of reservation and enrollment states, and one transition function per state.
package flow

import (
	"context"
	"log/slog"
	"time"

	"github.com/eiescz/idiomasbot/internal/config"
	"github.com/eiescz/idiomasbot/internal/domain"
	"github.com/eiescz/idiomasbot/internal/intent"
	"github.com/eiescz/idiomasbot/internal/logging"
	"github.com/eiescz/idiomasbot/internal/metrics"
	"github.com/eiescz/idiomasbot/internal/ports"
	"github.com/eiescz/idiomasbot/internal/reply"
)

// transition handles one inbound turn for one state. It mutates the session
// in place and returns the outbound requests. handled is false only when the
// turn was rerouted out of the flow and the dispatcher must classify it as a
// fresh message.
type transition func(m *Machine, ctx context.Context, in domain.Inbound, sess *domain.Session) (out []domain.Outbound, handled bool)

// Machine drives the per-state transition table. It never sends anything
// itself; callers deliver the returned requests after releasing the session
// lock.
type Machine struct {
	content  *config.Snapshot
	classify *intent.Classifier
	records  ports.RecordStore
	logger   *slog.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
	admin    string

	// strictIdentifier switches enroll_collect_id from the original reroute
	// behavior to a bounded re-prompt like every other collecting state.
	// Off by default, pending product confirmation.
	strictIdentifier bool

	table map[domain.FlowState]transition
}

// MachineOption configures the Machine.
type MachineOption func(*Machine)

// WithClock injects the reference clock. Tests pin it.
func WithClock(now func() time.Time) MachineOption {
	return func(m *Machine) {
		m.now = now
	}
}

// WithOperatorChannel sets the conversation notified on finalized records.
func WithOperatorChannel(conversation string) MachineOption {
	return func(m *Machine) {
		m.admin = conversation
	}
}

// WithLogger sets the machine logger.
func WithLogger(logger *slog.Logger) MachineOption {
	return func(m *Machine) {
		m.logger = logger
	}
}

// WithMetrics enables the finalized-record counter.
func WithMetrics(met *metrics.Metrics) MachineOption {
	return func(m *Machine) {
		m.metrics = met
	}
}

// WithStrictIdentifier makes enroll_collect_id re-prompt on unmatched input
// instead of rerouting.
func WithStrictIdentifier() MachineOption {
	return func(m *Machine) {
		m.strictIdentifier = true
	}
}

// NewMachine builds the transition table.
func NewMachine(content *config.Snapshot, classifier *intent.Classifier, records ports.RecordStore, opts ...MachineOption) *Machine {
	m := &Machine{
		content:  content,
		classify: classifier,
		records:  records,
		logger:   logging.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}

	m.table = map[domain.FlowState]transition{
		domain.StateReserveOffer:       (*Machine).reserveOffer,
		domain.StateReserveCollectName: (*Machine).reserveCollectName,
		domain.StateReserveCollectTime: (*Machine).reserveCollectTime,
		domain.StateReserveConfirm:     (*Machine).reserveConfirm,

		domain.StateEnrollCollectID:       (*Machine).enrollCollectID,
		domain.StateEnrollCollectName:     (*Machine).enrollCollectName,
		domain.StateEnrollCollectCourse:   (*Machine).enrollCollectCourse,
		domain.StateEnrollCollectLevel:    (*Machine).enrollCollectLevel,
		domain.StateEnrollCollectSchedule: (*Machine).enrollCollectSchedule,
		domain.StateEnrollConfirm:         (*Machine).enrollConfirm,
	}
	return m
}

// Continue advances a non-idle session by one turn. handled is false when the
// message was rerouted out of the flow: the session is already reset and the
// dispatcher must process the text as a fresh idle-state message.
func (m *Machine) Continue(ctx context.Context, in domain.Inbound, sess *domain.Session) ([]domain.Outbound, bool) {
	fn, ok := m.table[sess.State]
	if !ok {
		// Unknown stored state. Restart at idle rather than trapping the user.
		m.logger.Warn("unknown session state, resetting", "state", sess.State, "conversation", in.Conversation)
		sess.Reset()
		return nil, false
	}
	return fn(m, ctx, in, sess)
}

// StartEnrollment is the sole entry point into the enrollment family. It
// initializes a fresh empty draft regardless of any previous flow.
func (m *Machine) StartEnrollment(in domain.Inbound, sess *domain.Session) []domain.Outbound {
	sess.State = domain.StateEnrollCollectID
	sess.Enrollment = &domain.EnrollmentDraft{}
	sess.Reservation = nil
	return []domain.Outbound{domain.TextMessage(in.Conversation, reply.PromptEnrollID)}
}

// OfferReservation presents the yes/no reservation offer after a schedule
// answer, entering the reservation family.
func (m *Machine) OfferReservation(in domain.Inbound, sess *domain.Session) []domain.Outbound {
	sess.State = domain.StateReserveOffer
	sess.Reservation = &domain.ReservationDraft{}
	sess.Enrollment = nil
	return []domain.Outbound{domain.YesNoMessage(in.Conversation, reply.PromptReserveOffer)}
}

// notifyOperator queues a text to the operator channel when configured.
func (m *Machine) notifyOperator(text string) []domain.Outbound {
	if m.admin == "" {
		return nil
	}
	return []domain.Outbound{domain.TextMessage(m.admin, text)}
}

func (m *Machine) countRecord(kind string) {
	if m.metrics != nil {
		m.metrics.Records.WithLabelValues(kind).Inc()
	}
}
