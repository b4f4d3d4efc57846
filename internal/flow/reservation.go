package flow

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/eiescz/idiomasbot/internal/domain"
	"github.com/eiescz/idiomasbot/internal/reply"
	"github.com/eiescz/idiomasbot/internal/validate"
)

func (m *Machine) reserveOffer(ctx context.Context, in domain.Inbound, sess *domain.Session) ([]domain.Outbound, bool) {
	switch validate.ReadAnswer(in.ChoiceID, in.Text) {
	case validate.AnswerYes:
		sess.State = domain.StateReserveCollectName
		return []domain.Outbound{domain.TextMessage(in.Conversation, reply.PromptReserveName)}, true
	case validate.AnswerNo:
		sess.Reset()
		return []domain.Outbound{domain.TextMessage(in.Conversation, reply.ReserveCanceled)}, true
	default:
		return []domain.Outbound{domain.YesNoMessage(in.Conversation, reply.PromptReserveOffer)}, true
	}
}

func (m *Machine) reserveCollectName(ctx context.Context, in domain.Inbound, sess *domain.Session) ([]domain.Outbound, bool) {
	if !validate.ValidName(in.Text) {
		return []domain.Outbound{domain.TextMessage(in.Conversation, reply.PromptBadName)}, true
	}
	sess.Reservation.Name = strings.TrimSpace(in.Text)
	sess.State = domain.StateReserveCollectTime
	return []domain.Outbound{domain.TextMessage(in.Conversation, reply.PromptReserveTime)}, true
}

func (m *Machine) reserveCollectTime(ctx context.Context, in domain.Inbound, sess *domain.Session) ([]domain.Outbound, bool) {
	when, ok := validate.ParseDayTime(in.Text, m.now())
	if !ok {
		return []domain.Outbound{domain.TextMessage(in.Conversation, reply.PromptReserveTime)}, true
	}
	sess.Reservation.When = &when
	sess.State = domain.StateReserveConfirm
	return []domain.Outbound{domain.YesNoMessage(in.Conversation, reply.ReservationSummary(*sess.Reservation))}, true
}

func (m *Machine) reserveConfirm(ctx context.Context, in domain.Inbound, sess *domain.Session) ([]domain.Outbound, bool) {
	switch validate.ReadAnswer(in.ChoiceID, in.Text) {
	case validate.AnswerYes:
		draft := *sess.Reservation
		record := domain.Reservation{
			ID:           uuid.NewString(),
			Conversation: in.Conversation,
			Name:         draft.Name,
			When:         *draft.When,
			CreatedAt:    m.now(),
		}
		// The success message is only sent once the record write succeeded.
		if err := m.records.AppendReservation(ctx, record); err != nil {
			m.logger.Error("reservation append failed", "conversation", in.Conversation, "err", err)
			return []domain.Outbound{domain.TextMessage(in.Conversation, reply.RecordWriteFailed)}, true
		}
		m.countRecord("reservation")
		sess.Reset()
		out := []domain.Outbound{domain.TextMessage(in.Conversation, reply.ReserveDone)}
		out = append(out, m.notifyOperator(
			"📅 Nueva reserva: "+record.Name+" — "+reply.FormatWhen(record.When))...)
		return out, true
	case validate.AnswerNo:
		sess.Reset()
		return []domain.Outbound{domain.TextMessage(in.Conversation, reply.ReserveCanceled)}, true
	default:
		return []domain.Outbound{domain.YesNoMessage(in.Conversation, reply.ReservationSummary(*sess.Reservation))}, true
	}
}
