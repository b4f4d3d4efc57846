package flow

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/eiescz/idiomasbot/internal/domain"
	"github.com/eiescz/idiomasbot/internal/intent"
	"github.com/eiescz/idiomasbot/internal/reply"
	"github.com/eiescz/idiomasbot/internal/validate"
)

// enrollCollectID is the one state where unmatched input interrupts the flow
// instead of re-prompting: free identifiers are too variable for a strict
// validator, and a false rejection must not trap the user. An image or a
// valid identifier advances; anything else is reinterpreted as a new message.
func (m *Machine) enrollCollectID(ctx context.Context, in domain.Inbound, sess *domain.Session) ([]domain.Outbound, bool) {
	if in.Kind == domain.KindImage {
		sess.Enrollment.IDPhoto = true
		sess.State = domain.StateEnrollCollectName
		return []domain.Outbound{domain.TextMessage(in.Conversation, reply.PromptEnrollIDOk)}, true
	}

	if validate.ValidIdentifier(in.Text) {
		sess.Enrollment.Identifier = strings.TrimSpace(in.Text)
		sess.State = domain.StateEnrollCollectName
		return []domain.Outbound{domain.TextMessage(in.Conversation, reply.PromptEnrollIDText)}, true
	}

	if m.strictIdentifier {
		return []domain.Outbound{domain.TextMessage(in.Conversation, reply.PromptEnrollID)}, true
	}

	// Reroute: drop the flow and reinterpret the text as an unrelated query.
	sess.Reset()
	tag := m.classify.Classify(in.Text)
	sess.LastIntent = string(tag)
	if tag == intent.Enrollment {
		// Asked to enroll again: restart this state fresh instead of looping
		// silently.
		return m.StartEnrollment(in, sess), true
	}
	return nil, false
}

func (m *Machine) enrollCollectName(ctx context.Context, in domain.Inbound, sess *domain.Session) ([]domain.Outbound, bool) {
	if !validate.ValidName(in.Text) {
		return []domain.Outbound{domain.TextMessage(in.Conversation, reply.PromptBadName)}, true
	}
	sess.Enrollment.Name = strings.TrimSpace(in.Text)
	sess.State = domain.StateEnrollCollectCourse
	return []domain.Outbound{m.courseList(in.Conversation, reply.PromptCourseList)}, true
}

func (m *Machine) enrollCollectCourse(ctx context.Context, in domain.Inbound, sess *domain.Session) ([]domain.Outbound, bool) {
	courses := m.content.Current().Courses
	chosen, ok := pick(in, courses)
	if !ok {
		return []domain.Outbound{m.courseList(in.Conversation, reply.PromptCourseRetry)}, true
	}
	sess.Enrollment.Course = chosen
	sess.State = domain.StateEnrollCollectLevel
	return []domain.Outbound{m.levelList(in.Conversation, reply.PromptLevelList)}, true
}

func (m *Machine) enrollCollectLevel(ctx context.Context, in domain.Inbound, sess *domain.Session) ([]domain.Outbound, bool) {
	levels := m.content.Current().Levels
	chosen, ok := pick(in, levels)
	if !ok {
		return []domain.Outbound{m.levelList(in.Conversation, reply.PromptLevelRetry)}, true
	}
	sess.Enrollment.Level = chosen
	sess.State = domain.StateEnrollCollectSchedule
	return []domain.Outbound{domain.TextMessage(in.Conversation, reply.PromptSchedulePref)}, true
}

func (m *Machine) enrollCollectSchedule(ctx context.Context, in domain.Inbound, sess *domain.Session) ([]domain.Outbound, bool) {
	if strings.TrimSpace(in.Text) == "" {
		return []domain.Outbound{domain.TextMessage(in.Conversation, reply.PromptSchedulePref)}, true
	}
	sess.Enrollment.SchedulePref = in.Text
	sess.State = domain.StateEnrollConfirm
	return []domain.Outbound{domain.YesNoMessage(in.Conversation, reply.EnrollmentSummary(*sess.Enrollment))}, true
}

func (m *Machine) enrollConfirm(ctx context.Context, in domain.Inbound, sess *domain.Session) ([]domain.Outbound, bool) {
	switch validate.ReadAnswer(in.ChoiceID, in.Text) {
	case validate.AnswerYes:
		draft := *sess.Enrollment
		record := domain.Enrollment{
			ID:           uuid.NewString(),
			Conversation: in.Conversation,
			Name:         draft.Name,
			Identifier:   draft.IdentifierLabel(),
			Course:       draft.Course,
			Level:        draft.Level,
			SchedulePref: draft.SchedulePref,
			IDPhoto:      draft.IDPhoto,
			CreatedAt:    m.now(),
		}
		// The success message is only sent once the record write succeeded.
		if err := m.records.AppendEnrollment(ctx, record); err != nil {
			m.logger.Error("enrollment append failed", "conversation", in.Conversation, "err", err)
			return []domain.Outbound{domain.TextMessage(in.Conversation, reply.RecordWriteFailed)}, true
		}
		m.countRecord("enrollment")
		sess.Reset()
		out := []domain.Outbound{domain.TextMessage(in.Conversation, reply.EnrollDone)}
		out = append(out, m.notifyOperator(
			"🎓 Nueva inscripción: "+record.Name+" — "+record.Course+" "+record.Level)...)
		return out, true
	case validate.AnswerNo:
		sess.Reset()
		return []domain.Outbound{domain.TextMessage(in.Conversation, reply.EnrollCanceled)}, true
	default:
		return []domain.Outbound{domain.YesNoMessage(in.Conversation, reply.EnrollmentSummary(*sess.Enrollment))}, true
	}
}

func (m *Machine) courseList(to, prompt string) domain.Outbound {
	return domain.ListMessage(to, prompt, reply.ListSectionCourses, options(m.content.Current().Courses))
}

func (m *Machine) levelList(to, prompt string) domain.Outbound {
	return domain.ListMessage(to, prompt, reply.ListSectionLevels, options(m.content.Current().Levels))
}

func options(values []string) []domain.Option {
	opts := make([]domain.Option, 0, len(values))
	for _, v := range values {
		opts = append(opts, domain.Option{ID: v, Title: v})
	}
	return opts
}

// pick resolves a choice against the configured values: a structured reply's
// title, or raw text exactly matching a value.
func pick(in domain.Inbound, values []string) (string, bool) {
	candidate := in.Text
	if in.Kind == domain.KindChoice && in.ChoiceID != "" {
		candidate = in.ChoiceID
	}
	for _, v := range values {
		if candidate == v || in.Text == v {
			return v, true
		}
	}
	return "", false
}
