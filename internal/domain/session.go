package domain

import "time"

// FlowState identifies the step of a multi-turn flow a conversation is in.
// "idle" is both the initial state and the resting state after every terminal
// transition (completion, cancellation, interruption).
type FlowState string

const (
	StateIdle FlowState = "idle"

	// Reservation family.
	StateReserveOffer       FlowState = "awaiting_reserve_confirmation"
	StateReserveCollectName FlowState = "reserve_collect_name"
	StateReserveCollectTime FlowState = "reserve_collect_time"
	StateReserveConfirm     FlowState = "reserve_confirm"

	// Enrollment family.
	StateEnrollCollectID       FlowState = "enroll_collect_id"
	StateEnrollCollectName     FlowState = "enroll_collect_name"
	StateEnrollCollectCourse   FlowState = "enroll_collect_course"
	StateEnrollCollectLevel    FlowState = "enroll_collect_level"
	StateEnrollCollectSchedule FlowState = "enroll_collect_schedule"
	StateEnrollConfirm         FlowState = "enroll_confirm"
)

// InEnrollment reports whether the state belongs to the enrollment family.
func (s FlowState) InEnrollment() bool {
	switch s {
	case StateEnrollCollectID, StateEnrollCollectName, StateEnrollCollectCourse,
		StateEnrollCollectLevel, StateEnrollCollectSchedule, StateEnrollConfirm:
		return true
	}
	return false
}

// InReservation reports whether the state belongs to the reservation family.
func (s FlowState) InReservation() bool {
	switch s {
	case StateReserveOffer, StateReserveCollectName, StateReserveCollectTime, StateReserveConfirm:
		return true
	}
	return false
}

// PhotoReceived is the sentinel stored as the identifier when the user sent an
// image of the document instead of typing the number.
const PhotoReceived = "(foto recibida)"

// EnrollmentDraft accumulates enrollment fields turn by turn, strictly in
// declaration order. Empty fields have not been asked for yet.
type EnrollmentDraft struct {
	Identifier   string `json:"identifier,omitempty"`
	IDPhoto      bool   `json:"id_photo,omitempty"`
	Name         string `json:"name,omitempty"`
	Course       string `json:"course,omitempty"`
	Level        string `json:"level,omitempty"`
	SchedulePref string `json:"schedule_pref,omitempty"`
}

// IdentifierLabel returns the identifier value or the photo sentinel.
func (d EnrollmentDraft) IdentifierLabel() string {
	if d.IDPhoto {
		return PhotoReceived
	}
	return d.Identifier
}

// ReservationDraft accumulates reservation fields turn by turn.
type ReservationDraft struct {
	Name string     `json:"name,omitempty"`
	When *time.Time `json:"when,omitempty"`
}

// Session is the single live conversation record for one conversation key.
// It is overwritten on reset, never deleted, so LastText/LastIntent survive
// across flow completions.
type Session struct {
	State FlowState `json:"state"`

	// At most one draft is populated, matching the family of State.
	Enrollment  *EnrollmentDraft  `json:"enrollment,omitempty"`
	Reservation *ReservationDraft `json:"reservation,omitempty"`

	LastText   string `json:"last_text,omitempty"`
	LastIntent string `json:"last_intent,omitempty"`
}

// NewSession returns a fresh idle session.
func NewSession() *Session {
	return &Session{State: StateIdle}
}

// Reset clears the session back to idle, dropping any draft but keeping the
// last-seen text and intent.
func (s *Session) Reset() {
	s.State = StateIdle
	s.Enrollment = nil
	s.Reservation = nil
}
