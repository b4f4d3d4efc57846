package domain

import "time"

// Lead is the per-turn activity record: who wrote, what they wrote and how it
// was classified. Appended unconditionally for every dispatched turn.
type Lead struct {
	ID           string    `json:"id"`
	Conversation string    `json:"conversation"`
	Name         string    `json:"name"`
	Intent       string    `json:"intent"`
	LastMessage  string    `json:"last_message"`
	CreatedAt    time.Time `json:"created_at"`
}

// Enrollment is the finalized record produced when an enrollment flow is
// confirmed. Immutable once appended.
type Enrollment struct {
	ID           string    `json:"id"`
	Conversation string    `json:"conversation"`
	Name         string    `json:"name"`
	Identifier   string    `json:"identifier"`
	Course       string    `json:"course"`
	Level        string    `json:"level"`
	SchedulePref string    `json:"schedule_pref"`
	IDPhoto      bool      `json:"id_photo"`
	CreatedAt    time.Time `json:"created_at"`
}

// Reservation is the finalized record produced when a reservation flow is
// confirmed.
type Reservation struct {
	ID           string    `json:"id"`
	Conversation string    `json:"conversation"`
	Name         string    `json:"name"`
	When         time.Time `json:"when"`
	CreatedAt    time.Time `json:"created_at"`
}
