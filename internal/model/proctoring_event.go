package model

import "time"

// Proctoring event types recognized by the trust signal.
const (
	EventFocusLost = "focus_lost"
	EventAnomaly   = "anomaly"
)

// ProctoringEvent is an append-only log row behind the per-candidate
// trust counters, kept for the fraud report views.
type ProctoringEvent struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	CandidateID uint      `json:"candidate_id" gorm:"not null;index"`
	Type        string    `json:"type" gorm:"not null"`
	Detail      string    `json:"detail,omitempty" gorm:"type:text"`
	Penalty     float64   `json:"penalty"`
	CreatedAt   time.Time `json:"created_at"`
}
