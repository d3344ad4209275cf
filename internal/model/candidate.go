package model

import (
	"time"

	"github.com/lshigami/Linnet/internal/cefr"
	"gorm.io/gorm"
)

// Session status values for a candidate's exam lifecycle.
// Completed is terminal; a completed session is never re-entered.
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusPaused     = "paused"
	StatusCompleted  = "completed"
)

type Candidate struct {
	ID         uint    `gorm:"primarykey" json:"id"`
	FullName   string  `json:"full_name" gorm:"not null"`
	Email      string  `json:"email" gorm:"index"`
	AccessCode string  `json:"-" gorm:"uniqueIndex;not null"`
	CompanyID  uint    `json:"company_id" gorm:"not null;index"`
	Company    Company `json:"company,omitempty" gorm:"foreignKey:CompanyID"`

	// Exam configuration, immutable once the session is in progress.
	ExamDurationMinutes int `json:"exam_duration_minutes" gorm:"default:30"`
	QuestionLimit       int `json:"question_limit" gorm:"default:25"`

	Status            string     `json:"status" gorm:"default:'pending';index"`
	StartedAt         *time.Time `json:"started_at,omitempty"`
	Deadline          *time.Time `json:"deadline,omitempty"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"`
	CurrentDifficulty cefr.Level `json:"current_difficulty" gorm:"type:varchar(4);default:'B1'"`

	// Pause bookkeeping. PausedAt is set while paused; TotalPausedSeconds
	// accumulates across pauses and feeds the optional deadline-extension
	// policy.
	PausedAt           *time.Time `json:"paused_at,omitempty"`
	TotalPausedSeconds int        `json:"total_paused_seconds" gorm:"default:0"`
	PauseCount         int        `json:"pause_count" gorm:"default:0"`

	// Per-skill scores (0-100). Writing and speaking arrive later from
	// the AI scorer; nil means "not yet scored".
	GrammarScore    *float64 `json:"grammar_score,omitempty"`
	VocabularyScore *float64 `json:"vocabulary_score,omitempty"`
	ReadingScore    *float64 `json:"reading_score,omitempty"`
	ListeningScore  *float64 `json:"listening_score,omitempty"`
	WritingScore    *float64 `json:"writing_score,omitempty"`
	SpeakingScore   *float64 `json:"speaking_score,omitempty"`

	// Final result, written exactly once at completion. A non-nil
	// CEFRLevel marks the result as sealed.
	OverallScore   *float64    `json:"overall_score,omitempty"`
	CEFRLevel      *cefr.Level `json:"cefr_level,omitempty" gorm:"type:varchar(4)"`
	IELTSBand      *float64    `json:"ielts_band,omitempty"`
	CertificateRef string      `json:"certificate_ref,omitempty" gorm:"uniqueIndex"`

	// Proctoring trust signal. Starts at 100 and only decreases; no
	// floor is enforced, so the score may go negative.
	TrustScore     float64 `json:"trust_score" gorm:"default:100"`
	FocusLostCount int     `json:"focus_lost_count" gorm:"default:0"`
	AnomalyCount   int     `json:"anomaly_count" gorm:"default:0"`

	Answers []Answer `json:"answers,omitempty" gorm:"foreignKey:CandidateID"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// ResultSealed reports whether the final result has already been
// computed. Completion is idempotent: once sealed, scores are never
// recomputed.
func (c *Candidate) ResultSealed() bool {
	return c.CEFRLevel != nil
}
