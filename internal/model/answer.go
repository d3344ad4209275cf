package model

import (
	"time"
)

// Answer is one submitted response. Answers are append-only: a row is
// never edited or deleted once written. The composite unique index on
// (candidate_id, question_id) is the correctness boundary against
// duplicate submissions, concurrent or otherwise.
type Answer struct {
	ID          uint     `gorm:"primarykey" json:"id"`
	CandidateID uint     `json:"candidate_id" gorm:"not null;uniqueIndex:idx_candidate_question"`
	QuestionID  uint     `json:"question_id" gorm:"not null;uniqueIndex:idx_candidate_question"`
	Question    Question `json:"question,omitempty" gorm:"foreignKey:QuestionID"`

	GivenResponse string `json:"given_response" gorm:"type:text;not null"`
	IsCorrect     bool   `json:"is_correct"`

	// Sub-score from the AI scorer for free-text (writing/speaking)
	// answers, 0-100. Nil for multiple-choice or while scoring is
	// still pending.
	AIScore *float64 `json:"ai_score,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
