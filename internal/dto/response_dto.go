package dto

import (
	"time"

	"github.com/lshigami/Linnet/internal/cefr"
)

type ErrorResponse struct {
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

type ExamLoginResponse struct {
	Token       string `json:"token"`
	CandidateID uint   `json:"candidate_id"`
	FullName    string `json:"full_name"`
	Status      string `json:"status"`
}

// QuestionDTO is the candidate-facing question view. The correct
// answer never leaves the server.
type QuestionDTO struct {
	ID         uint       `json:"id"`
	Text       string     `json:"text"`
	OptionA    *string    `json:"option_a,omitempty"`
	OptionB    *string    `json:"option_b,omitempty"`
	OptionC    *string    `json:"option_c,omitempty"`
	OptionD    *string    `json:"option_d,omitempty"`
	Category   string     `json:"category"`
	Difficulty cefr.Level `json:"difficulty"`
	Type       string     `json:"type"`
}

// SessionViewDTO is returned from every session operation: the
// candidate's live view of the exam.
type SessionViewDTO struct {
	CandidateID       uint         `json:"candidate_id"`
	Status            string       `json:"status"`
	RemainingSeconds  int          `json:"remaining_seconds"`
	AnsweredCount     int          `json:"answered_count"`
	QuestionLimit     int          `json:"question_limit"`
	CurrentDifficulty cefr.Level   `json:"current_difficulty"`
	NextQuestion      *QuestionDTO `json:"next_question,omitempty"`
	Completed         bool         `json:"completed"`
}

type SkillResultDTO struct {
	Score float64    `json:"score"`
	Level cefr.Level `json:"level"`
	Band  float64    `json:"band"`
}

type ResultDTO struct {
	CandidateID    uint                      `json:"candidate_id"`
	OverallScore   float64                   `json:"overall_score"`
	CEFRLevel      cefr.Level                `json:"cefr_level"`
	IELTSBand      float64                   `json:"ielts_band"`
	Description    string                    `json:"description,omitempty"`
	Skills         map[string]SkillResultDTO `json:"skills,omitempty"`
	CorrectCount   int                       `json:"correct_count"`
	TotalCount     int                       `json:"total_count"`
	TrustScore     float64                   `json:"trust_score"`
	CertificateRef string                    `json:"certificate_ref,omitempty"`
	CompletedAt    *time.Time                `json:"completed_at,omitempty"`
}

type CandidateSummaryDTO struct {
	ID                uint        `json:"id"`
	FullName          string      `json:"full_name"`
	Email             string      `json:"email,omitempty"`
	Status            string      `json:"status"`
	OverallScore      *float64    `json:"overall_score,omitempty"`
	CEFRLevel         *cefr.Level `json:"cefr_level,omitempty"`
	IELTSBand         *float64    `json:"ielts_band,omitempty"`
	TrustScore        float64     `json:"trust_score"`
	CompletedAt       *time.Time  `json:"completed_at,omitempty"`
	CertificateRef    string      `json:"certificate_ref,omitempty"`
	CurrentDifficulty cefr.Level  `json:"current_difficulty"`
}

type CreatedCandidateDTO struct {
	ID         uint   `json:"id"`
	FullName   string `json:"full_name"`
	AccessCode string `json:"access_code"`
}

type CalibrationItemDTO struct {
	QuestionID           uint       `json:"question_id"`
	LabeledDifficulty    cefr.Level `json:"labeled_difficulty"`
	CalculatedDifficulty float64    `json:"calculated_difficulty"`
	Warning              bool       `json:"warning"`
	SuggestedLevel       cefr.Level `json:"suggested_level"`
}

type CalibrationReportDTO struct {
	Total      int                  `json:"total"`
	Calibrated int                  `json:"calibrated"`
	Warnings   int                  `json:"warnings"`
	Failed     int                  `json:"failed"`
	Items      []CalibrationItemDTO `json:"items,omitempty"`
	RanAt      time.Time            `json:"ran_at"`
}

type CertificateDTO struct {
	FullName    string     `json:"full_name"`
	CEFRLevel   cefr.Level `json:"cefr_level"`
	IELTSBand   float64    `json:"ielts_band"`
	Score       float64    `json:"score"`
	Description string     `json:"description"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Valid       bool       `json:"valid"`
}
