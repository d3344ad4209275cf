package dto

import "github.com/lshigami/Linnet/internal/cefr"

// ExamLoginRequest authenticates a candidate with the access code sent
// by the invite flow.
type ExamLoginRequest struct {
	AccessCode string `json:"access_code" binding:"required"`
}

type SubmitAnswerRequest struct {
	QuestionID uint   `json:"question_id" binding:"required"`
	Response   string `json:"response" binding:"required"`
}

type ProctoringEventRequest struct {
	Type   string `json:"type" binding:"required,oneof=focus_lost anomaly"`
	Detail string `json:"detail"`
}

type CreateCandidateRequest struct {
	FullName            string     `json:"full_name" binding:"required"`
	Email               string     `json:"email" binding:"omitempty,email"`
	CompanyID           uint       `json:"company_id" binding:"required"`
	ExamDurationMinutes int        `json:"exam_duration_minutes" binding:"omitempty,min=1,max=480"`
	QuestionLimit       int        `json:"question_limit" binding:"omitempty,min=1,max=200"`
	StartLevel          cefr.Level `json:"start_level" binding:"omitempty,oneof=A1 A2 B1 B2 C1 C2"`
}

type CreateQuestionRequest struct {
	Text          string     `json:"text" binding:"required"`
	OptionA       *string    `json:"option_a"`
	OptionB       *string    `json:"option_b"`
	OptionC       *string    `json:"option_c"`
	OptionD       *string    `json:"option_d"`
	CorrectAnswer string     `json:"correct_answer" binding:"required"`
	Category      string     `json:"category" binding:"required,oneof=grammar vocabulary reading listening writing speaking"`
	Difficulty    cefr.Level `json:"difficulty" binding:"required,oneof=A1 A2 B1 B2 C1 C2"`
	Type          string     `json:"type" binding:"omitempty,oneof=multiple_choice writing speaking"`
	CompanyID     *uint      `json:"company_id"`
}
