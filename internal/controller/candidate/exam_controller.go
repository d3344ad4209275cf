package candidate

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Linnet/internal/auth"
	"github.com/lshigami/Linnet/internal/dto"
	"github.com/lshigami/Linnet/internal/repository"
	"github.com/lshigami/Linnet/internal/service"
	"github.com/rs/zerolog/log"
)

// ExamController exposes the candidate-facing session operations. The
// candidate identity always comes from the session token, so every
// engine call receives an explicit candidate ID.
type ExamController struct {
	sessionService    service.SessionService
	proctoringService service.ProctoringService
	scoringService    service.ScoringService
	candidateRepo     repository.CandidateRepository
	authService       *auth.Service
}

func NewExamController(
	sessionService service.SessionService,
	proctoringService service.ProctoringService,
	scoringService service.ScoringService,
	candidateRepo repository.CandidateRepository,
	authService *auth.Service,
) *ExamController {
	return &ExamController{
		sessionService:    sessionService,
		proctoringService: proctoringService,
		scoringService:    scoringService,
		candidateRepo:     candidateRepo,
		authService:       authService,
	}
}

// Login godoc
// @Summary (Candidate) Exchange an access code for a session token
// @Tags Candidate - Exam
// @Accept json
// @Produce json
// @Param credentials body dto.ExamLoginRequest true "Access code from the exam invite"
// @Success 200 {object} dto.ExamLoginResponse
// @Failure 401 {object} dto.ErrorResponse "Unknown access code"
// @Router /exam/login [post]
func (c *ExamController) Login(ctx *gin.Context) {
	var req dto.ExamLoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	candidate, err := c.candidateRepo.FindByAccessCode(req.AccessCode)
	if err != nil {
		log.Warn().Err(err).Msg("Exam login with unknown access code")
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Unknown access code"})
		return
	}

	// The token outlives the exam slightly so the result page still
	// loads after completion.
	validFor := time.Duration(candidate.ExamDurationMinutes)*time.Minute + time.Hour
	token, err := c.authService.IssueToken(candidate.ID, validFor)
	if err != nil {
		log.Error().Err(err).Uint("candidateID", candidate.ID).Msg("Failed to issue session token")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to issue session token"})
		return
	}

	ctx.JSON(http.StatusOK, dto.ExamLoginResponse{
		Token:       token,
		CandidateID: candidate.ID,
		FullName:    candidate.FullName,
		Status:      candidate.Status,
	})
}

// StartExam godoc
// @Summary (Candidate) Start the exam session
// @Description Sets the timer exactly once. Starting an already-started session fails.
// @Tags Candidate - Exam
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.SessionViewDTO
// @Failure 402 {object} dto.ErrorResponse "Company has no exam credits"
// @Failure 409 {object} dto.ErrorResponse "Session is not pending"
// @Router /exam/start [post]
func (c *ExamController) StartExam(ctx *gin.Context) {
	candidateID, ok := auth.CandidateID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "No candidate session"})
		return
	}

	view, err := c.sessionService.Start(candidateID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInsufficientCredits):
			ctx.JSON(http.StatusPaymentRequired, dto.ErrorResponse{Message: "No exam credits remaining"})
		case errors.Is(err, service.ErrInvalidTransition):
			ctx.JSON(http.StatusConflict, dto.ErrorResponse{Message: "Exam cannot be started from its current state"})
		default:
			log.Error().Err(err).Uint("candidateID", candidateID).Msg("StartExam failed")
			ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to start exam"})
		}
		return
	}
	ctx.JSON(http.StatusOK, view)
}

// GetSession godoc
// @Summary (Candidate) Current session view with the next question
// @Tags Candidate - Exam
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.SessionViewDTO
// @Router /exam/session [get]
func (c *ExamController) GetSession(ctx *gin.Context) {
	candidateID, ok := auth.CandidateID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "No candidate session"})
		return
	}

	view, err := c.sessionService.View(candidateID)
	if err != nil {
		log.Error().Err(err).Uint("candidateID", candidateID).Msg("GetSession failed")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to load session"})
		return
	}
	ctx.JSON(http.StatusOK, view)
}

// SubmitAnswer godoc
// @Summary (Candidate) Submit an answer for the current question
// @Description Terminal conditions (deadline passed, limit reached, duplicate) complete the exam and return the completed view, not an error.
// @Tags Candidate - Exam
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param answer body dto.SubmitAnswerRequest true "Question ID and response"
// @Success 200 {object} dto.SessionViewDTO
// @Failure 409 {object} dto.ErrorResponse "Session not in progress"
// @Router /exam/answers [post]
func (c *ExamController) SubmitAnswer(ctx *gin.Context) {
	candidateID, ok := auth.CandidateID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "No candidate session"})
		return
	}

	var req dto.SubmitAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	view, err := c.sessionService.SubmitAnswer(candidateID, req.QuestionID, req.Response)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionExpired),
			errors.Is(err, service.ErrSessionLimitReached),
			errors.Is(err, service.ErrDuplicateAnswer):
			// The exam is over; the candidate just sees "finished".
			ctx.JSON(http.StatusOK, view)
		case errors.Is(err, service.ErrInvalidTransition):
			ctx.JSON(http.StatusConflict, dto.ErrorResponse{Message: "Exam is not in progress"})
		default:
			log.Error().Err(err).Uint("candidateID", candidateID).Msg("SubmitAnswer failed")
			ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to submit answer"})
		}
		return
	}
	ctx.JSON(http.StatusOK, view)
}

// RecordProctoringEvent godoc
// @Summary (Candidate) Report a proctoring violation event
// @Tags Candidate - Exam
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param event body dto.ProctoringEventRequest true "Event type: focus_lost or anomaly"
// @Success 200 {object} map[string]float64
// @Router /exam/proctoring-events [post]
func (c *ExamController) RecordProctoringEvent(ctx *gin.Context) {
	candidateID, ok := auth.CandidateID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "No candidate session"})
		return
	}

	var req dto.ProctoringEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	trust, err := c.proctoringService.RecordEvent(candidateID, req.Type, req.Detail)
	if err != nil {
		if errors.Is(err, service.ErrInvalidTransition) {
			ctx.JSON(http.StatusConflict, dto.ErrorResponse{Message: "Exam is not in progress"})
			return
		}
		log.Error().Err(err).Uint("candidateID", candidateID).Msg("RecordProctoringEvent failed")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to record event"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"trust_score": trust})
}

// GetResult godoc
// @Summary (Candidate) Final exam result
// @Tags Candidate - Exam
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.ResultDTO
// @Failure 404 {object} dto.ErrorResponse "No result yet"
// @Router /exam/result [get]
func (c *ExamController) GetResult(ctx *gin.Context) {
	candidateID, ok := auth.CandidateID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "No candidate session"})
		return
	}

	result, err := c.scoringService.ResultFor(candidateID)
	if err != nil {
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "No result available yet"})
		return
	}
	ctx.JSON(http.StatusOK, result)
}
