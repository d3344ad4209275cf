package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lshigami/Linnet/internal/dto"
	"github.com/lshigami/Linnet/internal/event"
	"github.com/lshigami/Linnet/internal/model"
	"github.com/lshigami/Linnet/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// SessionPolicy are the tunable session semantics.
type SessionPolicy struct {
	// ExtendDeadlineOnPause adds the paused duration to the deadline on
	// resume. The default (false) matches the historical behavior:
	// exam time keeps running while paused.
	ExtendDeadlineOnPause bool
}

// SessionService owns the exam session lifecycle:
//
//	Pending -> InProgress -> {Paused, Completed}, Paused -> InProgress.
//
// Completed is terminal. It is the only component allowed to mutate a
// candidate's current difficulty, and the only caller of the scoring
// pipeline. Remaining time is always recomputed server-side from the
// stored deadline; nothing from the client clock is trusted.
type SessionService interface {
	Start(candidateID uint) (*dto.SessionViewDTO, error)
	SubmitAnswer(candidateID, questionID uint, response string) (*dto.SessionViewDTO, error)
	Pause(candidateID uint) (*dto.SessionViewDTO, error)
	Resume(candidateID uint) (*dto.SessionViewDTO, error)
	Complete(candidateID uint) (*dto.ResultDTO, error)
	View(candidateID uint) (*dto.SessionViewDTO, error)
}

type sessionService struct {
	candidateRepo repository.CandidateRepository
	questionRepo  repository.QuestionRepository
	answerRepo    repository.AnswerRepository
	selector      SelectorService
	scoring       ScoringService
	credits       CreditService
	publisher     event.Publisher
	aiScorer      AIScorerService
	policy        SessionPolicy
	now           func() time.Time
}

func NewSessionService(
	candidateRepo repository.CandidateRepository,
	questionRepo repository.QuestionRepository,
	answerRepo repository.AnswerRepository,
	selector SelectorService,
	scoring ScoringService,
	credits CreditService,
	publisher event.Publisher,
	aiScorer AIScorerService,
	policy SessionPolicy,
) SessionService {
	return &sessionService{
		candidateRepo: candidateRepo,
		questionRepo:  questionRepo,
		answerRepo:    answerRepo,
		selector:      selector,
		scoring:       scoring,
		credits:       credits,
		publisher:     publisher,
		aiScorer:      aiScorer,
		policy:        policy,
		now:           time.Now,
	}
}

func (s *sessionService) Start(candidateID uint) (*dto.SessionViewDTO, error) {
	candidate, err := s.candidateRepo.FindByID(candidateID)
	if err != nil {
		return nil, fmt.Errorf("candidate %d not found: %w", candidateID, err)
	}
	if candidate.Status != model.StatusPending {
		// Calling Start twice must not reset the timer.
		return nil, fmt.Errorf("start from status %q: %w", candidate.Status, ErrInvalidTransition)
	}
	if err := s.credits.CheckBalance(candidate.CompanyID); err != nil {
		return nil, err
	}

	startedAt := s.now()
	deadline := startedAt.Add(time.Duration(candidate.ExamDurationMinutes) * time.Minute)

	// Conditional write keyed on status=pending: at most one of two
	// concurrent Start calls can win.
	ok, err := s.candidateRepo.MarkInProgress(candidateID, startedAt, deadline)
	if err != nil {
		return nil, fmt.Errorf("starting session for candidate %d: %w", candidateID, err)
	}
	if !ok {
		return nil, fmt.Errorf("session already started: %w", ErrInvalidTransition)
	}

	candidate.Status = model.StatusInProgress
	candidate.StartedAt = &startedAt
	candidate.Deadline = &deadline

	log.Info().Uint("candidateID", candidateID).Time("deadline", deadline).Msg("Exam session started")
	return s.buildView(candidate)
}

func (s *sessionService) SubmitAnswer(candidateID, questionID uint, response string) (*dto.SessionViewDTO, error) {
	candidate, err := s.candidateRepo.FindByID(candidateID)
	if err != nil {
		return nil, fmt.Errorf("candidate %d not found: %w", candidateID, err)
	}
	if candidate.Status != model.StatusInProgress {
		return nil, fmt.Errorf("submit from status %q: %w", candidate.Status, ErrInvalidTransition)
	}

	if candidate.Deadline == nil || !s.now().Before(*candidate.Deadline) {
		return s.completeWith(candidate, ErrSessionExpired)
	}

	answered, err := s.answerRepo.CountByCandidate(candidateID)
	if err != nil {
		return nil, fmt.Errorf("counting answers for candidate %d: %w", candidateID, err)
	}
	if int(answered) >= candidate.QuestionLimit {
		return s.completeWith(candidate, ErrSessionLimitReached)
	}

	question, err := s.questionRepo.FindByID(questionID)
	if err != nil {
		return nil, fmt.Errorf("question %d not found: %w", questionID, err)
	}

	answer := &model.Answer{
		CandidateID:   candidateID,
		QuestionID:    questionID,
		GivenResponse: response,
		IsCorrect:     isCorrect(question, response),
	}
	if err := s.answerRepo.Create(answer); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// A replayed submission ends the session.
			return s.completeWith(candidate, ErrDuplicateAnswer)
		}
		return nil, fmt.Errorf("recording answer for candidate %d: %w", candidateID, err)
	}

	if err := s.questionRepo.IncrementStats(questionID, answer.IsCorrect); err != nil {
		// Calibration counters are advisory; the answer itself is safe.
		log.Error().Err(err).Uint("questionID", questionID).Msg("Failed to update question response counters")
	}

	// Single-step adaptive ladder: one rung up on correct, one rung
	// down on incorrect, clamped at A1/C2.
	if answer.IsCorrect {
		candidate.CurrentDifficulty = candidate.CurrentDifficulty.Step(1)
	} else {
		candidate.CurrentDifficulty = candidate.CurrentDifficulty.Step(-1)
	}
	if err := s.candidateRepo.Update(candidate); err != nil {
		return nil, fmt.Errorf("updating difficulty for candidate %d: %w", candidateID, err)
	}

	if question.Type != model.TypeMultipleChoice && s.aiScorer != nil {
		s.dispatchAIScoring(candidate.ID, answer.ID, question, response)
	}

	if int(answered)+1 >= candidate.QuestionLimit {
		if _, err := s.Complete(candidateID); err != nil {
			return nil, err
		}
		candidate.Status = model.StatusCompleted
		return s.completedView(candidate, int(answered)+1), nil
	}

	return s.buildView(candidate)
}

func (s *sessionService) Pause(candidateID uint) (*dto.SessionViewDTO, error) {
	candidate, err := s.candidateRepo.FindByID(candidateID)
	if err != nil {
		return nil, fmt.Errorf("candidate %d not found: %w", candidateID, err)
	}
	if candidate.Status != model.StatusInProgress {
		return nil, fmt.Errorf("pause from status %q: %w", candidate.Status, ErrInvalidTransition)
	}

	now := s.now()
	candidate.Status = model.StatusPaused
	candidate.PausedAt = &now
	candidate.PauseCount++
	if err := s.candidateRepo.Update(candidate); err != nil {
		return nil, fmt.Errorf("pausing candidate %d: %w", candidateID, err)
	}
	log.Info().Uint("candidateID", candidateID).Msg("Exam session paused")
	return s.buildViewWithoutQuestion(candidate)
}

func (s *sessionService) Resume(candidateID uint) (*dto.SessionViewDTO, error) {
	candidate, err := s.candidateRepo.FindByID(candidateID)
	if err != nil {
		return nil, fmt.Errorf("candidate %d not found: %w", candidateID, err)
	}
	if candidate.Status != model.StatusPaused {
		return nil, fmt.Errorf("resume from status %q: %w", candidate.Status, ErrInvalidTransition)
	}

	now := s.now()
	if candidate.PausedAt != nil {
		paused := now.Sub(*candidate.PausedAt)
		candidate.TotalPausedSeconds += int(paused.Seconds())
		if s.policy.ExtendDeadlineOnPause && candidate.Deadline != nil {
			extended := candidate.Deadline.Add(paused)
			candidate.Deadline = &extended
		}
	}
	candidate.Status = model.StatusInProgress
	candidate.PausedAt = nil
	if err := s.candidateRepo.Update(candidate); err != nil {
		return nil, fmt.Errorf("resuming candidate %d: %w", candidateID, err)
	}
	log.Info().Uint("candidateID", candidateID).Msg("Exam session resumed")
	return s.buildView(candidate)
}

// Complete finalizes the session. It is idempotent: completing an
// already-completed candidate returns the stored result and performs
// no side effects, so concurrent completion triggers cannot double-
// score, double-bill or double-notify.
func (s *sessionService) Complete(candidateID uint) (*dto.ResultDTO, error) {
	candidate, err := s.candidateRepo.FindByID(candidateID)
	if err != nil {
		return nil, fmt.Errorf("candidate %d not found: %w", candidateID, err)
	}
	if candidate.Status == model.StatusCompleted {
		return s.scoring.ResultFor(candidateID)
	}
	if candidate.Status == model.StatusPending {
		return nil, fmt.Errorf("complete from status %q: %w", candidate.Status, ErrInvalidTransition)
	}

	result, err := s.scoring.ComputeResult(candidate)
	if err != nil {
		return nil, fmt.Errorf("scoring candidate %d: %w", candidateID, err)
	}

	now := s.now()
	candidate.Status = model.StatusCompleted
	candidate.CompletedAt = &now
	candidate.CertificateRef = uuid.NewString()
	result.CertificateRef = candidate.CertificateRef
	result.CompletedAt = candidate.CompletedAt

	if err := s.candidateRepo.Update(candidate); err != nil {
		return nil, fmt.Errorf("completing candidate %d: %w", candidateID, err)
	}

	if err := s.credits.DeductUnit(candidate.CompanyID); err != nil {
		// The exam already happened; billing shortfall is reported, not
		// rolled back.
		log.Error().Err(err).Uint("companyID", candidate.CompanyID).Msg("Credit deduction failed on completion")
	}

	if s.publisher != nil {
		evt := &event.ExamCompleted{
			CandidateID:    candidate.ID,
			CompanyID:      candidate.CompanyID,
			Score:          result.OverallScore,
			CEFRLevel:      result.CEFRLevel,
			IELTSBand:      result.IELTSBand,
			CertificateRef: candidate.CertificateRef,
			CompletedAt:    now,
		}
		if err := s.publisher.PublishExamCompleted(context.Background(), evt); err != nil {
			log.Error().Err(err).Uint("candidateID", candidateID).Msg("Failed to publish ExamCompleted event")
		}
	}

	log.Info().Uint("candidateID", candidateID).
		Float64("score", result.OverallScore).
		Str("cefr", string(result.CEFRLevel)).
		Msg("Exam session completed")
	return result, nil
}

func (s *sessionService) View(candidateID uint) (*dto.SessionViewDTO, error) {
	candidate, err := s.candidateRepo.FindByID(candidateID)
	if err != nil {
		return nil, fmt.Errorf("candidate %d not found: %w", candidateID, err)
	}
	switch candidate.Status {
	case model.StatusInProgress:
		if candidate.Deadline != nil && !s.now().Before(*candidate.Deadline) {
			view, _ := s.completeWith(candidate, ErrSessionExpired)
			return view, nil
		}
		return s.buildView(candidate)
	default:
		return s.buildViewWithoutQuestion(candidate)
	}
}

// completeWith finalizes the session for a terminal submit condition
// and returns the completed view together with the condition, so the
// transport layer can tell "exam finished" apart from a caller bug.
func (s *sessionService) completeWith(candidate *model.Candidate, cause error) (*dto.SessionViewDTO, error) {
	if _, err := s.Complete(candidate.ID); err != nil {
		return nil, fmt.Errorf("auto-completing candidate %d after %v: %w", candidate.ID, cause, err)
	}
	log.Info().Uint("candidateID", candidate.ID).AnErr("cause", cause).Msg("Session auto-completed")
	candidate.Status = model.StatusCompleted
	answered, _ := s.answerRepo.CountByCandidate(candidate.ID)
	return s.completedView(candidate, int(answered)), cause
}

func (s *sessionService) buildView(candidate *model.Candidate) (*dto.SessionViewDTO, error) {
	answered, err := s.answerRepo.CountByCandidate(candidate.ID)
	if err != nil {
		return nil, fmt.Errorf("counting answers for candidate %d: %w", candidate.ID, err)
	}

	view := &dto.SessionViewDTO{
		CandidateID:       candidate.ID,
		Status:            candidate.Status,
		RemainingSeconds:  s.remainingSeconds(candidate),
		AnsweredCount:     int(answered),
		QuestionLimit:     candidate.QuestionLimit,
		CurrentDifficulty: candidate.CurrentDifficulty,
	}
	if candidate.Status != model.StatusInProgress {
		view.Completed = candidate.Status == model.StatusCompleted
		return view, nil
	}

	answeredIDs, err := s.answerRepo.AnsweredQuestionIDs(candidate.ID)
	if err != nil {
		return nil, fmt.Errorf("loading answered question ids for candidate %d: %w", candidate.ID, err)
	}
	question, err := s.selector.SelectNext(candidate, answeredIDs)
	if errors.Is(err, ErrNoQuestionsAvailable) {
		// Bank exhausted: the exam completes with whatever exists.
		if _, cerr := s.Complete(candidate.ID); cerr != nil {
			return nil, cerr
		}
		candidate.Status = model.StatusCompleted
		return s.completedView(candidate, int(answered)), nil
	}
	if err != nil {
		return nil, err
	}
	view.NextQuestion = questionView(question)
	return view, nil
}

func (s *sessionService) buildViewWithoutQuestion(candidate *model.Candidate) (*dto.SessionViewDTO, error) {
	answered, err := s.answerRepo.CountByCandidate(candidate.ID)
	if err != nil {
		return nil, fmt.Errorf("counting answers for candidate %d: %w", candidate.ID, err)
	}
	return &dto.SessionViewDTO{
		CandidateID:       candidate.ID,
		Status:            candidate.Status,
		RemainingSeconds:  s.remainingSeconds(candidate),
		AnsweredCount:     int(answered),
		QuestionLimit:     candidate.QuestionLimit,
		CurrentDifficulty: candidate.CurrentDifficulty,
		Completed:         candidate.Status == model.StatusCompleted,
	}, nil
}

func (s *sessionService) completedView(candidate *model.Candidate, answered int) *dto.SessionViewDTO {
	return &dto.SessionViewDTO{
		CandidateID:       candidate.ID,
		Status:            model.StatusCompleted,
		RemainingSeconds:  s.remainingSeconds(candidate),
		AnsweredCount:     answered,
		QuestionLimit:     candidate.QuestionLimit,
		CurrentDifficulty: candidate.CurrentDifficulty,
		Completed:         true,
	}
}

func (s *sessionService) remainingSeconds(candidate *model.Candidate) int {
	if candidate.Deadline == nil || candidate.Status == model.StatusCompleted {
		return 0
	}
	remaining := int(candidate.Deadline.Sub(s.now()).Seconds())
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (s *sessionService) dispatchAIScoring(candidateID, answerID uint, question *model.Question, response string) {
	// Fire-and-forget: the sub-score lands later as a normal skill
	// score; nothing in the submit path waits for it.
	go func() {
		score, err := s.aiScorer.ScoreResponse(question, response)
		if err != nil {
			log.Error().Err(err).Uint("answerID", answerID).Msg("AI scoring failed")
			return
		}
		if err := s.answerRepo.UpdateAIScore(answerID, score); err != nil {
			log.Error().Err(err).Uint("answerID", answerID).Msg("Failed to store AI sub-score on answer")
		}
		if err := s.scoring.SetSkillScore(candidateID, question.Category, score); err != nil {
			log.Error().Err(err).Uint("candidateID", candidateID).Str("skill", question.Category).
				Msg("Failed to store AI skill score")
		}
	}()
}

// isCorrect matches the response against the answer key: exact match,
// case-insensitive for multiple-choice option letters. Free-text
// questions rarely carry a key; their real score arrives later from
// the AI scorer and does not change IsCorrect.
func isCorrect(question *model.Question, response string) bool {
	if question.Type == model.TypeMultipleChoice {
		return strings.EqualFold(strings.TrimSpace(response), strings.TrimSpace(question.CorrectAnswer))
	}
	return question.CorrectAnswer != "" && strings.TrimSpace(response) == strings.TrimSpace(question.CorrectAnswer)
}

func questionView(q *model.Question) *dto.QuestionDTO {
	return &dto.QuestionDTO{
		ID:         q.ID,
		Text:       q.Text,
		OptionA:    q.OptionA,
		OptionB:    q.OptionB,
		OptionC:    q.OptionC,
		OptionD:    q.OptionD,
		Category:   q.Category,
		Difficulty: q.Difficulty,
		Type:       q.Type,
	}
}
