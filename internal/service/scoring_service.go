package service

import (
	"fmt"
	"math"

	"github.com/lshigami/Linnet/internal/cefr"
	"github.com/lshigami/Linnet/internal/dto"
	"github.com/lshigami/Linnet/internal/model"
	"github.com/lshigami/Linnet/internal/repository"
	"github.com/rs/zerolog/log"
)

// Skill weights for the multi-skill exam flow. They sum to exactly 1.
var skillWeights = map[string]float64{
	model.SkillReading:    0.20,
	model.SkillListening:  0.20,
	model.SkillGrammar:    0.15,
	model.SkillVocabulary: 0.15,
	model.SkillWriting:    0.15,
	model.SkillSpeaking:   0.15,
}

// ScoringService turns a candidate's answers into the final overall
// score, CEFR level and IELTS band. Results are write-once: a sealed
// candidate is never recomputed.
type ScoringService interface {
	// ComputeResult fills the result fields on the candidate and
	// returns the result view. It does not persist the candidate; the
	// session state machine owns that write. Calling it on a sealed
	// candidate returns the stored result unchanged.
	ComputeResult(candidate *model.Candidate) (*dto.ResultDTO, error)

	// ResultFor loads and returns the stored result for a candidate.
	ResultFor(candidateID uint) (*dto.ResultDTO, error)

	// SetSkillScore records a sub-score (0-100) for one skill, written
	// back by the AI scorer. A score arriving after the result is
	// sealed is stored for reporting but never reopens the result.
	SetSkillScore(candidateID uint, skill string, score float64) error
}

type scoringService struct {
	candidateRepo repository.CandidateRepository
	answerRepo    repository.AnswerRepository
}

func NewScoringService(candidateRepo repository.CandidateRepository, answerRepo repository.AnswerRepository) ScoringService {
	return &scoringService{candidateRepo: candidateRepo, answerRepo: answerRepo}
}

func (s *scoringService) ComputeResult(candidate *model.Candidate) (*dto.ResultDTO, error) {
	if candidate.ResultSealed() {
		return s.buildResult(candidate)
	}

	answers, err := s.answerRepo.FindByCandidate(candidate.ID)
	if err != nil {
		return nil, fmt.Errorf("loading answers for candidate %d: %w", candidate.ID, err)
	}

	var overall float64
	if hasSkillScores(candidate) {
		overall = weightedScore(candidate)
	} else {
		// Single-section flow: plain correct ratio. Zero answers is an
		// explicit guard, not a division.
		correct := 0
		for _, a := range answers {
			if a.IsCorrect {
				correct++
			}
		}
		if len(answers) > 0 {
			overall = round1(100 * float64(correct) / float64(len(answers)))
		}
	}

	level := cefr.LevelForScore(overall)
	band := cefr.BandForScore(overall)

	candidate.OverallScore = &overall
	candidate.CEFRLevel = &level
	candidate.IELTSBand = &band

	return s.resultFromAnswers(candidate, answers)
}

func (s *scoringService) ResultFor(candidateID uint) (*dto.ResultDTO, error) {
	candidate, err := s.candidateRepo.FindByID(candidateID)
	if err != nil {
		return nil, fmt.Errorf("candidate %d not found: %w", candidateID, err)
	}
	if !candidate.ResultSealed() {
		return nil, fmt.Errorf("candidate %d has no computed result yet", candidateID)
	}
	return s.buildResult(candidate)
}

func (s *scoringService) SetSkillScore(candidateID uint, skill string, score float64) error {
	if _, ok := skillWeights[skill]; !ok {
		return fmt.Errorf("unknown skill %q", skill)
	}
	if score < 0 || score > 100 {
		return fmt.Errorf("skill score %.2f out of range 0-100", score)
	}

	candidate, err := s.candidateRepo.FindByID(candidateID)
	if err != nil {
		return fmt.Errorf("candidate %d not found: %w", candidateID, err)
	}
	if candidate.ResultSealed() {
		log.Warn().Uint("candidateID", candidateID).Str("skill", skill).
			Msg("Skill score arrived after result was sealed; stored without recomputing")
	}

	switch skill {
	case model.SkillGrammar:
		candidate.GrammarScore = &score
	case model.SkillVocabulary:
		candidate.VocabularyScore = &score
	case model.SkillReading:
		candidate.ReadingScore = &score
	case model.SkillListening:
		candidate.ListeningScore = &score
	case model.SkillWriting:
		candidate.WritingScore = &score
	case model.SkillSpeaking:
		candidate.SpeakingScore = &score
	}
	return s.candidateRepo.Update(candidate)
}

func (s *scoringService) buildResult(candidate *model.Candidate) (*dto.ResultDTO, error) {
	answers, err := s.answerRepo.FindByCandidate(candidate.ID)
	if err != nil {
		return nil, fmt.Errorf("loading answers for candidate %d: %w", candidate.ID, err)
	}
	return s.resultFromAnswers(candidate, answers)
}

func (s *scoringService) resultFromAnswers(candidate *model.Candidate, answers []model.Answer) (*dto.ResultDTO, error) {
	correct := 0
	for _, a := range answers {
		if a.IsCorrect {
			correct++
		}
	}

	result := &dto.ResultDTO{
		CandidateID:    candidate.ID,
		CorrectCount:   correct,
		TotalCount:     len(answers),
		TrustScore:     candidate.TrustScore,
		CertificateRef: candidate.CertificateRef,
		CompletedAt:    candidate.CompletedAt,
		Skills:         skillBreakdown(candidate),
	}
	if candidate.OverallScore != nil {
		result.OverallScore = *candidate.OverallScore
	}
	if candidate.CEFRLevel != nil {
		result.CEFRLevel = *candidate.CEFRLevel
		result.Description = candidate.CEFRLevel.Description()
	}
	if candidate.IELTSBand != nil {
		result.IELTSBand = *candidate.IELTSBand
	}
	return result, nil
}

func skillBreakdown(candidate *model.Candidate) map[string]dto.SkillResultDTO {
	scores := map[string]*float64{
		model.SkillGrammar:    candidate.GrammarScore,
		model.SkillVocabulary: candidate.VocabularyScore,
		model.SkillReading:    candidate.ReadingScore,
		model.SkillListening:  candidate.ListeningScore,
		model.SkillWriting:    candidate.WritingScore,
		model.SkillSpeaking:   candidate.SpeakingScore,
	}
	out := make(map[string]dto.SkillResultDTO)
	for skill, score := range scores {
		if score == nil {
			continue
		}
		level := cefr.LevelForScore(*score)
		out[skill] = dto.SkillResultDTO{
			Score: *score,
			Level: level,
			Band:  cefr.BandForLevel(level),
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func hasSkillScores(candidate *model.Candidate) bool {
	return candidate.GrammarScore != nil || candidate.VocabularyScore != nil ||
		candidate.ReadingScore != nil || candidate.ListeningScore != nil ||
		candidate.WritingScore != nil || candidate.SpeakingScore != nil
}

func weightedScore(candidate *model.Candidate) float64 {
	val := func(p *float64) float64 {
		if p == nil {
			return 0
		}
		return *p
	}
	total := val(candidate.ReadingScore)*skillWeights[model.SkillReading] +
		val(candidate.ListeningScore)*skillWeights[model.SkillListening] +
		val(candidate.GrammarScore)*skillWeights[model.SkillGrammar] +
		val(candidate.VocabularyScore)*skillWeights[model.SkillVocabulary] +
		val(candidate.WritingScore)*skillWeights[model.SkillWriting] +
		val(candidate.SpeakingScore)*skillWeights[model.SkillSpeaking]
	return round1(total)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
