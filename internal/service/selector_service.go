package service

import (
	"fmt"

	"github.com/lshigami/Linnet/internal/cefr"
	"github.com/lshigami/Linnet/internal/model"
	"github.com/lshigami/Linnet/internal/repository"
	"github.com/rs/zerolog/log"
)

// fallbackOrder is the fixed level-search order used when the pool at
// the candidate's current difficulty is empty. It starts from the
// middle of the scale rather than expanding to neighbors; the order is
// load-bearing for reproducibility and must not be reordered.
var fallbackOrder = []cefr.Level{cefr.B1, cefr.A2, cefr.B2, cefr.A1, cefr.C1, cefr.C2}

// SelectorService picks the next question for an in-progress session.
// Selection within a pool is uniform random with no exposure
// weighting, so heavily-exposed items are not deprioritized; that is a
// known limitation of the design, not an oversight.
type SelectorService interface {
	// SelectNext returns a question at the candidate's current
	// difficulty, falling back across levels in fallbackOrder. Returns
	// ErrNoQuestionsAvailable when every level is exhausted, which the
	// session treats as "exam over, insufficient bank".
	SelectNext(candidate *model.Candidate, answeredIDs []uint) (*model.Question, error)
}

type selectorService struct {
	questionRepo repository.QuestionRepository
}

func NewSelectorService(questionRepo repository.QuestionRepository) SelectorService {
	return &selectorService{questionRepo: questionRepo}
}

func (s *selectorService) SelectNext(candidate *model.Candidate, answeredIDs []uint) (*model.Question, error) {
	question, err := s.questionRepo.FindRandomEligible(candidate.CompanyID, candidate.CurrentDifficulty, answeredIDs)
	if err != nil {
		return nil, fmt.Errorf("selecting question at %s: %w", candidate.CurrentDifficulty, err)
	}
	if question != nil {
		return question, nil
	}

	// The current level may appear again in the fixed order; the
	// redundant lookup is kept so the search matches the documented
	// sequence exactly.
	for _, level := range fallbackOrder {
		question, err = s.questionRepo.FindRandomEligible(candidate.CompanyID, level, answeredIDs)
		if err != nil {
			return nil, fmt.Errorf("selecting question at fallback %s: %w", level, err)
		}
		if question != nil {
			log.Info().Uint("candidateID", candidate.ID).
				Str("wanted", string(candidate.CurrentDifficulty)).
				Str("got", string(level)).
				Msg("Question pool empty at current difficulty, used fallback level")
			return question, nil
		}
	}

	return nil, ErrNoQuestionsAvailable
}
