package service

import (
	"fmt"

	"github.com/lshigami/Linnet/internal/model"
	"github.com/lshigami/Linnet/internal/repository"
	"github.com/rs/zerolog/log"
)

// Trust penalties per proctoring event type.
const (
	penaltyFocusLost = 5.0
	penaltyAnomaly   = 10.0
)

// ProctoringService accumulates proctoring violations into the
// candidate's trust score. The score starts at 100 and only decreases;
// there is deliberately no floor, so a badly-behaved session can go
// negative.
type ProctoringService interface {
	// RecordEvent applies one violation. Valid only while the session
	// is in progress. Returns the updated trust score.
	RecordEvent(candidateID uint, eventType, detail string) (float64, error)
}

type proctoringService struct {
	candidateRepo repository.CandidateRepository
	eventRepo     repository.ProctoringEventRepository
}

func NewProctoringService(candidateRepo repository.CandidateRepository, eventRepo repository.ProctoringEventRepository) ProctoringService {
	return &proctoringService{candidateRepo: candidateRepo, eventRepo: eventRepo}
}

func (s *proctoringService) RecordEvent(candidateID uint, eventType, detail string) (float64, error) {
	candidate, err := s.candidateRepo.FindByID(candidateID)
	if err != nil {
		return 0, fmt.Errorf("candidate %d not found: %w", candidateID, err)
	}
	if candidate.Status != model.StatusInProgress {
		return candidate.TrustScore, fmt.Errorf("proctoring event outside active session: %w", ErrInvalidTransition)
	}

	var penalty float64
	switch eventType {
	case model.EventFocusLost:
		penalty = penaltyFocusLost
		candidate.FocusLostCount++
	case model.EventAnomaly:
		penalty = penaltyAnomaly
		candidate.AnomalyCount++
	default:
		return candidate.TrustScore, fmt.Errorf("unknown proctoring event type %q", eventType)
	}

	candidate.TrustScore -= penalty
	if err := s.candidateRepo.Update(candidate); err != nil {
		return 0, fmt.Errorf("updating trust score for candidate %d: %w", candidateID, err)
	}

	if err := s.eventRepo.Create(&model.ProctoringEvent{
		CandidateID: candidateID,
		Type:        eventType,
		Detail:      detail,
		Penalty:     penalty,
	}); err != nil {
		// Counters on the candidate are authoritative; the event log is
		// for the fraud report only.
		log.Error().Err(err).Uint("candidateID", candidateID).Msg("Failed to persist proctoring event row")
	}

	log.Warn().Uint("candidateID", candidateID).Str("type", eventType).
		Float64("trustScore", candidate.TrustScore).
		Msg("Proctoring violation recorded")
	return candidate.TrustScore, nil
}
