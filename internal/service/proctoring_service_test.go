package service

import (
	"errors"
	"testing"

	"github.com/lshigami/Linnet/internal/model"
)

func proctoringFixture(status string) (ProctoringService, *model.Candidate, *fakeProctoringRepo) {
	candidate := &model.Candidate{ID: 1, Status: status, TrustScore: 100}
	eventRepo := &fakeProctoringRepo{}
	svc := NewProctoringService(newFakeCandidateRepo(candidate), eventRepo)
	return svc, candidate, eventRepo
}

func TestRecordEventPenalties(t *testing.T) {
	tests := []struct {
		name      string
		eventType string
		wantTrust float64
	}{
		{"focus lost costs five", model.EventFocusLost, 95},
		{"anomaly costs ten", model.EventAnomaly, 90},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, candidate, eventRepo := proctoringFixture(model.StatusInProgress)

			trust, err := svc.RecordEvent(1, tt.eventType, "tab switch")
			if err != nil {
				t.Fatalf("RecordEvent() error = %v", err)
			}
			if trust != tt.wantTrust {
				t.Errorf("trust = %.0f, want %.0f", trust, tt.wantTrust)
			}
			if candidate.TrustScore != tt.wantTrust {
				t.Errorf("stored trust = %.0f, want %.0f", candidate.TrustScore, tt.wantTrust)
			}
			if len(eventRepo.events) != 1 {
				t.Fatalf("event rows = %d, want 1", len(eventRepo.events))
			}
			if eventRepo.events[0].Type != tt.eventType {
				t.Errorf("event type = %q, want %q", eventRepo.events[0].Type, tt.eventType)
			}
		})
	}
}

func TestRecordEventIncrementsCounters(t *testing.T) {
	svc, candidate, _ := proctoringFixture(model.StatusInProgress)

	svc.RecordEvent(1, model.EventFocusLost, "")
	svc.RecordEvent(1, model.EventFocusLost, "")
	svc.RecordEvent(1, model.EventAnomaly, "")

	if candidate.FocusLostCount != 2 {
		t.Errorf("FocusLostCount = %d, want 2", candidate.FocusLostCount)
	}
	if candidate.AnomalyCount != 1 {
		t.Errorf("AnomalyCount = %d, want 1", candidate.AnomalyCount)
	}
	if candidate.TrustScore != 80 {
		t.Errorf("trust = %.0f, want 80", candidate.TrustScore)
	}
}

func TestTrustScoreHasNoFloor(t *testing.T) {
	svc, candidate, _ := proctoringFixture(model.StatusInProgress)

	var trust float64
	for i := 0; i < 11; i++ {
		trust, _ = svc.RecordEvent(1, model.EventAnomaly, "")
	}
	if trust != -10 {
		t.Errorf("trust = %.0f, want -10 (no floor)", trust)
	}
	if candidate.TrustScore != -10 {
		t.Errorf("stored trust = %.0f, want -10", candidate.TrustScore)
	}
}

func TestRecordEventRejectedOutsideActiveSession(t *testing.T) {
	for _, status := range []string{model.StatusPending, model.StatusPaused, model.StatusCompleted} {
		t.Run(status, func(t *testing.T) {
			svc, candidate, eventRepo := proctoringFixture(status)

			_, err := svc.RecordEvent(1, model.EventFocusLost, "")
			if !errors.Is(err, ErrInvalidTransition) {
				t.Fatalf("RecordEvent() error = %v, want ErrInvalidTransition", err)
			}
			if candidate.TrustScore != 100 {
				t.Errorf("trust = %.0f, want untouched 100", candidate.TrustScore)
			}
			if len(eventRepo.events) != 0 {
				t.Errorf("event rows = %d, want 0", len(eventRepo.events))
			}
		})
	}
}

func TestRecordEventUnknownType(t *testing.T) {
	svc, candidate, _ := proctoringFixture(model.StatusInProgress)

	if _, err := svc.RecordEvent(1, "mind_reading", ""); err == nil {
		t.Fatal("RecordEvent() with unknown type returned nil error")
	}
	if candidate.TrustScore != 100 {
		t.Errorf("trust = %.0f, want untouched 100", candidate.TrustScore)
	}
}

func TestRecordEventSurvivesEventLogFailure(t *testing.T) {
	svc, candidate, eventRepo := proctoringFixture(model.StatusInProgress)
	eventRepo.err = errors.New("event store down")

	trust, err := svc.RecordEvent(1, model.EventAnomaly, "")
	if err != nil {
		t.Fatalf("RecordEvent() error = %v, want nil (log failure is non-fatal)", err)
	}
	if trust != 90 {
		t.Errorf("trust = %.0f, want 90", trust)
	}
	if candidate.AnomalyCount != 1 {
		t.Errorf("AnomalyCount = %d, want 1", candidate.AnomalyCount)
	}
}
