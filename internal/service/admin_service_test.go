package service

import (
	"testing"
	"time"

	"github.com/lshigami/Linnet/internal/cefr"
	"github.com/lshigami/Linnet/internal/dto"
	"github.com/lshigami/Linnet/internal/model"
)

func adminFixture(candidates ...*model.Candidate) (AdminService, *fakeCandidateRepo, *fakeQuestionRepo) {
	candidateRepo := newFakeCandidateRepo(candidates...)
	questionRepo := newFakeQuestionRepo()
	companyRepo := newFakeCompanyRepo(&model.Company{ID: 1, Name: "Acme", Credits: 3})
	return NewAdminService(candidateRepo, questionRepo, companyRepo), candidateRepo, questionRepo
}

func TestCreateCandidateDefaults(t *testing.T) {
	svc, candidateRepo, _ := adminFixture()

	created, err := svc.CreateCandidate(dto.CreateCandidateRequest{
		FullName:  "Mika Tanaka",
		Email:     "mika@example.com",
		CompanyID: 1,
	})
	if err != nil {
		t.Fatalf("CreateCandidate() error = %v", err)
	}
	if len(created.AccessCode) != 8 {
		t.Errorf("access code %q, want 8 characters", created.AccessCode)
	}

	c, _ := candidateRepo.FindByID(created.ID)
	if c.ExamDurationMinutes != 30 {
		t.Errorf("ExamDurationMinutes = %d, want default 30", c.ExamDurationMinutes)
	}
	if c.QuestionLimit != 25 {
		t.Errorf("QuestionLimit = %d, want default 25", c.QuestionLimit)
	}
	if c.CurrentDifficulty != cefr.B1 {
		t.Errorf("CurrentDifficulty = %s, want B1", c.CurrentDifficulty)
	}
	if c.Status != model.StatusPending {
		t.Errorf("Status = %q, want pending", c.Status)
	}
	if c.TrustScore != 100 {
		t.Errorf("TrustScore = %.0f, want 100", c.TrustScore)
	}
}

func TestCreateCandidateUniqueAccessCodes(t *testing.T) {
	svc, _, _ := adminFixture()

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		created, err := svc.CreateCandidate(dto.CreateCandidateRequest{FullName: "n", CompanyID: 1})
		if err != nil {
			t.Fatalf("CreateCandidate() error = %v", err)
		}
		if seen[created.AccessCode] {
			t.Fatalf("duplicate access code %q", created.AccessCode)
		}
		seen[created.AccessCode] = true
	}
}

func TestCreateCandidateWithStartLevel(t *testing.T) {
	svc, candidateRepo, _ := adminFixture()

	created, err := svc.CreateCandidate(dto.CreateCandidateRequest{
		FullName:   "Jo Park",
		CompanyID:  1,
		StartLevel: cefr.C1,
	})
	if err != nil {
		t.Fatalf("CreateCandidate() error = %v", err)
	}
	c, _ := candidateRepo.FindByID(created.ID)
	if c.CurrentDifficulty != cefr.C1 {
		t.Errorf("CurrentDifficulty = %s, want C1", c.CurrentDifficulty)
	}

	if _, err := svc.CreateCandidate(dto.CreateCandidateRequest{
		FullName:   "Jo Park",
		CompanyID:  1,
		StartLevel: cefr.Level("Z9"),
	}); err == nil {
		t.Error("CreateCandidate() with bogus start level returned nil error")
	}
}

func TestCreateCandidateUnknownCompany(t *testing.T) {
	svc, _, _ := adminFixture()

	if _, err := svc.CreateCandidate(dto.CreateCandidateRequest{FullName: "n", CompanyID: 42}); err == nil {
		t.Fatal("CreateCandidate() with unknown company returned nil error")
	}
}

func TestCreateQuestionValidation(t *testing.T) {
	tests := []struct {
		name    string
		req     dto.CreateQuestionRequest
		wantErr bool
		wantKey string
	}{
		{
			name: "valid mcq normalizes key",
			req: dto.CreateQuestionRequest{
				Text: "q", OptionA: strPtr("x"), OptionB: strPtr("y"),
				CorrectAnswer: " b ", Category: model.SkillGrammar, Difficulty: cefr.B1,
			},
			wantKey: "B",
		},
		{
			name: "mcq missing options",
			req: dto.CreateQuestionRequest{
				Text: "q", CorrectAnswer: "A", Category: model.SkillGrammar, Difficulty: cefr.B1,
			},
			wantErr: true,
		},
		{
			name: "mcq key outside A-D",
			req: dto.CreateQuestionRequest{
				Text: "q", OptionA: strPtr("x"), OptionB: strPtr("y"),
				CorrectAnswer: "E", Category: model.SkillGrammar, Difficulty: cefr.B1,
			},
			wantErr: true,
		},
		{
			name: "writing question needs no options",
			req: dto.CreateQuestionRequest{
				Text: "Describe your last holiday.", CorrectAnswer: "-",
				Category: model.SkillWriting, Difficulty: cefr.B2, Type: model.TypeWriting,
			},
			wantKey: "-",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, questionRepo := adminFixture()

			created, err := svc.CreateQuestion(tt.req)
			if tt.wantErr {
				if err == nil {
					t.Fatal("CreateQuestion() returned nil error")
				}
				return
			}
			if err != nil {
				t.Fatalf("CreateQuestion() error = %v", err)
			}
			q, _ := questionRepo.FindByID(created.ID)
			if q.CorrectAnswer != tt.wantKey {
				t.Errorf("stored key = %q, want %q", q.CorrectAnswer, tt.wantKey)
			}
			if !q.Active {
				t.Error("new question not active")
			}
		})
	}
}

func TestVerifyCertificate(t *testing.T) {
	level := cefr.B2
	completedAt := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	sealed := &model.Candidate{
		ID:             1,
		FullName:       "Mika Tanaka",
		CompanyID:      1,
		Status:         model.StatusCompleted,
		OverallScore:   floatPtr(68),
		CEFRLevel:      &level,
		IELTSBand:      floatPtr(6.5),
		CertificateRef: "cert-ref-1",
		CompletedAt:    &completedAt,
		TrustScore:     100,
	}
	unsealed := &model.Candidate{
		ID:             2,
		CompanyID:      1,
		Status:         model.StatusInProgress,
		CertificateRef: "cert-ref-2",
		TrustScore:     100,
	}
	svc, _, _ := adminFixture(sealed, unsealed)

	cert, err := svc.VerifyCertificate("cert-ref-1")
	if err != nil {
		t.Fatalf("VerifyCertificate() error = %v", err)
	}
	if !cert.Valid {
		t.Fatal("cert.Valid = false, want true")
	}
	if cert.FullName != "Mika Tanaka" || cert.CEFRLevel != cefr.B2 || cert.Score != 68 || cert.IELTSBand != 6.5 {
		t.Errorf("certificate = %+v, want sealed result fields", cert)
	}

	// Unknown or unsealed references are a negative verification, not
	// an error.
	for _, ref := range []string{"no-such-ref", "cert-ref-2", ""} {
		cert, err := svc.VerifyCertificate(ref)
		if err != nil {
			t.Fatalf("VerifyCertificate(%q) error = %v", ref, err)
		}
		if cert.Valid {
			t.Errorf("VerifyCertificate(%q).Valid = true, want false", ref)
		}
	}
}

func TestListCompletedCandidates(t *testing.T) {
	level := cefr.B1
	done := &model.Candidate{
		ID: 1, FullName: "Done", CompanyID: 1, Status: model.StatusCompleted,
		OverallScore: floatPtr(55), CEFRLevel: &level, TrustScore: 100,
	}
	running := &model.Candidate{
		ID: 2, FullName: "Running", CompanyID: 1, Status: model.StatusInProgress, TrustScore: 100,
	}
	otherTenant := &model.Candidate{
		ID: 3, FullName: "Other", CompanyID: 2, Status: model.StatusCompleted, TrustScore: 100,
	}
	svc, _, _ := adminFixture(done, running, otherTenant)

	summaries, err := svc.ListCompletedCandidates(1)
	if err != nil {
		t.Fatalf("ListCompletedCandidates() error = %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("got %d summaries, want 1", len(summaries))
	}
	if summaries[0].FullName != "Done" {
		t.Errorf("summary name = %q, want %q", summaries[0].FullName, "Done")
	}
}
