package service

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/lshigami/Linnet/internal/cefr"
	"github.com/lshigami/Linnet/internal/dto"
	"github.com/lshigami/Linnet/internal/model"
	"github.com/lshigami/Linnet/internal/repository"
	"github.com/rs/zerolog/log"
)

// AdminService covers the collaborator-facing operations around the
// engine: provisioning candidates and questions, result listings and
// certificate verification.
type AdminService interface {
	CreateCandidate(req dto.CreateCandidateRequest) (*dto.CreatedCandidateDTO, error)
	CreateQuestion(req dto.CreateQuestionRequest) (*dto.QuestionDTO, error)
	ListCompletedCandidates(companyID uint) ([]dto.CandidateSummaryDTO, error)
	VerifyCertificate(ref string) (*dto.CertificateDTO, error)
}

type adminService struct {
	candidateRepo repository.CandidateRepository
	questionRepo  repository.QuestionRepository
	companyRepo   repository.CompanyRepository
}

func NewAdminService(
	candidateRepo repository.CandidateRepository,
	questionRepo repository.QuestionRepository,
	companyRepo repository.CompanyRepository,
) AdminService {
	return &adminService{
		candidateRepo: candidateRepo,
		questionRepo:  questionRepo,
		companyRepo:   companyRepo,
	}
}

func (s *adminService) CreateCandidate(req dto.CreateCandidateRequest) (*dto.CreatedCandidateDTO, error) {
	if _, err := s.companyRepo.FindByID(req.CompanyID); err != nil {
		return nil, fmt.Errorf("company %d not found: %w", req.CompanyID, err)
	}

	candidate := &model.Candidate{
		FullName:            req.FullName,
		Email:               req.Email,
		CompanyID:           req.CompanyID,
		AccessCode:          newAccessCode(),
		ExamDurationMinutes: req.ExamDurationMinutes,
		QuestionLimit:       req.QuestionLimit,
		Status:              model.StatusPending,
		CurrentDifficulty:   cefr.B1,
		TrustScore:          100,
	}
	if candidate.ExamDurationMinutes == 0 {
		candidate.ExamDurationMinutes = 30
	}
	if candidate.QuestionLimit == 0 {
		candidate.QuestionLimit = 25
	}
	if req.StartLevel != "" {
		if !req.StartLevel.Valid() {
			return nil, fmt.Errorf("invalid start level %q", req.StartLevel)
		}
		candidate.CurrentDifficulty = req.StartLevel
	}

	if err := s.candidateRepo.Create(candidate); err != nil {
		return nil, fmt.Errorf("creating candidate: %w", err)
	}
	log.Info().Uint("candidateID", candidate.ID).Uint("companyID", req.CompanyID).Msg("Candidate created")

	return &dto.CreatedCandidateDTO{
		ID:         candidate.ID,
		FullName:   candidate.FullName,
		AccessCode: candidate.AccessCode,
	}, nil
}

func (s *adminService) CreateQuestion(req dto.CreateQuestionRequest) (*dto.QuestionDTO, error) {
	questionType := req.Type
	if questionType == "" {
		questionType = model.TypeMultipleChoice
	}
	if questionType == model.TypeMultipleChoice {
		if req.OptionA == nil || req.OptionB == nil {
			return nil, fmt.Errorf("multiple-choice questions need at least options A and B")
		}
		key := strings.ToUpper(strings.TrimSpace(req.CorrectAnswer))
		if key != "A" && key != "B" && key != "C" && key != "D" {
			return nil, fmt.Errorf("multiple-choice answer key must be one of A-D, got %q", req.CorrectAnswer)
		}
		req.CorrectAnswer = key
	}

	question := &model.Question{
		Text:          req.Text,
		OptionA:       req.OptionA,
		OptionB:       req.OptionB,
		OptionC:       req.OptionC,
		OptionD:       req.OptionD,
		CorrectAnswer: req.CorrectAnswer,
		Category:      req.Category,
		Difficulty:    req.Difficulty,
		Type:          questionType,
		CompanyID:     req.CompanyID,
		Active:        true,
	}
	if err := s.questionRepo.Create(question); err != nil {
		return nil, fmt.Errorf("creating question: %w", err)
	}

	var resp dto.QuestionDTO
	if err := copier.Copy(&resp, question); err != nil {
		return nil, fmt.Errorf("error preparing question response: %w", err)
	}
	return &resp, nil
}

func (s *adminService) ListCompletedCandidates(companyID uint) ([]dto.CandidateSummaryDTO, error) {
	candidates, err := s.candidateRepo.FindCompletedByCompany(companyID)
	if err != nil {
		return nil, fmt.Errorf("listing completed candidates for company %d: %w", companyID, err)
	}

	var summaries []dto.CandidateSummaryDTO
	if err := copier.Copy(&summaries, candidates); err != nil {
		return nil, fmt.Errorf("error preparing candidate summaries: %w", err)
	}
	return summaries, nil
}

func (s *adminService) VerifyCertificate(ref string) (*dto.CertificateDTO, error) {
	candidate, err := s.candidateRepo.FindByCertificateRef(ref)
	if err != nil {
		return &dto.CertificateDTO{Valid: false}, nil
	}
	if !candidate.ResultSealed() {
		return &dto.CertificateDTO{Valid: false}, nil
	}

	cert := &dto.CertificateDTO{
		FullName:    candidate.FullName,
		CEFRLevel:   *candidate.CEFRLevel,
		Description: candidate.CEFRLevel.Description(),
		CompletedAt: candidate.CompletedAt,
		Valid:       true,
	}
	if candidate.OverallScore != nil {
		cert.Score = *candidate.OverallScore
	}
	if candidate.IELTSBand != nil {
		cert.IELTSBand = *candidate.IELTSBand
	}
	return cert, nil
}

func newAccessCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}
