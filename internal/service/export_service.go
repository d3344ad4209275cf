package service

import (
	"bytes"
	"fmt"

	"github.com/lshigami/Linnet/internal/repository"
	"github.com/xuri/excelize/v2"
)

// ExportService renders completed exam results as an Excel workbook
// for the company dashboards.
type ExportService interface {
	ExportResults(companyID uint) ([]byte, error)
}

type exportService struct {
	candidateRepo repository.CandidateRepository
}

func NewExportService(candidateRepo repository.CandidateRepository) ExportService {
	return &exportService{candidateRepo: candidateRepo}
}

func (s *exportService) ExportResults(companyID uint) ([]byte, error) {
	candidates, err := s.candidateRepo.FindCompletedByCompany(companyID)
	if err != nil {
		return nil, fmt.Errorf("loading results for company %d: %w", companyID, err)
	}

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	headers := []string{"full_name", "email", "overall_score", "cefr_level", "ielts_band", "trust_score", "focus_lost", "anomalies", "completed_at"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, c := range candidates {
		row := i + 2
		var score, band any
		var level string
		if c.OverallScore != nil {
			score = *c.OverallScore
		}
		if c.CEFRLevel != nil {
			level = string(*c.CEFRLevel)
		}
		if c.IELTSBand != nil {
			band = *c.IELTSBand
		}
		completedAt := ""
		if c.CompletedAt != nil {
			completedAt = c.CompletedAt.Format("2006-01-02 15:04:05")
		}
		values := []any{
			c.FullName,
			c.Email,
			score,
			level,
			band,
			c.TrustScore,
			c.FocusLostCount,
			c.AnomalyCount,
			completedAt,
		}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("writing results workbook: %w", err)
	}
	return buf.Bytes(), nil
}
