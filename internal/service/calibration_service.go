package service

import (
	"fmt"
	"math"
	"time"

	"github.com/lshigami/Linnet/internal/cefr"
	"github.com/lshigami/Linnet/internal/dto"
	"github.com/lshigami/Linnet/internal/repository"
	"github.com/rs/zerolog/log"
)

// DefaultMinResponses is the smallest sample a question may be
// calibrated on. Items below it stay uncalibrated.
const DefaultMinResponses = 10

// CalibrationService re-estimates item difficulty from the cumulative
// response counters. It is an estimator, not a corrector: the labeled
// difficulty is never overwritten, only flagged for human review when
// the estimate disagrees by more than one level.
type CalibrationService interface {
	// CalibrateAll runs one batch over every question with enough
	// responses. One malformed item never aborts the batch; failures
	// are collected into the report and the rest still commit.
	CalibrateAll() (*dto.CalibrationReportDTO, error)
}

type calibrationService struct {
	questionRepo repository.QuestionRepository
	minResponses int
	now          func() time.Time
}

func NewCalibrationService(questionRepo repository.QuestionRepository, minResponses int) CalibrationService {
	if minResponses <= 0 {
		minResponses = DefaultMinResponses
	}
	return &calibrationService{
		questionRepo: questionRepo,
		minResponses: minResponses,
		now:          time.Now,
	}
}

func (s *calibrationService) CalibrateAll() (*dto.CalibrationReportDTO, error) {
	questions, err := s.questionRepo.FindCalibratable(s.minResponses)
	if err != nil {
		return nil, fmt.Errorf("loading calibratable questions: %w", err)
	}

	report := &dto.CalibrationReportDTO{Total: len(questions), RanAt: s.now()}
	for i := range questions {
		q := &questions[i]
		calculated, err := estimateDifficulty(q.TimesAnswered, q.TimesCorrect)
		if err != nil {
			report.Failed++
			log.Error().Err(err).Uint("questionID", q.ID).Msg("Calibration failed for question, continuing batch")
			continue
		}

		warning := math.Abs(calculated-float64(q.Difficulty.Index())) > 1.0
		if err := s.questionRepo.UpdateCalibration(q.ID, calculated, warning, s.now()); err != nil {
			report.Failed++
			log.Error().Err(err).Uint("questionID", q.ID).Msg("Failed to store calibration result, continuing batch")
			continue
		}

		report.Calibrated++
		if warning {
			report.Warnings++
		}
		report.Items = append(report.Items, dto.CalibrationItemDTO{
			QuestionID:           q.ID,
			LabeledDifficulty:    q.Difficulty,
			CalculatedDifficulty: calculated,
			Warning:              warning,
			SuggestedLevel:       cefr.LevelForIndex(int(math.Round(calculated))),
		})
	}

	log.Info().Int("total", report.Total).Int("calibrated", report.Calibrated).
		Int("warnings", report.Warnings).Int("failed", report.Failed).
		Msg("Question calibration batch complete")
	return report, nil
}

// estimateDifficulty converts the correct-answer proportion into a
// difficulty on the 1-6 CEFR index scale via a logit transform:
//
//	p clamped to [0.05, 0.95] to keep the logit finite
//	logit = -ln(p / (1-p))          (higher = harder)
//	difficulty = (logit + 3) / 6 * 5 + 1, clamped to [1, 6]
func estimateDifficulty(timesAnswered, timesCorrect int) (float64, error) {
	if timesAnswered <= 0 {
		return 0, fmt.Errorf("malformed counters: times_answered = %d", timesAnswered)
	}
	if timesCorrect < 0 || timesCorrect > timesAnswered {
		return 0, fmt.Errorf("malformed counters: times_correct = %d of %d", timesCorrect, timesAnswered)
	}

	p := float64(timesCorrect) / float64(timesAnswered)
	if p < 0.05 {
		p = 0.05
	} else if p > 0.95 {
		p = 0.95
	}

	logit := -math.Log(p / (1 - p))
	difficulty := (logit+3)/6*5 + 1
	if difficulty < 1 {
		difficulty = 1
	} else if difficulty > 6 {
		difficulty = 6
	}
	return math.Round(difficulty*100) / 100, nil
}
