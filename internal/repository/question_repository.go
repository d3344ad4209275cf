package repository

import (
	"errors"
	"time"

	"github.com/lshigami/Linnet/internal/cefr"
	"github.com/lshigami/Linnet/internal/model"
	"gorm.io/gorm"
)

type QuestionRepository interface {
	Create(question *model.Question) error
	FindByID(id uint) (*model.Question, error)
	// FindRandomEligible picks one active question of the given
	// difficulty uniformly at random, excluding already-answered IDs.
	// Questions are eligible if they belong to the candidate's company
	// or to the shared bank (nil company). Returns (nil, nil) when the
	// pool is empty.
	FindRandomEligible(companyID uint, difficulty cefr.Level, excludeIDs []uint) (*model.Question, error)
	// FindCalibratable returns questions with enough responses to be
	// calibrated.
	FindCalibratable(minResponses int) ([]model.Question, error)
	UpdateCalibration(id uint, calculated float64, warning bool, at time.Time) error
	// IncrementStats bumps the cumulative response counters after an
	// answer is recorded.
	IncrementStats(id uint, correct bool) error
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) Create(question *model.Question) error {
	return r.db.Create(question).Error
}

func (r *questionRepository) FindByID(id uint) (*model.Question, error) {
	var question model.Question
	if err := r.db.First(&question, id).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *questionRepository) FindRandomEligible(companyID uint, difficulty cefr.Level, excludeIDs []uint) (*model.Question, error) {
	query := r.db.
		Where("difficulty = ? AND active = ?", difficulty, true).
		Where("company_id IS NULL OR company_id = ?", companyID)
	if len(excludeIDs) > 0 {
		query = query.Where("id NOT IN ?", excludeIDs)
	}

	var question model.Question
	err := query.Order("RANDOM()").First(&question).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *questionRepository) FindCalibratable(minResponses int) ([]model.Question, error) {
	var questions []model.Question
	err := r.db.Where("times_answered >= ?", minResponses).Find(&questions).Error
	return questions, err
}

func (r *questionRepository) UpdateCalibration(id uint, calculated float64, warning bool, at time.Time) error {
	return r.db.Model(&model.Question{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"calculated_difficulty": calculated,
			"calibration_warning":   warning,
			"last_calibrated":       at,
		}).Error
}

func (r *questionRepository) IncrementStats(id uint, correct bool) error {
	updates := map[string]interface{}{
		"times_answered": gorm.Expr("times_answered + 1"),
	}
	if correct {
		updates["times_correct"] = gorm.Expr("times_correct + 1")
	}
	return r.db.Model(&model.Question{}).Where("id = ?", id).Updates(updates).Error
}
