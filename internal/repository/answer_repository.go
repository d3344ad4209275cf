package repository

import (
	"github.com/lshigami/Linnet/internal/model"
	"gorm.io/gorm"
)

type AnswerRepository interface {
	// Create inserts the answer row. A second insert for the same
	// (candidate, question) pair fails with gorm.ErrDuplicatedKey via
	// the unique composite index; callers treat that as a duplicate
	// submission, not a retryable error.
	Create(answer *model.Answer) error
	CountByCandidate(candidateID uint) (int64, error)
	FindByCandidate(candidateID uint) ([]model.Answer, error)
	AnsweredQuestionIDs(candidateID uint) ([]uint, error)
	UpdateAIScore(answerID uint, score float64) error
}

type answerRepository struct {
	db *gorm.DB
}

func NewAnswerRepository(db *gorm.DB) AnswerRepository {
	return &answerRepository{db: db}
}

func (r *answerRepository) Create(answer *model.Answer) error {
	return r.db.Create(answer).Error
}

func (r *answerRepository) CountByCandidate(candidateID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Answer{}).Where("candidate_id = ?", candidateID).Count(&count).Error
	return count, err
}

func (r *answerRepository) FindByCandidate(candidateID uint) ([]model.Answer, error) {
	var answers []model.Answer
	err := r.db.
		Preload("Question").
		Where("candidate_id = ?", candidateID).
		Order("created_at ASC").
		Find(&answers).Error
	return answers, err
}

func (r *answerRepository) AnsweredQuestionIDs(candidateID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&model.Answer{}).
		Where("candidate_id = ?", candidateID).
		Pluck("question_id", &ids).Error
	return ids, err
}

func (r *answerRepository) UpdateAIScore(answerID uint, score float64) error {
	return r.db.Model(&model.Answer{}).
		Where("id = ?", answerID).
		Update("ai_score", score).Error
}
