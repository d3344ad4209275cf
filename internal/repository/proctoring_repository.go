package repository

import (
	"github.com/lshigami/Linnet/internal/model"
	"gorm.io/gorm"
)

type ProctoringEventRepository interface {
	Create(event *model.ProctoringEvent) error
	FindByCandidate(candidateID uint) ([]model.ProctoringEvent, error)
}

type proctoringEventRepository struct {
	db *gorm.DB
}

func NewProctoringEventRepository(db *gorm.DB) ProctoringEventRepository {
	return &proctoringEventRepository{db: db}
}

func (r *proctoringEventRepository) Create(event *model.ProctoringEvent) error {
	return r.db.Create(event).Error
}

func (r *proctoringEventRepository) FindByCandidate(candidateID uint) ([]model.ProctoringEvent, error) {
	var events []model.ProctoringEvent
	err := r.db.Where("candidate_id = ?", candidateID).Order("created_at ASC").Find(&events).Error
	return events, err
}
