package repository

import (
	"time"

	"github.com/lshigami/Linnet/internal/model"
	"gorm.io/gorm"
)

type CandidateRepository interface {
	Create(candidate *model.Candidate) error
	FindByID(id uint) (*model.Candidate, error)
	FindByAccessCode(code string) (*model.Candidate, error)
	FindByCertificateRef(ref string) (*model.Candidate, error)
	FindCompletedByCompany(companyID uint) ([]model.Candidate, error)
	Update(candidate *model.Candidate) error
	// MarkInProgress performs the conditional Pending->InProgress write.
	// It only succeeds if the row is still pending, so two concurrent
	// start calls cannot both set the timer. Returns false when the
	// guard did not match.
	MarkInProgress(id uint, startedAt, deadline time.Time) (bool, error)
}

type candidateRepository struct {
	db *gorm.DB
}

func NewCandidateRepository(db *gorm.DB) CandidateRepository {
	return &candidateRepository{db: db}
}

func (r *candidateRepository) Create(candidate *model.Candidate) error {
	return r.db.Create(candidate).Error
}

func (r *candidateRepository) FindByID(id uint) (*model.Candidate, error) {
	var candidate model.Candidate
	if err := r.db.First(&candidate, id).Error; err != nil {
		return nil, err
	}
	return &candidate, nil
}

func (r *candidateRepository) FindByAccessCode(code string) (*model.Candidate, error) {
	var candidate model.Candidate
	if err := r.db.Where("access_code = ?", code).First(&candidate).Error; err != nil {
		return nil, err
	}
	return &candidate, nil
}

func (r *candidateRepository) FindByCertificateRef(ref string) (*model.Candidate, error) {
	var candidate model.Candidate
	if err := r.db.Where("certificate_ref = ?", ref).First(&candidate).Error; err != nil {
		return nil, err
	}
	return &candidate, nil
}

func (r *candidateRepository) FindCompletedByCompany(companyID uint) ([]model.Candidate, error) {
	var candidates []model.Candidate
	err := r.db.
		Where("company_id = ? AND status = ?", companyID, model.StatusCompleted).
		Order("completed_at DESC").
		Find(&candidates).Error
	return candidates, err
}

func (r *candidateRepository) Update(candidate *model.Candidate) error {
	return r.db.Save(candidate).Error
}

func (r *candidateRepository) MarkInProgress(id uint, startedAt, deadline time.Time) (bool, error) {
	res := r.db.Model(&model.Candidate{}).
		Where("id = ? AND status = ?", id, model.StatusPending).
		Updates(map[string]interface{}{
			"status":     model.StatusInProgress,
			"started_at": startedAt,
			"deadline":   deadline,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
