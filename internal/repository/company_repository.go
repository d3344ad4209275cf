package repository

import (
	"github.com/lshigami/Linnet/internal/model"
	"gorm.io/gorm"
)

type CompanyRepository interface {
	Create(company *model.Company) error
	FindByID(id uint) (*model.Company, error)
	HasCredit(id uint) (bool, error)
	// DeductCredit atomically takes one credit off the balance. The
	// conditional write keeps the balance from going negative under
	// concurrent completions. Returns false when no credit was left.
	DeductCredit(id uint) (bool, error)
}

type companyRepository struct {
	db *gorm.DB
}

func NewCompanyRepository(db *gorm.DB) CompanyRepository {
	return &companyRepository{db: db}
}

func (r *companyRepository) Create(company *model.Company) error {
	return r.db.Create(company).Error
}

func (r *companyRepository) FindByID(id uint) (*model.Company, error) {
	var company model.Company
	if err := r.db.First(&company, id).Error; err != nil {
		return nil, err
	}
	return &company, nil
}

func (r *companyRepository) HasCredit(id uint) (bool, error) {
	company, err := r.FindByID(id)
	if err != nil {
		return false, err
	}
	return company.Credits > 0, nil
}

func (r *companyRepository) DeductCredit(id uint) (bool, error) {
	res := r.db.Model(&model.Company{}).
		Where("id = ? AND credits > 0", id).
		Update("credits", gorm.Expr("credits - 1"))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
