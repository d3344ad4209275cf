package service

import (
	"fmt"

	"github.com/lshigami/Linnet/internal/repository"
)

// CreditService is the engine's narrow view of the billing ledger:
// check the balance before a session starts, deduct one unit when it
// completes. Everything else about billing lives outside this core.
type CreditService interface {
	CheckBalance(companyID uint) error
	DeductUnit(companyID uint) error
}

type creditService struct {
	companyRepo repository.CompanyRepository
}

func NewCreditService(companyRepo repository.CompanyRepository) CreditService {
	return &creditService{companyRepo: companyRepo}
}

func (s *creditService) CheckBalance(companyID uint) error {
	ok, err := s.companyRepo.HasCredit(companyID)
	if err != nil {
		return fmt.Errorf("checking credits for company %d: %w", companyID, err)
	}
	if !ok {
		return ErrInsufficientCredits
	}
	return nil
}

func (s *creditService) DeductUnit(companyID uint) error {
	ok, err := s.companyRepo.DeductCredit(companyID)
	if err != nil {
		return fmt.Errorf("deducting credit for company %d: %w", companyID, err)
	}
	if !ok {
		return ErrInsufficientCredits
	}
	return nil
}
