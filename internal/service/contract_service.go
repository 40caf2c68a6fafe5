package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/contractdesk/contractdesk/internal/domain"
	"github.com/contractdesk/contractdesk/pkg/logger"
)

// ContractService executes contract mutations as atomic units of work.
// Checks run in order of diagnostic specificity: referential existence first,
// then business-rule validation, so the caller gets the most precise error.
type ContractService struct {
	repo       domain.ContractRepository
	clientRepo domain.ClientRepository
	logger     logger.Logger
}

func NewContractService(repo domain.ContractRepository, clientRepo domain.ClientRepository, logger logger.Logger) *ContractService {
	return &ContractService{
		repo:       repo,
		clientRepo: clientRepo,
		logger:     logger,
	}
}

func (s *ContractService) CreateContract(ctx context.Context, req *domain.CreateContractRequest) (*domain.Contract, error) {
	contract, err := req.Validate()
	if err != nil {
		return nil, err
	}

	err = s.repo.WithTransaction(ctx, func(tx *sql.Tx) error {
		// All checks must pass before the insert executes
		if _, err := s.clientRepo.GetClientByIDTx(ctx, tx, contract.ClientID); err != nil {
			return err
		}
		if contract.EndDate != nil && contract.EndDate.Before(contract.StartDate) {
			return domain.NewValidationError("end_date must not precede start_date")
		}
		if contract.MonthlyCost <= 0 {
			return domain.NewValidationError("monthly_cost must be greater than zero")
		}
		return s.repo.CreateContractTx(ctx, tx, contract)
	})
	if err != nil {
		switch err.(type) {
		case *domain.ErrClientNotFound, domain.ValidationError, *domain.ErrConstraintViolation:
			return nil, err
		}
		s.logger.WithField("client_id", contract.ClientID).Error(fmt.Sprintf("Failed to create contract: %v", err))
		return nil, fmt.Errorf("failed to create contract: %w", err)
	}

	s.logger.WithField("contract_id", contract.ID).
		WithField("client_id", contract.ClientID).
		Info("Contract created")
	return contract, nil
}

func (s *ContractService) UpdateContract(ctx context.Context, id int64, req *domain.UpdateContractRequest) (*domain.Contract, error) {
	patch, err := req.Validate(id)
	if err != nil {
		return nil, err
	}

	var updated *domain.Contract
	err = s.repo.WithTransaction(ctx, func(tx *sql.Tx) error {
		existing, err := s.repo.GetContractByIDTx(ctx, tx, id)
		if err != nil {
			return err
		}

		// Re-validate date ordering and cost positivity against the mix of
		// supplied and prior values
		startDate := existing.StartDate
		if patch.StartDate != nil {
			startDate = *patch.StartDate
		}
		endDate := existing.EndDate
		if patch.EndDate != nil {
			endDate = patch.EndDate
		}
		if endDate != nil && endDate.Before(startDate) {
			return domain.NewValidationError("end_date must not precede start_date")
		}
		if patch.MonthlyCost != nil && *patch.MonthlyCost <= 0 {
			return domain.NewValidationError("monthly_cost must be greater than zero")
		}

		if err := s.repo.UpdateContractTx(ctx, tx, id, patch); err != nil {
			return err
		}

		updated, err = s.repo.GetContractByIDTx(ctx, tx, id)
		return err
	})
	if err != nil {
		switch err.(type) {
		case *domain.ErrContractNotFound, domain.ValidationError, *domain.ErrConstraintViolation:
			return nil, err
		}
		s.logger.WithField("contract_id", id).Error(fmt.Sprintf("Failed to update contract: %v", err))
		return nil, fmt.Errorf("failed to update contract: %w", err)
	}

	s.logger.WithField("contract_id", id).Info("Contract updated")
	return updated, nil
}

func (s *ContractService) DeleteContract(ctx context.Context, id int64) (*domain.Contract, error) {
	var deleted *domain.Contract

	err := s.repo.WithTransaction(ctx, func(tx *sql.Tx) error {
		existing, err := s.repo.GetContractByIDTx(ctx, tx, id)
		if err != nil {
			return err
		}

		// Active contracts may be deleted; worth a note in the log, not a block
		if existing.Status == domain.ContractStatusActive {
			s.logger.WithField("contract_id", id).Info("Deleting contract that is still active")
		}

		if err := s.repo.DeleteContractTx(ctx, tx, id); err != nil {
			return err
		}

		deleted = existing
		return nil
	})
	if err != nil {
		if _, ok := err.(*domain.ErrContractNotFound); ok {
			return nil, err
		}
		s.logger.WithField("contract_id", id).Error(fmt.Sprintf("Failed to delete contract: %v", err))
		return nil, fmt.Errorf("failed to delete contract: %w", err)
	}

	s.logger.WithField("contract_id", id).Info("Contract deleted")
	return deleted, nil
}

func (s *ContractService) ListContracts(ctx context.Context, filter domain.ContractFilter) ([]*domain.Contract, error) {
	contracts, err := s.repo.ListContracts(ctx, filter)
	if err != nil {
		s.logger.Error(fmt.Sprintf("Failed to list contracts: %v", err))
		return nil, fmt.Errorf("failed to list contracts: %w", err)
	}

	return contracts, nil
}
