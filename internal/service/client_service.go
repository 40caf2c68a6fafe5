package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/contractdesk/contractdesk/internal/domain"
	"github.com/contractdesk/contractdesk/pkg/logger"
)

// ClientService executes client mutations as atomic units of work: every
// create/update/delete runs its precondition checks and its mutating
// statement inside one transaction, so a failed check leaves zero effect
// on the store.
type ClientService struct {
	repo   domain.ClientRepository
	logger logger.Logger
}

func NewClientService(repo domain.ClientRepository, logger logger.Logger) *ClientService {
	return &ClientService{
		repo:   repo,
		logger: logger,
	}
}

func (s *ClientService) CreateClient(ctx context.Context, req *domain.CreateClientRequest) (*domain.Client, error) {
	// The boundary validates before invoking, but re-validate defensively
	client, err := req.Validate()
	if err != nil {
		return nil, err
	}

	err = s.repo.WithTransaction(ctx, func(tx *sql.Tx) error {
		exists, err := s.repo.EmailExistsTx(ctx, tx, client.Email, 0)
		if err != nil {
			return err
		}
		if exists {
			return &domain.ErrEmailExists{Email: client.Email}
		}
		return s.repo.CreateClientTx(ctx, tx, client)
	})
	if err != nil {
		if _, ok := err.(*domain.ErrEmailExists); ok {
			return nil, err
		}
		s.logger.WithField("email", client.Email).Error(fmt.Sprintf("Failed to create client: %v", err))
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	s.logger.WithField("client_id", client.ID).Info("Client created")
	return client, nil
}

func (s *ClientService) UpdateClient(ctx context.Context, id int64, req *domain.UpdateClientRequest) (*domain.Client, error) {
	client, err := req.Validate(id)
	if err != nil {
		return nil, err
	}

	err = s.repo.WithTransaction(ctx, func(tx *sql.Tx) error {
		existing, err := s.repo.GetClientByIDTx(ctx, tx, id)
		if err != nil {
			return err
		}
		client.CreatedAt = existing.CreatedAt

		// No *other* client may hold this email
		exists, err := s.repo.EmailExistsTx(ctx, tx, client.Email, id)
		if err != nil {
			return err
		}
		if exists {
			return &domain.ErrEmailExists{Email: client.Email}
		}

		return s.repo.UpdateClientTx(ctx, tx, client)
	})
	if err != nil {
		switch err.(type) {
		case *domain.ErrClientNotFound, *domain.ErrEmailExists:
			return nil, err
		}
		s.logger.WithField("client_id", id).Error(fmt.Sprintf("Failed to update client: %v", err))
		return nil, fmt.Errorf("failed to update client: %w", err)
	}

	s.logger.WithField("client_id", id).Info("Client updated")
	return client, nil
}

func (s *ClientService) DeleteClient(ctx context.Context, id int64) (*domain.DeletedClient, error) {
	var deleted *domain.DeletedClient

	err := s.repo.WithTransaction(ctx, func(tx *sql.Tx) error {
		existing, err := s.repo.GetClientByIDTx(ctx, tx, id)
		if err != nil {
			return err
		}

		// Informational only; the cascade rule does the actual removal
		count, err := s.repo.CountContractsTx(ctx, tx, id)
		if err != nil {
			return err
		}

		if err := s.repo.DeleteClientTx(ctx, tx, id); err != nil {
			return err
		}

		deleted = &domain.DeletedClient{
			Client:           existing,
			ContractsRemoved: count,
		}
		return nil
	})
	if err != nil {
		if _, ok := err.(*domain.ErrClientNotFound); ok {
			return nil, err
		}
		s.logger.WithField("client_id", id).Error(fmt.Sprintf("Failed to delete client: %v", err))
		return nil, fmt.Errorf("failed to delete client: %w", err)
	}

	s.logger.WithField("client_id", id).
		WithField("contracts_removed", deleted.ContractsRemoved).
		Info("Client deleted")
	return deleted, nil
}

func (s *ClientService) ListClients(ctx context.Context) ([]*domain.Client, error) {
	clients, err := s.repo.ListClients(ctx)
	if err != nil {
		s.logger.Error(fmt.Sprintf("Failed to list clients: %v", err))
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}

	return clients, nil
}
