package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/contractdesk/contractdesk/internal/domain"
)

// Postgres error codes surfaced by constraint violations
const (
	pqUniqueViolation     = pq.ErrorCode("23505")
	pqForeignKeyViolation = pq.ErrorCode("23503")
	pqCheckViolation      = pq.ErrorCode("23514")
)

// clientRepository implements domain.ClientRepository for PostgreSQL
type clientRepository struct {
	db *sql.DB
}

// NewClientRepository creates a new PostgreSQL client repository
func NewClientRepository(db *sql.DB) domain.ClientRepository {
	return &clientRepository{
		db: db,
	}
}

// WithTransaction executes a function within a transaction
func (r *clientRepository) WithTransaction(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// CreateClientTx persists a new client within a transaction, filling in the
// assigned identifier and creation timestamp
func (r *clientRepository) CreateClientTx(ctx context.Context, tx *sql.Tx, client *domain.Client) error {
	query := `
		INSERT INTO clients (name, email, phone)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := tx.QueryRowContext(ctx, query,
		client.Name,
		client.Email,
		client.Phone,
	).Scan(&client.ID, &client.CreatedAt)
	if err != nil {
		// The pre-check can lose a race with a concurrent insert; the unique
		// constraint is the final arbiter and reports the same conflict
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == pqUniqueViolation {
			return &domain.ErrEmailExists{Email: client.Email}
		}
		return fmt.Errorf("failed to create client: %w", err)
	}

	return nil
}

// GetClientByIDTx retrieves a client by ID within a transaction
func (r *clientRepository) GetClientByIDTx(ctx context.Context, tx *sql.Tx, id int64) (*domain.Client, error) {
	query := `
		SELECT id, name, email, phone, created_at
		FROM clients
		WHERE id = $1
	`

	row := tx.QueryRowContext(ctx, query, id)
	client, err := domain.ScanClient(row)

	if err == sql.ErrNoRows {
		return nil, &domain.ErrClientNotFound{}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}

	return client, nil
}

// EmailExistsTx reports whether a client other than excludeID holds the email
func (r *clientRepository) EmailExistsTx(ctx context.Context, tx *sql.Tx, email string, excludeID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM clients WHERE email = $1 AND id <> $2)`

	var exists bool
	if err := tx.QueryRowContext(ctx, query, email, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}

	return exists, nil
}

// UpdateClientTx updates an existing client within a transaction
func (r *clientRepository) UpdateClientTx(ctx context.Context, tx *sql.Tx, client *domain.Client) error {
	query := `
		UPDATE clients
		SET name = $1, email = $2, phone = $3
		WHERE id = $4
	`

	result, err := tx.ExecContext(ctx, query,
		client.Name,
		client.Email,
		client.Phone,
		client.ID,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == pqUniqueViolation {
			return &domain.ErrEmailExists{Email: client.Email}
		}
		return fmt.Errorf("failed to update client: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return &domain.ErrClientNotFound{}
	}

	return nil
}

// DeleteClientTx deletes a client row; the ON DELETE CASCADE rule removes
// dependent contracts as part of the same physical delete
func (r *clientRepository) DeleteClientTx(ctx context.Context, tx *sql.Tx, id int64) error {
	query := `DELETE FROM clients WHERE id = $1`

	result, err := tx.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return &domain.ErrClientNotFound{}
	}

	return nil
}

// CountContractsTx counts the contracts referencing a client
func (r *clientRepository) CountContractsTx(ctx context.Context, tx *sql.Tx, clientID int64) (int, error) {
	query := `SELECT COUNT(*) FROM contracts WHERE client_id = $1`

	var count int
	if err := tx.QueryRowContext(ctx, query, clientID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count contracts: %w", err)
	}

	return count, nil
}

// ListClients returns all clients annotated with their contract counts,
// most recently created first
func (r *clientRepository) ListClients(ctx context.Context) ([]*domain.Client, error) {
	query := `
		SELECT c.id, c.name, c.email, c.phone, c.created_at, COUNT(ct.id) AS contract_count
		FROM clients c
		LEFT JOIN contracts ct ON ct.client_id = c.id
		GROUP BY c.id, c.name, c.email, c.phone, c.created_at
		ORDER BY c.id DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	clients := []*domain.Client{}
	for rows.Next() {
		client, err := domain.ScanClientWithCount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		clients = append(clients, client)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating client rows: %w", err)
	}

	return clients, nil
}
