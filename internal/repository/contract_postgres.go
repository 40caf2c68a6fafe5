package repository

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/contractdesk/contractdesk/internal/domain"
)

// contractRepository implements domain.ContractRepository for PostgreSQL
type contractRepository struct {
	db *sql.DB
}

// NewContractRepository creates a new PostgreSQL contract repository
func NewContractRepository(db *sql.DB) domain.ContractRepository {
	return &contractRepository{
		db: db,
	}
}

// WithTransaction executes a function within a transaction
func (r *contractRepository) WithTransaction(ctx context.Context, fn func(*sql.Tx) error) error {
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

// CreateContractTx persists a new contract within a transaction, filling in
// the assigned identifier and creation timestamp
func (r *contractRepository) CreateContractTx(ctx context.Context, tx *sql.Tx, contract *domain.Contract) error {
	query := `
		INSERT INTO contracts (client_id, airline, plan, start_date, end_date, monthly_cost, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	err := tx.QueryRowContext(ctx, query,
		contract.ClientID,
		contract.Airline,
		contract.Plan,
		contract.StartDate,
		contract.EndDate,
		contract.MonthlyCost,
		string(contract.Status),
	).Scan(&contract.ID, &contract.CreatedAt)
	if err != nil {
		return translateContractError(err, "failed to create contract")
	}

	return nil
}

// GetContractByIDTx retrieves a contract by ID within a transaction
func (r *contractRepository) GetContractByIDTx(ctx context.Context, tx *sql.Tx, id int64) (*domain.Contract, error) {
	query := `
		SELECT id, client_id, airline, plan, start_date, end_date, monthly_cost, status, created_at
		FROM contracts
		WHERE id = $1
	`

	row := tx.QueryRowContext(ctx, query, id)
	contract, err := domain.ScanContract(row)

	if err == sql.ErrNoRows {
		return nil, &domain.ErrContractNotFound{}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get contract: %w", err)
	}

	return contract, nil
}

// UpdateContractTx applies a partial update within a transaction; only the
// fields present in the patch are compiled into the statement
func (r *contractRepository) UpdateContractTx(ctx context.Context, tx *sql.Tx, id int64, patch *domain.ContractPatch) error {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	updateSQL, args, err := psql.Update("contracts").
		SetMap(patch.Fields()).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	result, err := tx.ExecContext(ctx, updateSQL, args...)
	if err != nil {
		return translateContractError(err, "failed to update contract")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return &domain.ErrContractNotFound{}
	}

	return nil
}

// DeleteContractTx deletes a contract row within a transaction
func (r *contractRepository) DeleteContractTx(ctx context.Context, tx *sql.Tx, id int64) error {
	query := `DELETE FROM contracts WHERE id = $1`

	result, err := tx.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete contract: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return &domain.ErrContractNotFound{}
	}

	return nil
}

// ListContracts returns contracts joined with their owning client's name,
// optionally filtered by exact-match airline and/or status, most recently
// created first
func (r *contractRepository) ListContracts(ctx context.Context, filter domain.ContractFilter) ([]*domain.Contract, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	query := psql.Select(
		"ct.id", "ct.client_id", "c.name AS client_name",
		"ct.airline", "ct.plan", "ct.start_date", "ct.end_date",
		"ct.monthly_cost", "ct.status", "ct.created_at",
	).
		From("contracts ct").
		Join("clients c ON ct.client_id = c.id")

	if filter.Airline != "" {
		query = query.Where(sq.Eq{"ct.airline": filter.Airline})
	}

	if filter.Status != "" {
		query = query.Where(sq.Eq{"ct.status": filter.Status})
	}

	query = query.OrderBy("ct.id DESC")

	listSQL, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build contracts query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, listSQL, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list contracts: %w", err)
	}
	defer rows.Close()

	contracts := []*domain.Contract{}
	for rows.Next() {
		contract, err := domain.ScanContractWithClient(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contract: %w", err)
		}
		contracts = append(contracts, contract)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating contract rows: %w", err)
	}

	return contracts, nil
}

// translateContractError maps store constraint errors onto the domain
// taxonomy; anything unclassified is wrapped with the given message
func translateContractError(err error, message string) error {
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case pqForeignKeyViolation:
			return &domain.ErrClientNotFound{}
		case pqCheckViolation:
			return &domain.ErrConstraintViolation{
				Constraint: pqErr.Constraint,
				Message:    pqErr.Message,
			}
		}
	}
	return fmt.Errorf("%s: %w", message, err)
}
