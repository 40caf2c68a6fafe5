package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contractdesk/contractdesk/internal/domain"
	"github.com/contractdesk/contractdesk/internal/repository/testutil"
)

func TestCreateContractTx(t *testing.T) {
	db, mock, cleanup := testutil.SetupMockDB(t)
	defer cleanup()

	repo := NewContractRepository(db)
	now := time.Now().UTC().Truncate(time.Microsecond)
	startDate := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

	// Test case 1: Successful creation fills id and timestamp
	tx := beginTestTx(t, db, mock)

	contract := &domain.Contract{
		ClientID:    1,
		Airline:     "AeroMax",
		Plan:        "Premium",
		StartDate:   startDate,
		MonthlyCost: 99.90,
		Status:      domain.ContractStatusActive,
	}

	mock.ExpectQuery(`INSERT INTO contracts`).
		WithArgs(int64(1), "AeroMax", "Premium", startDate, nil, 99.90, "active").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(10), now))

	err := repo.CreateContractTx(context.Background(), tx, contract)
	require.NoError(t, err)
	assert.Equal(t, int64(10), contract.ID)
	assert.Equal(t, now, contract.CreatedAt)

	// Test case 2: Foreign key violation means the client vanished between
	// the pre-check and the insert
	tx = beginTestTx(t, db, mock)

	mock.ExpectQuery(`INSERT INTO contracts`).
		WillReturnError(&pq.Error{Code: "23503", Constraint: "contracts_client_id_fkey"})

	err = repo.CreateContractTx(context.Background(), tx, contract)
	require.Error(t, err)
	assert.IsType(t, &domain.ErrClientNotFound{}, err)

	// Test case 3: Check violation surfaces as a constraint error
	tx = beginTestTx(t, db, mock)

	mock.ExpectQuery(`INSERT INTO contracts`).
		WillReturnError(&pq.Error{Code: "23514", Constraint: "contracts_date_order"})

	err = repo.CreateContractTx(context.Background(), tx, contract)
	require.Error(t, err)
	var cvErr *domain.ErrConstraintViolation
	require.ErrorAs(t, err, &cvErr)
	assert.Equal(t, "contracts_date_order", cvErr.Constraint)

	// Test case 4: Unclassified error is wrapped
	tx = beginTestTx(t, db, mock)

	mock.ExpectQuery(`INSERT INTO contracts`).
		WillReturnError(errors.New("database error"))

	err = repo.CreateContractTx(context.Background(), tx, contract)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create contract")
}

func TestGetContractByIDTx(t *testing.T) {
	db, mock, cleanup := testutil.SetupMockDB(t)
	defer cleanup()

	repo := NewContractRepository(db)
	now := time.Now().UTC().Truncate(time.Microsecond)
	startDate := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	endDate := time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)

	// Test case 1: Contract found with end date
	tx := beginTestTx(t, db, mock)

	rows := sqlmock.NewRows([]string{
		"id", "client_id", "airline", "plan", "start_date", "end_date", "monthly_cost", "status", "created_at",
	}).AddRow(int64(10), int64(1), "AeroMax", "Premium", startDate, endDate, 99.90, "active", now)

	mock.ExpectQuery(`SELECT (.+) FROM contracts WHERE id = \$1`).
		WithArgs(int64(10)).
		WillReturnRows(rows)

	contract, err := repo.GetContractByIDTx(context.Background(), tx, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(10), contract.ID)
	assert.Equal(t, domain.ContractStatusActive, contract.Status)
	require.NotNil(t, contract.EndDate)
	assert.Equal(t, endDate, *contract.EndDate)
	assert.Empty(t, contract.ClientName)

	// Test case 2: Contract not found
	tx = beginTestTx(t, db, mock)

	mock.ExpectQuery(`SELECT (.+) FROM contracts WHERE id = \$1`).
		WithArgs(int64(42)).
		WillReturnError(sql.ErrNoRows)

	contract, err = repo.GetContractByIDTx(context.Background(), tx, 42)
	require.Error(t, err)
	assert.IsType(t, &domain.ErrContractNotFound{}, err)
	assert.Nil(t, contract)
}

func TestUpdateContractTx(t *testing.T) {
	db, mock, cleanup := testutil.SetupMockDB(t)
	defer cleanup()

	repo := NewContractRepository(db)
	airline := "AeroMax"
	cost := 129.50

	// Test case 1: Only the supplied fields appear in the statement,
	// in deterministic column order
	tx := beginTestTx(t, db, mock)

	patch := &domain.ContractPatch{Airline: &airline, MonthlyCost: &cost}

	mock.ExpectExec(`UPDATE contracts SET airline = \$1, monthly_cost = \$2 WHERE id = \$3`).
		WithArgs("AeroMax", 129.50, int64(10)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateContractTx(context.Background(), tx, 10, patch)
	require.NoError(t, err)

	// Test case 2: Unknown id
	tx = beginTestTx(t, db, mock)

	mock.ExpectExec(`UPDATE contracts`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.UpdateContractTx(context.Background(), tx, 42, patch)
	require.Error(t, err)
	assert.IsType(t, &domain.ErrContractNotFound{}, err)

	// Test case 3: Check violation on the updated values
	tx = beginTestTx(t, db, mock)

	mock.ExpectExec(`UPDATE contracts`).
		WillReturnError(&pq.Error{Code: "23514", Constraint: "contracts_date_order"})

	err = repo.UpdateContractTx(context.Background(), tx, 10, patch)
	require.Error(t, err)
	assert.IsType(t, &domain.ErrConstraintViolation{}, err)
}

func TestDeleteContractTx(t *testing.T) {
	db, mock, cleanup := testutil.SetupMockDB(t)
	defer cleanup()

	repo := NewContractRepository(db)

	// Test case 1: Successful delete
	tx := beginTestTx(t, db, mock)

	mock.ExpectExec(`DELETE FROM contracts WHERE id = \$1`).
		WithArgs(int64(10)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.DeleteContractTx(context.Background(), tx, 10)
	require.NoError(t, err)

	// Test case 2: Unknown id
	tx = beginTestTx(t, db, mock)

	mock.ExpectExec(`DELETE FROM contracts WHERE id = \$1`).
		WithArgs(int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.DeleteContractTx(context.Background(), tx, 42)
	require.Error(t, err)
	assert.IsType(t, &domain.ErrContractNotFound{}, err)
}

func TestListContracts(t *testing.T) {
	db, mock, cleanup := testutil.SetupMockDB(t)
	defer cleanup()

	repo := NewContractRepository(db)
	now := time.Now().UTC().Truncate(time.Microsecond)
	startDate := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

	columns := []string{
		"id", "client_id", "client_name", "airline", "plan",
		"start_date", "end_date", "monthly_cost", "status", "created_at",
	}

	// Test case 1: Unfiltered list joins the client name, newest first
	rows := sqlmock.NewRows(columns).
		AddRow(int64(11), int64(2), "Bruno", "SkyJet", "Basic", startDate, nil, 49.90, "pending", now).
		AddRow(int64(10), int64(1), "Ana", "AeroMax", "Premium", startDate, nil, 99.90, "active", now)

	mock.ExpectQuery(`SELECT (.+) FROM contracts ct JOIN clients c ON ct.client_id = c.id ORDER BY ct.id DESC`).
		WillReturnRows(rows)

	contracts, err := repo.ListContracts(context.Background(), domain.ContractFilter{})
	require.NoError(t, err)
	require.Len(t, contracts, 2)
	assert.Equal(t, int64(11), contracts[0].ID)
	assert.Equal(t, "Bruno", contracts[0].ClientName)
	assert.Equal(t, "Ana", contracts[1].ClientName)

	// Test case 2: Filters are additive and passed as exact-match arguments
	rows = sqlmock.NewRows(columns).
		AddRow(int64(10), int64(1), "Ana", "AeroMax", "Premium", startDate, nil, 99.90, "active", now)

	mock.ExpectQuery(`SELECT (.+) FROM contracts ct JOIN clients c ON ct.client_id = c.id WHERE ct.airline = \$1 AND ct.status = \$2 ORDER BY ct.id DESC`).
		WithArgs("AeroMax", "active").
		WillReturnRows(rows)

	contracts, err = repo.ListContracts(context.Background(), domain.ContractFilter{Airline: "AeroMax", Status: "active"})
	require.NoError(t, err)
	require.Len(t, contracts, 1)
	assert.Equal(t, "AeroMax", contracts[0].Airline)

	// Test case 3: Single filter applies on its own
	mock.ExpectQuery(`SELECT (.+) FROM contracts ct JOIN clients c ON ct.client_id = c.id WHERE ct.status = \$1 ORDER BY ct.id DESC`).
		WithArgs("cancelled").
		WillReturnRows(sqlmock.NewRows(columns))

	contracts, err = repo.ListContracts(context.Background(), domain.ContractFilter{Status: "cancelled"})
	require.NoError(t, err)
	assert.NotNil(t, contracts)
	assert.Empty(t, contracts)

	// Test case 4: Database error
	mock.ExpectQuery(`SELECT (.+) FROM contracts ct JOIN clients c`).
		WillReturnError(errors.New("database error"))

	contracts, err = repo.ListContracts(context.Background(), domain.ContractFilter{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list contracts")
	assert.Nil(t, contracts)
}
