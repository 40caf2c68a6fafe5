package domain

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// ContractStatus represents the lifecycle status of a contract
type ContractStatus string

const (
	ContractStatusActive    ContractStatus = "active"
	ContractStatusInactive  ContractStatus = "inactive"
	ContractStatusPending   ContractStatus = "pending"
	ContractStatusCancelled ContractStatus = "cancelled"
)

// Validate checks the status against the known values
func (s ContractStatus) Validate() error {
	switch s {
	case ContractStatusActive, ContractStatusInactive, ContractStatusPending, ContractStatusCancelled:
		return nil
	}
	return NewValidationError(fmt.Sprintf("invalid status: %s", s))
}

// DateFormat is the wire format for contract dates
const DateFormat = "2006-01-02"

// Contract represents a service agreement linking one client to an
// airline/plan with cost and validity window
type Contract struct {
	ID          int64          `json:"id"`
	ClientID    int64          `json:"client_id"`
	Airline     string         `json:"airline"`
	Plan        string         `json:"plan"`
	StartDate   time.Time      `json:"start_date"`
	EndDate     *time.Time     `json:"end_date"`
	MonthlyCost float64        `json:"monthly_cost"`
	Status      ContractStatus `json:"status"`
	CreatedAt   time.Time      `json:"created_at"`

	// ClientName is populated by list queries joining the owning client
	ClientName string `json:"client_name,omitempty"`
}

// For database scanning
type dbContract struct {
	ID          int64
	ClientID    int64
	ClientName  sql.NullString
	Airline     string
	Plan        string
	StartDate   time.Time
	EndDate     sql.NullTime
	MonthlyCost float64
	Status      string
	CreatedAt   time.Time
}

// ScanContract scans a contract row without the joined client name
func ScanContract(scanner interface {
	Scan(dest ...interface{}) error
}) (*Contract, error) {
	var dbc dbContract
	if err := scanner.Scan(
		&dbc.ID,
		&dbc.ClientID,
		&dbc.Airline,
		&dbc.Plan,
		&dbc.StartDate,
		&dbc.EndDate,
		&dbc.MonthlyCost,
		&dbc.Status,
		&dbc.CreatedAt,
	); err != nil {
		return nil, err
	}
	return dbc.toContract(), nil
}

// ScanContractWithClient scans a contract row joined with the owning client's name
func ScanContractWithClient(scanner interface {
	Scan(dest ...interface{}) error
}) (*Contract, error) {
	var dbc dbContract
	if err := scanner.Scan(
		&dbc.ID,
		&dbc.ClientID,
		&dbc.ClientName,
		&dbc.Airline,
		&dbc.Plan,
		&dbc.StartDate,
		&dbc.EndDate,
		&dbc.MonthlyCost,
		&dbc.Status,
		&dbc.CreatedAt,
	); err != nil {
		return nil, err
	}
	return dbc.toContract(), nil
}

func (dbc *dbContract) toContract() *Contract {
	c := &Contract{
		ID:          dbc.ID,
		ClientID:    dbc.ClientID,
		Airline:     dbc.Airline,
		Plan:        dbc.Plan,
		StartDate:   dbc.StartDate,
		MonthlyCost: dbc.MonthlyCost,
		Status:      ContractStatus(dbc.Status),
		CreatedAt:   dbc.CreatedAt,
	}
	if dbc.EndDate.Valid {
		end := dbc.EndDate.Time
		c.EndDate = &end
	}
	if dbc.ClientName.Valid {
		c.ClientName = dbc.ClientName.String
	}
	return c
}

// Request/Response types
type CreateContractRequest struct {
	ClientID    int64   `json:"client_id"`
	Airline     string  `json:"airline"`
	Plan        string  `json:"plan"`
	StartDate   string  `json:"start_date"`
	EndDate     *string `json:"end_date,omitempty"`
	MonthlyCost float64 `json:"monthly_cost"`
	Status      string  `json:"status,omitempty"`
}

// Validate checks required fields and parses dates. Date ordering and cost
// positivity are re-checked by the service inside the transaction, after the
// client existence check, so the most specific error is reported first.
func (r *CreateContractRequest) Validate() (*Contract, error) {
	if r.ClientID <= 0 {
		return nil, NewValidationError("client_id is required")
	}
	if r.Airline == "" {
		return nil, NewValidationError("airline is required")
	}
	if r.Plan == "" {
		return nil, NewValidationError("plan is required")
	}
	if r.StartDate == "" {
		return nil, NewValidationError("start_date is required")
	}
	startDate, err := time.Parse(DateFormat, r.StartDate)
	if err != nil {
		return nil, NewValidationError("start_date must be formatted as YYYY-MM-DD")
	}
	if r.MonthlyCost == 0 {
		return nil, NewValidationError("monthly_cost is required")
	}

	contract := &Contract{
		ClientID:    r.ClientID,
		Airline:     r.Airline,
		Plan:        r.Plan,
		StartDate:   startDate,
		MonthlyCost: r.MonthlyCost,
		Status:      ContractStatusActive,
	}

	if r.EndDate != nil && *r.EndDate != "" {
		endDate, err := time.Parse(DateFormat, *r.EndDate)
		if err != nil {
			return nil, NewValidationError("end_date must be formatted as YYYY-MM-DD")
		}
		contract.EndDate = &endDate
	}

	if r.Status != "" {
		status := ContractStatus(r.Status)
		if err := status.Validate(); err != nil {
			return nil, err
		}
		contract.Status = status
	}

	return contract, nil
}

// UpdateContractRequest carries a partial update: only non-nil fields are
// applied, fields omitted from the payload are left untouched
type UpdateContractRequest struct {
	Airline     *string  `json:"airline,omitempty"`
	Plan        *string  `json:"plan,omitempty"`
	StartDate   *string  `json:"start_date,omitempty"`
	EndDate     *string  `json:"end_date,omitempty"`
	MonthlyCost *float64 `json:"monthly_cost,omitempty"`
	Status      *string  `json:"status,omitempty"`
}

// Validate parses the supplied fields into a ContractPatch
func (r *UpdateContractRequest) Validate(id int64) (*ContractPatch, error) {
	if id <= 0 {
		return nil, NewValidationError("id must be a positive integer")
	}

	patch := &ContractPatch{}

	if r.Airline != nil {
		if *r.Airline == "" {
			return nil, NewValidationError("airline must not be empty")
		}
		patch.Airline = r.Airline
	}
	if r.Plan != nil {
		if *r.Plan == "" {
			return nil, NewValidationError("plan must not be empty")
		}
		patch.Plan = r.Plan
	}
	if r.StartDate != nil {
		startDate, err := time.Parse(DateFormat, *r.StartDate)
		if err != nil {
			return nil, NewValidationError("start_date must be formatted as YYYY-MM-DD")
		}
		patch.StartDate = &startDate
	}
	if r.EndDate != nil {
		endDate, err := time.Parse(DateFormat, *r.EndDate)
		if err != nil {
			return nil, NewValidationError("end_date must be formatted as YYYY-MM-DD")
		}
		patch.EndDate = &endDate
	}
	if r.MonthlyCost != nil {
		patch.MonthlyCost = r.MonthlyCost
	}
	if r.Status != nil {
		status := ContractStatus(*r.Status)
		if err := status.Validate(); err != nil {
			return nil, err
		}
		patch.Status = &status
	}

	if patch.IsEmpty() {
		return nil, NewValidationError("no fields to update")
	}

	return patch, nil
}

// ContractPatch maps supplied fields to their new values; nil means the field
// was not part of the request and keeps its prior value
type ContractPatch struct {
	Airline     *string
	Plan        *string
	StartDate   *time.Time
	EndDate     *time.Time
	MonthlyCost *float64
	Status      *ContractStatus
}

// IsEmpty reports whether no field was supplied
func (p *ContractPatch) IsEmpty() bool {
	return p.Airline == nil && p.Plan == nil && p.StartDate == nil &&
		p.EndDate == nil && p.MonthlyCost == nil && p.Status == nil
}

// Fields compiles the patch into a column/value map for the update statement
func (p *ContractPatch) Fields() map[string]interface{} {
	fields := map[string]interface{}{}
	if p.Airline != nil {
		fields["airline"] = *p.Airline
	}
	if p.Plan != nil {
		fields["plan"] = *p.Plan
	}
	if p.StartDate != nil {
		fields["start_date"] = *p.StartDate
	}
	if p.EndDate != nil {
		fields["end_date"] = *p.EndDate
	}
	if p.MonthlyCost != nil {
		fields["monthly_cost"] = *p.MonthlyCost
	}
	if p.Status != nil {
		fields["status"] = string(*p.Status)
	}
	return fields
}

// ContractFilter narrows ListContracts; both filters are optional and additive
type ContractFilter struct {
	Airline string
	Status  string
}

// ContractRepository provides access to contract storage
type ContractRepository interface {
	WithTransaction(ctx context.Context, fn func(*sql.Tx) error) error
	CreateContractTx(ctx context.Context, tx *sql.Tx, contract *Contract) error
	GetContractByIDTx(ctx context.Context, tx *sql.Tx, id int64) (*Contract, error)
	UpdateContractTx(ctx context.Context, tx *sql.Tx, id int64, patch *ContractPatch) error
	DeleteContractTx(ctx context.Context, tx *sql.Tx, id int64) error
	ListContracts(ctx context.Context, filter ContractFilter) ([]*Contract, error)
}

// ContractService is the transactional mutation surface for contracts
type ContractService interface {
	CreateContract(ctx context.Context, req *CreateContractRequest) (*Contract, error)
	UpdateContract(ctx context.Context, id int64, req *UpdateContractRequest) (*Contract, error)
	DeleteContract(ctx context.Context, id int64) (*Contract, error)
	ListContracts(ctx context.Context, filter ContractFilter) ([]*Contract, error)
}
