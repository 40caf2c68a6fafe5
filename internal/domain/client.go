package domain

import (
	"context"
	"database/sql"
	"time"

	"github.com/asaskevich/govalidator"
)

// Client represents a customer record with contact info
type Client struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone"`
	CreatedAt time.Time `json:"created_at"`

	// ContractCount is computed per query, never stored
	ContractCount int `json:"contract_count"`
}

// For database scanning
type dbClient struct {
	ID            int64
	Name          string
	Email         string
	Phone         sql.NullString
	CreatedAt     time.Time
	ContractCount int
}

// ScanClient scans a client row without the contract count column
func ScanClient(scanner interface {
	Scan(dest ...interface{}) error
}) (*Client, error) {
	var dbc dbClient
	if err := scanner.Scan(
		&dbc.ID,
		&dbc.Name,
		&dbc.Email,
		&dbc.Phone,
		&dbc.CreatedAt,
	); err != nil {
		return nil, err
	}
	return dbc.toClient(), nil
}

// ScanClientWithCount scans a client row annotated with its contract count
func ScanClientWithCount(scanner interface {
	Scan(dest ...interface{}) error
}) (*Client, error) {
	var dbc dbClient
	if err := scanner.Scan(
		&dbc.ID,
		&dbc.Name,
		&dbc.Email,
		&dbc.Phone,
		&dbc.CreatedAt,
		&dbc.ContractCount,
	); err != nil {
		return nil, err
	}
	return dbc.toClient(), nil
}

func (dbc *dbClient) toClient() *Client {
	c := &Client{
		ID:            dbc.ID,
		Name:          dbc.Name,
		Email:         dbc.Email,
		CreatedAt:     dbc.CreatedAt,
		ContractCount: dbc.ContractCount,
	}
	if dbc.Phone.Valid {
		phone := dbc.Phone.String
		c.Phone = &phone
	}
	return c
}

// Request/Response types
type CreateClientRequest struct {
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Phone *string `json:"phone,omitempty"`
}

func (r *CreateClientRequest) Validate() (*Client, error) {
	if r.Name == "" {
		return nil, NewValidationError("name is required")
	}
	if r.Email == "" {
		return nil, NewValidationError("email is required")
	}
	if !govalidator.IsEmail(r.Email) {
		return nil, NewValidationError("email is not valid")
	}
	return &Client{
		Name:  r.Name,
		Email: r.Email,
		Phone: r.Phone,
	}, nil
}

type UpdateClientRequest struct {
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Phone *string `json:"phone,omitempty"`
}

// Validate checks the full replacement payload; client update requires
// re-supplying name and email
func (r *UpdateClientRequest) Validate(id int64) (*Client, error) {
	if id <= 0 {
		return nil, NewValidationError("id must be a positive integer")
	}
	if r.Name == "" {
		return nil, NewValidationError("name is required")
	}
	if r.Email == "" {
		return nil, NewValidationError("email is required")
	}
	if !govalidator.IsEmail(r.Email) {
		return nil, NewValidationError("email is not valid")
	}
	return &Client{
		ID:    id,
		Name:  r.Name,
		Email: r.Email,
		Phone: r.Phone,
	}, nil
}

// DeletedClient is the DeleteClient response payload: the removed record plus
// the number of contracts the cascade took with it
type DeletedClient struct {
	Client           *Client `json:"client"`
	ContractsRemoved int     `json:"contracts_removed"`
}

// ClientRepository provides access to client storage. The Tx variants run
// against a caller-owned transaction so multi-step checks and their mutation
// share one unit of work.
type ClientRepository interface {
	WithTransaction(ctx context.Context, fn func(*sql.Tx) error) error
	CreateClientTx(ctx context.Context, tx *sql.Tx, client *Client) error
	GetClientByIDTx(ctx context.Context, tx *sql.Tx, id int64) (*Client, error)
	EmailExistsTx(ctx context.Context, tx *sql.Tx, email string, excludeID int64) (bool, error)
	UpdateClientTx(ctx context.Context, tx *sql.Tx, client *Client) error
	DeleteClientTx(ctx context.Context, tx *sql.Tx, id int64) error
	CountContractsTx(ctx context.Context, tx *sql.Tx, clientID int64) (int, error)
	ListClients(ctx context.Context) ([]*Client, error)
}

// ClientService is the transactional mutation surface for clients
type ClientService interface {
	CreateClient(ctx context.Context, req *CreateClientRequest) (*Client, error)
	UpdateClient(ctx context.Context, id int64, req *UpdateClientRequest) (*Client, error)
	DeleteClient(ctx context.Context, id int64) (*DeletedClient, error)
	ListClients(ctx context.Context) ([]*Client, error)
}
