package repository

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type scanner interface {
	Scan(dest ...any) error
}

// Account represents an account row.
type Account struct {
	ID          string
	Name        string
	AccountType string
	OffBudget   bool
	Closed      bool
	Note        *string
	SortOrder   int64
}

// CategoryGroup represents a category_groups row.
type CategoryGroup struct {
	ID        string
	Name      string
	IsIncome  bool
	SortOrder int64
}

// Category represents a category row.
type Category struct {
	ID        string
	GroupID   string
	Name      string
	IsIncome  bool
	SortOrder int64
}

// Payee represents a payee row. TransferAccount is set on the payee the
// ledger keeps for transfers into that account.
type Payee struct {
	ID              string
	Name            string
	CategoryID      *string
	TransferAccount *string
}

// Transaction represents a transaction row. Split lines are child rows
// pointing at their parent through ParentID.
type Transaction struct {
	ID         string
	AccountID  string
	ParentID   *string
	IsParent   bool
	IsChild    bool
	Date       string
	Amount     int64
	CategoryID *string
	PayeeID    *string
	Notes      *string
	TransferID *string
	Cleared    bool
	SortOrder  int64
}

// Budget is one category's budget for one month (YYYY-MM).
type Budget struct {
	Month      string
	CategoryID string
	Amount     int64
	Carryover  bool
}
