package ledger

import "context"

// Service is the target budgeting system the importer writes into.
type Service interface {
	CreateAccount(ctx context.Context, a NewAccount) (string, error)
	CreateCategoryGroup(ctx context.Context, g NewCategoryGroup) (string, error)
	// CreateCategory places the new category at the top of its group.
	CreateCategory(ctx context.Context, c NewCategory) (string, error)
	CreatePayee(ctx context.Context, p NewPayee) (string, error)

	ListAccounts(ctx context.Context) ([]Account, error)
	ListCategories(ctx context.Context) ([]Category, error)
	ListPayees(ctx context.Context) ([]Payee, error)

	// AddTransactions writes one account's transactions as a single batch.
	AddTransactions(ctx context.Context, accountID string, txs []Transaction) error

	// BatchBudgetUpdates runs fn with budget writes grouped into one batch.
	BatchBudgetUpdates(ctx context.Context, fn func(ctx context.Context) error) error
	SetBudgetAmount(ctx context.Context, month, categoryID string, amount int64) error
	SetBudgetCarryover(ctx context.Context, month, categoryID string, carryover bool) error
}

// Account types understood by the ledger.
const (
	AccountChecking   = "checking"
	AccountCredit     = "credit"
	AccountSavings    = "savings"
	AccountInvestment = "investment"
	AccountMortgage   = "mortgage"
	AccountOther      = "other"
)

type NewAccount struct {
	Name      string
	Type      string
	OffBudget bool
	Closed    bool
	Note      string
}

type Account struct {
	ID        string
	Name      string
	Type      string
	OffBudget bool
	Closed    bool
}

type NewCategoryGroup struct {
	Name     string
	IsIncome bool
}

type NewCategory struct {
	Name    string
	GroupID string
}

type Category struct {
	ID        string
	GroupID   string
	Name      string
	IsIncome  bool
	SortOrder int64
}

type NewPayee struct {
	Name            string
	CategoryID      *string
	TransferAccount *string
}

type Payee struct {
	ID              string
	Name            string
	CategoryID      *string
	TransferAccount *string
}

// Transaction is a top-level ledger entry. Amounts are integer minor units.
type Transaction struct {
	ID         string
	Date       string // YYYY-MM-DD
	Amount     int64
	CategoryID *string
	PayeeID    *string
	Notes      *string
	TransferID *string
	Cleared    bool
	Splits     []Split
}

// Split is one line of a split transaction.
type Split struct {
	Amount     int64
	CategoryID *string
	Notes      *string
}
