package service

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/jask/ynab4import/internal/database"
	"github.com/jask/ynab4import/internal/database/repository"
	"github.com/jask/ynab4import/internal/ledger"
)

// LedgerService is the sqlite-backed ledger the importer writes into.
type LedgerService struct {
	DB *sql.DB
}

var _ ledger.Service = (*LedgerService)(nil)

func NewLedgerService(db *sql.DB) *LedgerService {
	return &LedgerService{DB: db}
}

// CreateAccount inserts the account together with its transfer payee.
func (s *LedgerService) CreateAccount(ctx context.Context, a ledger.NewAccount) (string, error) {
	id := uuid.NewString()
	err := database.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		var note *string
		if a.Note != "" {
			note = &a.Note
		}
		if err := repository.NewAccountRepo(tx).Insert(ctx, repository.Account{
			ID:          id,
			Name:        a.Name,
			AccountType: a.Type,
			OffBudget:   a.OffBudget,
			Closed:      a.Closed,
			Note:        note,
		}); err != nil {
			return fmt.Errorf("insert account: %w", err)
		}
		acct := id
		if err := repository.NewPayeeRepo(tx).Insert(ctx, repository.Payee{
			ID:              uuid.NewString(),
			Name:            a.Name,
			TransferAccount: &acct,
		}); err != nil {
			return fmt.Errorf("insert transfer payee: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *LedgerService) CreateCategoryGroup(ctx context.Context, g ledger.NewCategoryGroup) (string, error) {
	id := uuid.NewString()
	err := database.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		cats := repository.NewCategoryRepo(tx)
		order, err := cats.NextGroupOrder(ctx)
		if err != nil {
			return err
		}
		return cats.UpsertGroup(ctx, repository.CategoryGroup{ID: id, Name: g.Name, IsIncome: g.IsIncome, SortOrder: order})
	})
	if err != nil {
		return "", fmt.Errorf("insert category group: %w", err)
	}
	return id, nil
}

// CreateCategory inserts the category above every existing category of its
// group.
func (s *LedgerService) CreateCategory(ctx context.Context, c ledger.NewCategory) (string, error) {
	id := uuid.NewString()
	err := database.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		cats := repository.NewCategoryRepo(tx)
		ok, err := cats.GroupExists(ctx, c.GroupID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("category group %s does not exist", c.GroupID)
		}
		order, err := cats.TopOrder(ctx, c.GroupID)
		if err != nil {
			return err
		}
		return cats.Upsert(ctx, repository.Category{ID: id, GroupID: c.GroupID, Name: c.Name, SortOrder: order})
	})
	if err != nil {
		return "", fmt.Errorf("insert category: %w", err)
	}
	return id, nil
}

// CreatePayee inserts a payee. A payee for a transfer account resolves to
// the transfer payee the account already has.
func (s *LedgerService) CreatePayee(ctx context.Context, p ledger.NewPayee) (string, error) {
	var id string
	err := database.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		payees := repository.NewPayeeRepo(tx)
		if p.TransferAccount != nil {
			existing, err := payees.ForTransferAccount(ctx, *p.TransferAccount)
			if err != nil {
				return err
			}
			if existing != nil {
				id = existing.ID
				return nil
			}
		}
		id = uuid.NewString()
		return payees.Insert(ctx, repository.Payee{
			ID:              id,
			Name:            p.Name,
			CategoryID:      p.CategoryID,
			TransferAccount: p.TransferAccount,
		})
	})
	if err != nil {
		return "", fmt.Errorf("insert payee: %w", err)
	}
	return id, nil
}

func (s *LedgerService) ListAccounts(ctx context.Context) ([]ledger.Account, error) {
	rows, err := repository.NewAccountRepo(s.DB).List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ledger.Account, len(rows))
	for i, a := range rows {
		out[i] = ledger.Account{ID: a.ID, Name: a.Name, Type: a.AccountType, OffBudget: a.OffBudget, Closed: a.Closed}
	}
	return out, nil
}

func (s *LedgerService) ListCategories(ctx context.Context) ([]ledger.Category, error) {
	rows, err := repository.NewCategoryRepo(s.DB).List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ledger.Category, len(rows))
	for i, c := range rows {
		out[i] = ledger.Category{ID: c.ID, GroupID: c.GroupID, Name: c.Name, IsIncome: c.IsIncome, SortOrder: c.SortOrder}
	}
	return out, nil
}

func (s *LedgerService) ListPayees(ctx context.Context) ([]ledger.Payee, error) {
	rows, err := repository.NewPayeeRepo(s.DB).List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ledger.Payee, len(rows))
	for i, p := range rows {
		out[i] = ledger.Payee{ID: p.ID, Name: p.Name, CategoryID: p.CategoryID, TransferAccount: p.TransferAccount}
	}
	return out, nil
}

// AddTransactions writes one account's transactions, split lines included,
// in a single sql transaction.
func (s *LedgerService) AddTransactions(ctx context.Context, accountID string, txs []ledger.Transaction) error {
	return database.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		acct, err := repository.NewAccountRepo(tx).Get(ctx, accountID)
		if err != nil {
			return err
		}
		if acct == nil {
			return fmt.Errorf("account %s does not exist", accountID)
		}
		repo := repository.NewTransactionRepo(tx)
		for i, t := range txs {
			id := t.ID
			if id == "" {
				id = uuid.NewString()
			}
			parent := repository.Transaction{
				ID:         id,
				AccountID:  accountID,
				IsParent:   len(t.Splits) > 0,
				Date:       t.Date,
				Amount:     t.Amount,
				CategoryID: t.CategoryID,
				PayeeID:    t.PayeeID,
				Notes:      t.Notes,
				TransferID: t.TransferID,
				Cleared:    t.Cleared,
				SortOrder:  int64(i),
			}
			if err := repo.Insert(ctx, parent); err != nil {
				return fmt.Errorf("insert transaction %s: %w", id, err)
			}
			for j, sp := range t.Splits {
				child := repository.Transaction{
					ID:         uuid.NewString(),
					AccountID:  accountID,
					ParentID:   &id,
					IsChild:    true,
					Date:       t.Date,
					Amount:     sp.Amount,
					CategoryID: sp.CategoryID,
					PayeeID:    t.PayeeID,
					Notes:      sp.Notes,
					Cleared:    t.Cleared,
					SortOrder:  int64(j),
				}
				if err := repo.Insert(ctx, child); err != nil {
					return fmt.Errorf("insert split of %s: %w", id, err)
				}
			}
		}
		return nil
	})
}

type batchKey struct{}

// budgetBatch serializes budget writes onto one open sql transaction.
type budgetBatch struct {
	mu   sync.Mutex
	repo *repository.BudgetRepo
}

// BatchBudgetUpdates runs fn with every budget write made through its
// context committed as one sql transaction.
func (s *LedgerService) BatchBudgetUpdates(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, nested := ctx.Value(batchKey{}).(*budgetBatch); nested {
		return fn(ctx)
	}
	return database.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		b := &budgetBatch{repo: repository.NewBudgetRepo(tx)}
		return fn(context.WithValue(ctx, batchKey{}, b))
	})
}

func (s *LedgerService) budgets(ctx context.Context, write func(*repository.BudgetRepo) error) error {
	if b, ok := ctx.Value(batchKey{}).(*budgetBatch); ok {
		b.mu.Lock()
		defer b.mu.Unlock()
		return write(b.repo)
	}
	return write(repository.NewBudgetRepo(s.DB))
}

func (s *LedgerService) SetBudgetAmount(ctx context.Context, month, categoryID string, amount int64) error {
	return s.budgets(ctx, func(r *repository.BudgetRepo) error {
		if err := r.SetAmount(ctx, month, categoryID, amount); err != nil {
			return fmt.Errorf("budget %s %s: %w", month, categoryID, err)
		}
		return nil
	})
}

func (s *LedgerService) SetBudgetCarryover(ctx context.Context, month, categoryID string, carryover bool) error {
	return s.budgets(ctx, func(r *repository.BudgetRepo) error {
		if err := r.SetCarryover(ctx, month, categoryID, carryover); err != nil {
			return fmt.Errorf("carryover %s %s: %w", month, categoryID, err)
		}
		return nil
	})
}
