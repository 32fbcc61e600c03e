package importer

import (
	"context"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/jask/ynab4import/internal/ledger"
	"github.com/jask/ynab4import/internal/logger"
	"github.com/jask/ynab4import/internal/ynab4"
)

const incomeCategoryName = "Income"

// txResolver holds the ledger lookups shared by every transaction of a run.
type txResolver struct {
	reg            *Registry
	incomeID       string
	accounts       map[string]ledger.Account
	transferPayees map[string]string // ledger account id -> payee id
}

func (im *Importer) newTxResolver(ctx context.Context) (*txResolver, error) {
	cats, err := im.Ledger.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	incomeID, err := incomeCategoryID(cats)
	if err != nil {
		return nil, err
	}

	accounts, err := im.Ledger.ListAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	payees, err := im.Ledger.ListPayees(ctx)
	if err != nil {
		return nil, fmt.Errorf("list payees: %w", err)
	}

	r := &txResolver{
		reg:            im.Registry,
		incomeID:       incomeID,
		accounts:       make(map[string]ledger.Account, len(accounts)),
		transferPayees: make(map[string]string),
	}
	for _, a := range accounts {
		r.accounts[a.ID] = a
	}
	for _, p := range payees {
		if p.TransferAccount == nil {
			continue
		}
		if _, seen := r.transferPayees[*p.TransferAccount]; !seen {
			r.transferPayees[*p.TransferAccount] = p.ID
		}
	}
	return r, nil
}

func incomeCategoryID(cats []ledger.Category) (string, error) {
	var ids []string
	for _, c := range cats {
		if c.Name == incomeCategoryName {
			ids = append(ids, c.ID)
		}
	}
	if len(ids) != 1 {
		return "", fmt.Errorf("%w: found %d", ErrIncomeCategory, len(ids))
	}
	return ids[0], nil
}

// category resolves a legacy category marker or id to a ledger category.
func (r *txResolver) category(legacyID string) *string {
	switch legacyID {
	case "", ynab4.CategorySplit:
		return nil
	case ynab4.CategoryImmediateIncome, ynab4.CategoryDeferredIncome:
		id := r.incomeID
		return &id
	default:
		return r.reg.Lookup(legacyID)
	}
}

// account resolves the ledger account owning a legacy account's transactions.
func (r *txResolver) account(legacyID string) (ledger.Account, error) {
	id, ok := r.reg.Get(legacyID)
	if !ok {
		return ledger.Account{}, fmt.Errorf("%w: %q not imported", ErrMissingAccountReference, legacyID)
	}
	acct, ok := r.accounts[id]
	if !ok {
		return ledger.Account{}, fmt.Errorf("%w: %q has no ledger account %s", ErrMissingAccountReference, legacyID, id)
	}
	return acct, nil
}

func (r *txResolver) transaction(t ynab4.Transaction, acct ledger.Account) (ledger.Transaction, error) {
	id, _ := r.reg.Get(t.EntityID)
	out := ledger.Transaction{
		ID:      id,
		Date:    t.Date,
		Amount:  toMinorUnits(t.Amount),
		Notes:   optionalString(t.Memo),
		Cleared: t.Cleared == "Cleared" || t.Cleared == "Reconciled",
	}
	// Off-budget accounts never carry a category on the transaction itself.
	if !acct.OffBudget {
		out.CategoryID = r.category(t.CategoryID)
	}

	if transferID, ok := r.reg.Get(t.TransferTransactionID); ok {
		// Transfer payees belong to the ledger, one per account; join on the
		// other leg's account instead of copying the legacy payee id.
		target, ok := r.reg.Get(t.TargetAccountID)
		if !ok {
			return ledger.Transaction{}, fmt.Errorf("%w: transaction %s target account %q not imported",
				ErrUnresolvedTransferPayee, t.EntityID, t.TargetAccountID)
		}
		payeeID, ok := r.transferPayees[target]
		if !ok {
			return ledger.Transaction{}, fmt.Errorf("%w: transaction %s account %s",
				ErrUnresolvedTransferPayee, t.EntityID, target)
		}
		out.TransferID = &transferID
		out.PayeeID = &payeeID
	} else {
		out.PayeeID = r.reg.Lookup(t.PayeeID)
	}

	// TODO: decide whether split categories should also be cleared on
	// off-budget accounts; today only the parent's category is.
	for _, st := range t.SubTransactions {
		if st.IsTombstone {
			continue
		}
		out.Splits = append(out.Splits, ledger.Split{
			Amount:     toMinorUnits(st.Amount),
			CategoryID: r.category(st.CategoryID),
			Notes:      optionalString(st.Memo),
		})
	}
	return out, nil
}

// ImportTransactions writes every live legacy transaction, one batch per
// account. Accounts, categories and payees must already be imported.
func (im *Importer) ImportTransactions(ctx context.Context, txs []ynab4.Transaction) (int, error) {
	r, err := im.newTxResolver(ctx)
	if err != nil {
		return 0, err
	}

	// Every transaction gets its id up front, tombstoned ones included, so a
	// transfer leg resolves its counterpart whatever order accounts run in.
	for _, t := range txs {
		im.Registry.Allocate(t.EntityID)
	}

	var order []string
	byAccount := make(map[string][]ynab4.Transaction)
	for _, t := range txs {
		if _, ok := byAccount[t.AccountID]; !ok {
			order = append(order, t.AccountID)
		}
		byAccount[t.AccountID] = append(byAccount[t.AccountID], t)
	}

	var written atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	im.limit(g)
	for _, legacyAccountID := range order {
		g.Go(func() error {
			n, err := im.importAccountTransactions(gctx, r, legacyAccountID, byAccount[legacyAccountID])
			written.Add(int64(n))
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return int(written.Load()), err
	}

	log := logger.FromContext(ctx)
	log.Info().
		Int64("written", written.Load()).
		Int("accounts", len(order)).
		Msg("transactions imported")
	return int(written.Load()), nil
}

func (im *Importer) importAccountTransactions(ctx context.Context, r *txResolver, legacyAccountID string, txs []ynab4.Transaction) (int, error) {
	live := make([]ynab4.Transaction, 0, len(txs))
	for _, t := range txs {
		if !t.IsTombstone {
			live = append(live, t)
		}
	}
	if len(live) == 0 {
		return 0, nil
	}

	acct, err := r.account(legacyAccountID)
	if err != nil {
		return 0, err
	}

	out := make([]ledger.Transaction, len(live))
	var g errgroup.Group
	im.limit(&g)
	for i, t := range live {
		g.Go(func() error {
			lt, err := r.transaction(t, acct)
			if err != nil {
				return err
			}
			out[i] = lt
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	if err := im.Ledger.AddTransactions(ctx, acct.ID, out); err != nil {
		return 0, fmt.Errorf("add transactions to %q: %w", acct.Name, err)
	}
	log := logger.FromContext(ctx)
	log.Debug().Str("account", acct.Name).Int("count", len(out)).Msg("account transactions written")
	return len(out), nil
}
