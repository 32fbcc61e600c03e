package importer

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/jask/ynab4import/internal/ledger"
)

type budgetCall struct {
	Kind       string // "amount" or "carryover"
	Month      string
	CategoryID string
	Amount     int64
	Carryover  bool
}

// fakeLedger is an in-memory ledger.Service recording what the importer
// writes. New categories go to the top of their group like the real one.
type fakeLedger struct {
	mu     sync.Mutex
	nextID int

	accounts   []ledger.Account
	notes      map[string]string
	groups     map[string]ledger.NewCategoryGroup
	categories []ledger.Category
	created    []string // CreateCategory names in call order
	payees     []ledger.Payee
	txs        map[string][]ledger.Transaction
	budgets    []budgetCall
	batches    int
	inBatch    bool

	failCreateCategory string
}

func newFakeLedger() *fakeLedger {
	f := &fakeLedger{
		notes:  make(map[string]string),
		groups: make(map[string]ledger.NewCategoryGroup),
		txs:    make(map[string][]ledger.Transaction),
	}
	gid := f.id("group")
	f.groups[gid] = ledger.NewCategoryGroup{Name: "Income", IsIncome: true}
	f.categories = append(f.categories, ledger.Category{ID: "income", GroupID: gid, Name: "Income", IsIncome: true})
	return f
}

func (f *fakeLedger) id(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s-%d", prefix, f.nextID)
}

func (f *fakeLedger) CreateAccount(_ context.Context, a ledger.NewAccount) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.id("acct")
	f.accounts = append(f.accounts, ledger.Account{ID: id, Name: a.Name, Type: a.Type, OffBudget: a.OffBudget, Closed: a.Closed})
	f.notes[id] = a.Note
	acct := id
	f.payees = append(f.payees, ledger.Payee{ID: f.id("tpayee"), Name: a.Name, TransferAccount: &acct})
	return id, nil
}

func (f *fakeLedger) CreateCategoryGroup(_ context.Context, g ledger.NewCategoryGroup) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.id("group")
	f.groups[id] = g
	return id, nil
}

func (f *fakeLedger) CreateCategory(_ context.Context, c ledger.NewCategory) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c.Name == f.failCreateCategory {
		return "", fmt.Errorf("boom")
	}
	if _, ok := f.groups[c.GroupID]; !ok {
		return "", fmt.Errorf("unknown group %s", c.GroupID)
	}
	order := int64(0)
	for _, existing := range f.categories {
		if existing.GroupID == c.GroupID && existing.SortOrder <= order {
			order = existing.SortOrder - 1
		}
	}
	id := f.id("cat")
	f.created = append(f.created, c.Name)
	f.categories = append(f.categories, ledger.Category{ID: id, GroupID: c.GroupID, Name: c.Name, SortOrder: order})
	return id, nil
}

func (f *fakeLedger) CreatePayee(_ context.Context, p ledger.NewPayee) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p.TransferAccount != nil {
		for _, existing := range f.payees {
			if existing.TransferAccount != nil && *existing.TransferAccount == *p.TransferAccount {
				return existing.ID, nil
			}
		}
	}
	id := f.id("payee")
	f.payees = append(f.payees, ledger.Payee{ID: id, Name: p.Name, CategoryID: p.CategoryID, TransferAccount: p.TransferAccount})
	return id, nil
}

func (f *fakeLedger) ListAccounts(context.Context) ([]ledger.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]ledger.Account(nil), f.accounts...), nil
}

func (f *fakeLedger) ListCategories(context.Context) ([]ledger.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]ledger.Category(nil), f.categories...), nil
}

func (f *fakeLedger) ListPayees(context.Context) ([]ledger.Payee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]ledger.Payee(nil), f.payees...), nil
}

func (f *fakeLedger) AddTransactions(_ context.Context, accountID string, txs []ledger.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.txs[accountID] = append(f.txs[accountID], txs...)
	return nil
}

func (f *fakeLedger) BatchBudgetUpdates(ctx context.Context, fn func(ctx context.Context) error) error {
	f.mu.Lock()
	f.batches++
	f.inBatch = true
	f.mu.Unlock()
	defer func() {
		f.mu.Lock()
		f.inBatch = false
		f.mu.Unlock()
	}()
	return fn(ctx)
}

func (f *fakeLedger) SetBudgetAmount(_ context.Context, month, categoryID string, amount int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.inBatch {
		return fmt.Errorf("budget write outside batch")
	}
	f.budgets = append(f.budgets, budgetCall{Kind: "amount", Month: month, CategoryID: categoryID, Amount: amount})
	return nil
}

func (f *fakeLedger) SetBudgetCarryover(_ context.Context, month, categoryID string, carryover bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.inBatch {
		return fmt.Errorf("budget write outside batch")
	}
	f.budgets = append(f.budgets, budgetCall{Kind: "carryover", Month: month, CategoryID: categoryID, Carryover: carryover})
	return nil
}

// categoryNames lists a group's category names in display order.
func (f *fakeLedger) categoryNames(groupID string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var cats []ledger.Category
	for _, c := range f.categories {
		if c.GroupID == groupID {
			cats = append(cats, c)
		}
	}
	sort.SliceStable(cats, func(i, j int) bool { return cats[i].SortOrder < cats[j].SortOrder })
	names := make([]string, len(cats))
	for i, c := range cats {
		names[i] = c.Name
	}
	return names
}

func (f *fakeLedger) groupByName(name string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, g := range f.groups {
		if g.Name == name {
			return id, true
		}
	}
	return "", false
}

func (f *fakeLedger) budgetCalls(kind string) []budgetCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []budgetCall
	for _, c := range f.budgets {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}
