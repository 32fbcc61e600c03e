package service

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/ynab4import/internal/database"
	"github.com/jask/ynab4import/internal/database/repository"
	"github.com/jask/ynab4import/internal/importer"
	"github.com/jask/ynab4import/internal/ledger"
	"github.com/jask/ynab4import/internal/testdata"
	"github.com/jask/ynab4import/internal/ynab4"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, database.RunMigrations(dbPath))

	db, err := database.Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.SeedDefaults(context.Background(), db))
	return db
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestSeedDefaultsIdempotent(t *testing.T) {
	t.Parallel()
	ctx := testContext(t)
	db := openTestDB(t)

	require.NoError(t, database.SeedDefaults(ctx, db))
	cats, err := NewLedgerService(db).ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 1)
	require.Equal(t, "Income", cats[0].Name)
	require.True(t, cats[0].IsIncome)
	require.Equal(t, database.IncomeCategoryID, cats[0].ID)
}

func TestLedgerCreateAccountAddsTransferPayee(t *testing.T) {
	t.Parallel()
	ctx := testContext(t)
	svc := NewLedgerService(openTestDB(t))

	id, err := svc.CreateAccount(ctx, ledger.NewAccount{Name: "Checking", Type: ledger.AccountChecking, Note: "main"})
	require.NoError(t, err)

	payees, err := svc.ListPayees(ctx)
	require.NoError(t, err)
	require.Len(t, payees, 1)
	require.Equal(t, id, *payees[0].TransferAccount)

	again, err := svc.CreatePayee(ctx, ledger.NewPayee{Name: "Transfer : Checking", TransferAccount: &id})
	require.NoError(t, err)
	require.Equal(t, payees[0].ID, again)

	payees, err = svc.ListPayees(ctx)
	require.NoError(t, err)
	require.Len(t, payees, 1)
}

func TestLedgerCreateCategoryInsertsAtTop(t *testing.T) {
	t.Parallel()
	ctx := testContext(t)
	svc := NewLedgerService(openTestDB(t))

	gid, err := svc.CreateCategoryGroup(ctx, ledger.NewCategoryGroup{Name: "Bills"})
	require.NoError(t, err)
	for _, name := range []string{"C", "B", "A"} {
		_, err := svc.CreateCategory(ctx, ledger.NewCategory{Name: name, GroupID: gid})
		require.NoError(t, err)
	}

	_, err = svc.CreateCategory(ctx, ledger.NewCategory{Name: "orphan", GroupID: "missing"})
	require.Error(t, err)

	cats, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	var names []string
	for _, c := range cats {
		if c.GroupID == gid {
			names = append(names, c.Name)
		}
	}
	require.Equal(t, []string{"A", "B", "C"}, names)
	// Expense groups sort ahead of the seeded income group.
	require.Equal(t, gid, cats[0].GroupID)
	require.Equal(t, "Income", cats[len(cats)-1].Name)
}

func TestLedgerAddTransactionsRejectsUnknownAccount(t *testing.T) {
	t.Parallel()
	ctx := testContext(t)
	svc := NewLedgerService(openTestDB(t))

	err := svc.AddTransactions(ctx, "nope", []ledger.Transaction{{Date: "2016-01-01", Amount: 1}})
	require.ErrorContains(t, err, "does not exist")
}

func TestLedgerBudgetBatchRollsBack(t *testing.T) {
	t.Parallel()
	ctx := testContext(t)
	db := openTestDB(t)
	svc := NewLedgerService(db)

	err := svc.BatchBudgetUpdates(ctx, func(ctx context.Context) error {
		require.NoError(t, svc.SetBudgetAmount(ctx, "2016-01", database.IncomeCategoryID, 100))
		return svc.SetBudgetAmount(ctx, "2016-01", "missing-category", 1)
	})
	require.Error(t, err)

	b, err := repository.NewBudgetRepo(db).Get(ctx, "2016-01", database.IncomeCategoryID)
	require.NoError(t, err)
	require.Nil(t, b)

	require.NoError(t, svc.SetBudgetCarryover(ctx, "2016-02", database.IncomeCategoryID, true))
	b, err = repository.NewBudgetRepo(db).Get(ctx, "2016-02", database.IncomeCategoryID)
	require.NoError(t, err)
	require.True(t, b.Carryover)
	require.Zero(t, b.Amount)
}

func TestImportSampleBudget(t *testing.T) {
	t.Parallel()
	ctx := testContext(t)
	db := openTestDB(t)
	svc := NewLedgerService(db)

	summary, err := importer.Run(ctx, svc, testdata.SampleBudget(), 4)
	require.NoError(t, err)
	require.Equal(t, importer.Summary{Accounts: 4, Categories: 8, Payees: 5, Transactions: 6, Budgets: 10}, summary)

	accounts, err := svc.ListAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 4)
	byName := make(map[string]ledger.Account)
	for _, a := range accounts {
		byName[a.Name] = a
	}
	require.True(t, byName["Brokerage"].OffBudget)
	require.True(t, byName["Old Card"].Closed)
	require.Equal(t, ledger.AccountCredit, byName["Old Card"].Type)

	// Categories keep their legacy order within each group.
	cats, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	groups := make(map[string][]string)
	for _, c := range cats {
		groups[c.GroupID] = append(groups[c.GroupID], c.Name)
	}
	groupList, err := repository.NewCategoryRepo(db).ListGroups(ctx)
	require.NoError(t, err)
	byGroup := make(map[string][]string)
	for _, g := range groupList {
		byGroup[g.Name] = groups[g.ID]
	}
	require.Equal(t, []string{"Rent", "Electricity"}, byGroup["Monthly Bills"])
	require.Equal(t, []string{"Groceries", "Restaurants"}, byGroup["Everyday Expenses"])
	require.Equal(t, []string{"Gym"}, byGroup["Hidden Categories"])
	require.NotContains(t, byGroup, "Pre-YNAB Debt")

	payees, err := svc.ListPayees(ctx)
	require.NoError(t, err)
	require.Len(t, payees, 7)
	transferPayee := make(map[string]string)
	for _, p := range payees {
		if p.TransferAccount != nil {
			transferPayee[*p.TransferAccount] = p.ID
		}
	}

	txRepo := repository.NewTransactionRepo(db)
	n, err := txRepo.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 6, n)

	checking, err := txRepo.ListByAccount(ctx, byName["Everyday Checking"].ID)
	require.NoError(t, err)
	require.Len(t, checking, 4)
	byDate := make(map[string]repository.Transaction)
	for _, tx := range checking {
		byDate[tx.Date] = tx
	}

	salary := byDate["2016-01-01"]
	require.Equal(t, int64(300000), salary.Amount)
	require.Equal(t, database.IncomeCategoryID, *salary.CategoryID)
	require.True(t, salary.Cleared)

	rent := byDate["2016-01-02"]
	require.Equal(t, int64(-120000), rent.Amount)
	require.Equal(t, "January", *rent.Notes)

	shop := byDate["2016-01-05"]
	require.True(t, shop.IsParent)
	require.Nil(t, shop.CategoryID)
	children, err := txRepo.Children(ctx, shop.ID)
	require.NoError(t, err)
	require.Len(t, children, 2)
	require.Equal(t, int64(-6025), children[0].Amount)
	require.Equal(t, "veg", *children[0].Notes)
	require.Equal(t, int64(-2000), children[1].Amount)

	out := byDate["2016-01-10"]
	require.Equal(t, transferPayee[byName["Rainy Day"].ID], *out.PayeeID)
	savings, err := txRepo.ListByAccount(ctx, byName["Rainy Day"].ID)
	require.NoError(t, err)
	require.Len(t, savings, 1)
	require.Equal(t, out.ID, *savings[0].TransferID)
	require.Equal(t, savings[0].ID, *out.TransferID)
	require.Equal(t, transferPayee[byName["Everyday Checking"].ID], *savings[0].PayeeID)

	brokerage, err := txRepo.ListByAccount(ctx, byName["Brokerage"].ID)
	require.NoError(t, err)
	require.Len(t, brokerage, 1)
	require.Nil(t, brokerage[0].CategoryID)

	var groceriesID string
	for _, c := range cats {
		if c.Name == "Groceries" {
			groceriesID = c.ID
		}
	}
	budgets := repository.NewBudgetRepo(db)
	jan, err := budgets.Get(ctx, "2016-01", groceriesID)
	require.NoError(t, err)
	require.Equal(t, int64(30050), jan.Amount)
	require.True(t, jan.Carryover)
	feb, err := budgets.Get(ctx, "2016-02", groceriesID)
	require.NoError(t, err)
	require.Equal(t, int64(25000), feb.Amount)
	require.False(t, feb.Carryover)

	janRows, err := budgets.ListMonth(ctx, "2016-01")
	require.NoError(t, err)
	require.Len(t, janRows, 5)
}

func TestImportCategoryGroupsKeepLegacyOrder(t *testing.T) {
	t.Parallel()
	ctx := testContext(t)
	db := openTestDB(t)

	var masters []ynab4.MasterCategory
	var want []string
	for i := 11; i >= 0; i-- {
		name := fmt.Sprintf("G%02d", 11-i)
		masters = append(masters, ynab4.MasterCategory{
			EntityID: fmt.Sprintf("M%d", i), Name: name, Type: ynab4.MasterTypeOutflow, SortableIndex: int64(i),
			SubCategories: []ynab4.SubCategory{{EntityID: fmt.Sprintf("S%d", i), Name: "c", MasterCategoryID: fmt.Sprintf("M%d", i)}},
		})
	}
	for i := 0; i < 12; i++ {
		want = append(want, fmt.Sprintf("G%02d", 11-i))
	}

	_, err := importer.New(NewLedgerService(db), 8).ImportCategories(ctx, masters)
	require.NoError(t, err)

	groups, err := repository.NewCategoryRepo(db).ListGroups(ctx)
	require.NoError(t, err)
	var got []string
	for _, g := range groups {
		if !g.IsIncome {
			got = append(got, g.Name)
		}
	}
	require.Equal(t, want, got)
}

func TestImportTwiceDuplicates(t *testing.T) {
	t.Parallel()
	ctx := testContext(t)
	svc := NewLedgerService(openTestDB(t))

	_, err := importer.Run(ctx, svc, testdata.SampleBudget(), 2)
	require.NoError(t, err)
	_, err = importer.Run(ctx, svc, testdata.SampleBudget(), 2)
	require.NoError(t, err)

	accounts, err := svc.ListAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 8)
}

func TestMaintenanceReset(t *testing.T) {
	t.Parallel()
	ctx := testContext(t)
	db := openTestDB(t)
	svc := NewLedgerService(db)

	_, err := importer.Run(ctx, svc, testdata.SampleBudget(), 2)
	require.NoError(t, err)

	require.NoError(t, (&MaintenanceService{DB: db}).Reset(ctx))

	accounts, err := svc.ListAccounts(ctx)
	require.NoError(t, err)
	require.Empty(t, accounts)
	cats, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 1)
	require.Equal(t, "Income", cats[0].Name)

	require.Error(t, (&MaintenanceService{}).Reset(ctx))
}

func TestImportManyTransactions(t *testing.T) {
	t.Parallel()
	ctx := testContext(t)
	db := openTestDB(t)

	budget := testdata.SampleBudget()
	testdata.RandomTransactions(&budget, 250, 7)
	summary, err := importer.Run(ctx, NewLedgerService(db), budget, 8)
	require.NoError(t, err)
	require.Equal(t, 256, summary.Transactions)

	n, err := repository.NewTransactionRepo(db).Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 256, n)
}
