package testdata

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	"github.com/jask/ynab4import/internal/ynab4"
)

// Legacy ids used by SampleBudget, for assertions.
const (
	CheckingID        = "acct-checking"
	SavingsID         = "acct-savings"
	BrokerageID       = "acct-brokerage"
	ClosedID          = "acct-closed"
	EverydayID        = "mc-everyday"
	BillsID           = "mc-bills"
	GroceriesID       = "sc-groceries"
	DiningID          = "sc-dining"
	RentID            = "sc-rent"
	PowerID           = "sc-power"
	MarketID          = "payee-market"
	LandlordID        = "payee-landlord"
	SavingsTransferID = "payee-transfer-savings"
)

func amount(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// SampleBudget returns a small household budget exercising transfers,
// splits, income, off-budget accounts, hidden categories and carryover.
func SampleBudget() ynab4.Budget {
	return ynab4.Budget{
		Accounts: []ynab4.Account{
			{EntityID: CheckingID, AccountName: "Everyday Checking", AccountType: "Checking", OnBudget: true, SortableIndex: 0},
			{EntityID: SavingsID, AccountName: "Rainy Day", AccountType: "Savings", OnBudget: true, SortableIndex: 1},
			{EntityID: BrokerageID, AccountName: "Brokerage", AccountType: "InvestmentAccount", OnBudget: false, SortableIndex: 2},
			{EntityID: ClosedID, AccountName: "Old Card", AccountType: "CreditCard", OnBudget: true, Hidden: true, SortableIndex: 3},
			{EntityID: "acct-deleted", AccountName: "Deleted", AccountType: "Cash", IsTombstone: true},
		},
		MasterCategories: []ynab4.MasterCategory{
			{
				EntityID: BillsID, Name: "Monthly Bills", Type: ynab4.MasterTypeOutflow, SortableIndex: 1,
				SubCategories: []ynab4.SubCategory{
					{EntityID: PowerID, Name: "Electricity", SortableIndex: 2, MasterCategoryID: BillsID},
					{EntityID: RentID, Name: "Rent", SortableIndex: 1, MasterCategoryID: BillsID},
				},
			},
			{
				EntityID: EverydayID, Name: "Everyday Expenses", Type: ynab4.MasterTypeOutflow, SortableIndex: 2,
				SubCategories: []ynab4.SubCategory{
					{EntityID: GroceriesID, Name: "Groceries", SortableIndex: 1, MasterCategoryID: EverydayID},
					{EntityID: DiningID, Name: "Restaurants", SortableIndex: 2, MasterCategoryID: EverydayID},
					{EntityID: "sc-deleted", Name: "Gone", SortableIndex: 3, MasterCategoryID: EverydayID, IsTombstone: true},
				},
			},
			{
				EntityID: "mc-hidden", Name: ynab4.HiddenCategoriesName, Type: ynab4.MasterTypeOutflow, SortableIndex: 3,
				SubCategories: []ynab4.SubCategory{
					{EntityID: "sc-hidden-gym", Name: "Everyday Expenses ` Gym ` 4", SortableIndex: 1, MasterCategoryID: "mc-hidden"},
				},
			},
			{
				EntityID: "mc-debt", Name: "Pre-YNAB Debt", Type: "INFLOW", SortableIndex: 4,
				SubCategories: []ynab4.SubCategory{{EntityID: "sc-debt", Name: "Old Card", MasterCategoryID: "mc-debt"}},
			},
		},
		Payees: []ynab4.Payee{
			{EntityID: MarketID, Name: "Farmers Market", AutoFillCategoryID: GroceriesID},
			{EntityID: LandlordID, Name: "Landlord", AutoFillCategoryID: RentID,
				RenameConditions: []ynab4.RenameCondition{{EntityID: "rc-1", Operator: "Contains", Operand: "RENT"}}},
			{EntityID: "payee-employer", Name: "Acme Corp"},
			{EntityID: SavingsTransferID, Name: "Transfer : Rainy Day", TargetAccountID: SavingsID},
			{EntityID: "payee-transfer-checking", Name: "Transfer : Everyday Checking", TargetAccountID: CheckingID},
		},
		Transactions: []ynab4.Transaction{
			{EntityID: "tx-salary", AccountID: CheckingID, PayeeID: "payee-employer", CategoryID: ynab4.CategoryImmediateIncome,
				Date: "2016-01-01", Amount: amount("3000"), Cleared: "Reconciled"},
			{EntityID: "tx-rent", AccountID: CheckingID, PayeeID: LandlordID, CategoryID: RentID,
				Date: "2016-01-02", Amount: amount("-1200"), Memo: "January", Cleared: "Cleared"},
			{EntityID: "tx-shop", AccountID: CheckingID, PayeeID: MarketID, CategoryID: ynab4.CategorySplit,
				Date: "2016-01-05", Amount: amount("-80.25"), Cleared: "Uncleared",
				SubTransactions: []ynab4.SubTransaction{
					{EntityID: "tx-shop-1", ParentTransactionID: "tx-shop", CategoryID: GroceriesID, Amount: amount("-60.25"), Memo: "veg"},
					{EntityID: "tx-shop-2", ParentTransactionID: "tx-shop", CategoryID: DiningID, Amount: amount("-20")},
				}},
			{EntityID: "tx-save-out", AccountID: CheckingID, PayeeID: SavingsTransferID, Date: "2016-01-10", Amount: amount("-500"),
				TargetAccountID: SavingsID, TransferTransactionID: "tx-save-in"},
			{EntityID: "tx-save-in", AccountID: SavingsID, PayeeID: "payee-transfer-checking", Date: "2016-01-10", Amount: amount("500"),
				TargetAccountID: CheckingID, TransferTransactionID: "tx-save-out"},
			{EntityID: "tx-dividend", AccountID: BrokerageID, PayeeID: "payee-employer", CategoryID: ynab4.CategoryDeferredIncome,
				Date: "2016-02-01", Amount: amount("12.5")},
			{EntityID: "tx-deleted", AccountID: CheckingID, Date: "2016-01-03", Amount: amount("-1"), IsTombstone: true},
		},
		MonthlyBudgets: []ynab4.MonthlyBudget{
			{EntityID: "mb-2016-02", Month: "2016-02-01", MonthlySubCategoryBudgets: []ynab4.MonthlySubCategoryBudget{
				{CategoryID: RentID, Budgeted: amount("1200")},
				{CategoryID: GroceriesID, Budgeted: amount("250"), OverspendingHandling: ynab4.OverspendingAffectsBuffer},
			}},
			{EntityID: "mb-2016-01", Month: "2016-01-01", MonthlySubCategoryBudgets: []ynab4.MonthlySubCategoryBudget{
				{CategoryID: RentID, Budgeted: amount("1200")},
				{CategoryID: GroceriesID, Budgeted: amount("300.5"), OverspendingHandling: ynab4.OverspendingConfined},
				{CategoryID: "sc-debt", Budgeted: amount("50")},
			}},
		},
	}
}

// RandomTransactions appends n random grocery purchases to the checking
// account of b.
func RandomTransactions(b *ynab4.Budget, n int, seed int64) {
	rng := rand.New(rand.NewSource(seed))
	for i := 0; i < n; i++ {
		cents := int64(rng.Intn(20000) + 500)
		b.Transactions = append(b.Transactions, ynab4.Transaction{
			EntityID:   fmt.Sprintf("tx-random-%d", i),
			AccountID:  CheckingID,
			PayeeID:    MarketID,
			CategoryID: GroceriesID,
			Date:       fmt.Sprintf("2016-03-%02d", rng.Intn(28)+1),
			Amount:     decimal.New(-cents, -2),
		})
	}
}

// WriteFolder lays out a .ynab4 folder under root holding budget as the full
// snapshot of every device in devices. It returns the folder path.
func WriteFolder(root, name string, budget ynab4.Budget, devices []ynab4.Device) (string, error) {
	dir := filepath.Join(root, name+"~9F1E0C2A.ynab4")
	data := filepath.Join(dir, "data1~3B7D")

	if err := writeJSON(filepath.Join(dir, "Budget.ymeta"), ynab4.Meta{
		RelativeDataFolderName: "data1~3B7D",
		FormatVersion:          "1.2",
	}); err != nil {
		return "", err
	}
	for _, d := range devices {
		if err := writeJSON(filepath.Join(data, "devices", d.ShortDeviceID+".ydevice"), d); err != nil {
			return "", err
		}
		if err := writeJSON(filepath.Join(data, d.DeviceGUID, "Budget.yfull"), budget); err != nil {
			return "", err
		}
	}
	return dir, nil
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
