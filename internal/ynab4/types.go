package ynab4

import "github.com/shopspring/decimal"

// Magic category ids used by YNAB4 on transactions and split lines.
const (
	CategorySplit           = "Category/__Split__"
	CategoryImmediateIncome = "Category/__ImmediateIncome__"
	CategoryDeferredIncome  = "Category/__DeferredIncome__"
)

// Master category types.
const (
	MasterTypeOutflow = "OUTFLOW"
	MasterTypeInflow  = "INFLOW"
)

// Overspending handling markers on monthly subcategory budgets.
const (
	OverspendingAffectsBuffer = "AffectsBuffer"
	OverspendingConfined      = "Confined"
)

// HiddenCategoriesName is the master category holding archived subcategories.
const HiddenCategoriesName = "Hidden Categories"

// Budget is the parsed Budget.yfull document of one device.
type Budget struct {
	Accounts         []Account        `json:"accounts"`
	MasterCategories []MasterCategory `json:"masterCategories"`
	Payees           []Payee          `json:"payees"`
	Transactions     []Transaction    `json:"transactions"`
	MonthlyBudgets   []MonthlyBudget  `json:"monthlyBudgets"`
}

type Account struct {
	EntityID      string `json:"entityId"`
	IsTombstone   bool   `json:"isTombstone"`
	AccountName   string `json:"accountName"`
	AccountType   string `json:"accountType"`
	OnBudget      bool   `json:"onBudget"`
	Hidden        bool   `json:"hidden"`
	Note          string `json:"note"`
	SortableIndex int64  `json:"sortableIndex"`
}

type MasterCategory struct {
	EntityID      string        `json:"entityId"`
	IsTombstone   bool          `json:"isTombstone"`
	Name          string        `json:"name"`
	Type          string        `json:"type"`
	SortableIndex int64         `json:"sortableIndex"`
	Note          string        `json:"note"`
	SubCategories []SubCategory `json:"subCategories"`
}

// HasActiveSubCategory reports whether at least one subcategory is not tombstoned.
func (m MasterCategory) HasActiveSubCategory() bool {
	for _, sc := range m.SubCategories {
		if !sc.IsTombstone {
			return true
		}
	}
	return false
}

type SubCategory struct {
	EntityID         string `json:"entityId"`
	IsTombstone      bool   `json:"isTombstone"`
	Name             string `json:"name"`
	Type             string `json:"type"`
	SortableIndex    int64  `json:"sortableIndex"`
	MasterCategoryID string `json:"masterCategoryId"`
	Note             string `json:"note"`
}

type Payee struct {
	EntityID           string            `json:"entityId"`
	IsTombstone        bool              `json:"isTombstone"`
	Name               string            `json:"name"`
	AutoFillCategoryID string            `json:"autoFillCategoryId"`
	TargetAccountID    string            `json:"targetAccountId"`
	RenameConditions   []RenameCondition `json:"renameConditions"`
}

// ActiveRules counts the rename conditions that are not deleted.
func (p Payee) ActiveRules() int {
	n := 0
	for _, r := range p.RenameConditions {
		if !r.IsTombstone {
			n++
		}
	}
	return n
}

type RenameCondition struct {
	EntityID    string `json:"entityId"`
	IsTombstone bool   `json:"isTombstone"`
	Operator    string `json:"operator"`
	Operand     string `json:"operand"`
}

type Transaction struct {
	EntityID              string           `json:"entityId"`
	IsTombstone           bool             `json:"isTombstone"`
	AccountID             string           `json:"accountId"`
	PayeeID               string           `json:"payeeId"`
	CategoryID            string           `json:"categoryId"`
	Date                  string           `json:"date"`
	Amount                decimal.Decimal  `json:"amount"`
	Memo                  string           `json:"memo"`
	Cleared               string           `json:"cleared"`
	Accepted              bool             `json:"accepted"`
	TargetAccountID       string           `json:"targetAccountId"`
	TransferTransactionID string           `json:"transferTransactionId"`
	SubTransactions       []SubTransaction `json:"subTransactions"`
}

type SubTransaction struct {
	EntityID              string          `json:"entityId"`
	IsTombstone           bool            `json:"isTombstone"`
	ParentTransactionID   string          `json:"parentTransactionId"`
	CategoryID            string          `json:"categoryId"`
	Amount                decimal.Decimal `json:"amount"`
	Memo                  string          `json:"memo"`
	TargetAccountID       string          `json:"targetAccountId"`
	TransferTransactionID string          `json:"transferTransactionId"`
}

type MonthlyBudget struct {
	EntityID                  string                     `json:"entityId"`
	IsTombstone               bool                       `json:"isTombstone"`
	Month                     string                     `json:"month"`
	MonthlySubCategoryBudgets []MonthlySubCategoryBudget `json:"monthlySubCategoryBudgets"`
}

// MonthKey returns the YYYY-MM part of the budget month ("2016-03-01" -> "2016-03").
func (m MonthlyBudget) MonthKey() string {
	if len(m.Month) >= 7 {
		return m.Month[:7]
	}
	return m.Month
}

type MonthlySubCategoryBudget struct {
	EntityID             string          `json:"entityId"`
	IsTombstone          bool            `json:"isTombstone"`
	CategoryID           string          `json:"categoryId"`
	Budgeted             decimal.Decimal `json:"budgeted"`
	OverspendingHandling string          `json:"overspendingHandling"`
}

// Meta is the Budget.ymeta file at the root of a .ynab4 folder.
type Meta struct {
	RelativeDataFolderName string `json:"relativeDataFolderName"`
	FormatVersion          string `json:"formatVersion"`
	TED                    int64  `json:"TED"`
}

// Device is one devices/*.ydevice metadata record.
type Device struct {
	DeviceGUID          string `json:"deviceGUID"`
	ShortDeviceID       string `json:"shortDeviceId"`
	FriendlyName        string `json:"friendlyName"`
	HasFullKnowledge    bool   `json:"hasFullKnowledge"`
	Knowledge           string `json:"knowledge"`
	KnowledgeInFullFile string `json:"knowledgeInFullBudgetFile"`

	// Path is the file the record was read from; empty for in-memory records.
	Path string `json:"-"`
}
