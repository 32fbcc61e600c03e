package database

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/jask/ynab4import/internal/database/repository"
)

// Income group and category every ledger starts with. Income transactions
// are imported into this category.
var (
	IncomeGroupID    = uuid.NewSHA1(uuid.NameSpaceOID, []byte("group:Income")).String()
	IncomeCategoryID = uuid.NewSHA1(uuid.NameSpaceOID, []byte("cat:Income")).String()
)

// SeedDefaults ensures the Income group and category exist.
// It is idempotent and safe to run on every startup.
func SeedDefaults(ctx context.Context, db *sql.DB) error {
	return WithTx(ctx, db, func(tx *sql.Tx) error {
		cats := repository.NewCategoryRepo(tx)
		if err := cats.UpsertGroup(ctx, repository.CategoryGroup{
			ID: IncomeGroupID, Name: "Income", IsIncome: true, SortOrder: 1 << 30,
		}); err != nil {
			return err
		}
		return cats.Upsert(ctx, repository.Category{
			ID: IncomeCategoryID, GroupID: IncomeGroupID, Name: "Income", IsIncome: true,
		})
	})
}
