package repository

import (
	"context"
	"database/sql"
)

// BudgetRepo handles monthly category budgets.
type BudgetRepo struct {
	db DBTX
}

func NewBudgetRepo(db DBTX) *BudgetRepo { return &BudgetRepo{db: db} }

func (r *BudgetRepo) SetAmount(ctx context.Context, month, categoryID string, amount int64) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO budgets(month, category_id, amount) VALUES (?, ?, ?)
	ON CONFLICT(month, category_id) DO UPDATE SET
	 amount=excluded.amount,
	 updated_at=CURRENT_TIMESTAMP;
	`, month, categoryID, amount)
	return err
}

func (r *BudgetRepo) SetCarryover(ctx context.Context, month, categoryID string, carryover bool) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO budgets(month, category_id, carryover) VALUES (?, ?, ?)
	ON CONFLICT(month, category_id) DO UPDATE SET
	 carryover=excluded.carryover,
	 updated_at=CURRENT_TIMESTAMP;
	`, month, categoryID, carryover)
	return err
}

func (r *BudgetRepo) Get(ctx context.Context, month, categoryID string) (*Budget, error) {
	var b Budget
	err := r.db.QueryRowContext(ctx, `SELECT month, category_id, amount, carryover FROM budgets WHERE month = ? AND category_id = ?`, month, categoryID).
		Scan(&b.Month, &b.CategoryID, &b.Amount, &b.Carryover)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

// ListMonth returns every budget row of month (YYYY-MM).
func (r *BudgetRepo) ListMonth(ctx context.Context, month string) ([]Budget, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT month, category_id, amount, carryover FROM budgets WHERE month = ? ORDER BY category_id`, month)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Budget
	for rows.Next() {
		var b Budget
		if err := rows.Scan(&b.Month, &b.CategoryID, &b.Amount, &b.Carryover); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
