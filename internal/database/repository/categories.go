package repository

import (
	"context"
)

// CategoryRepo handles category groups and categories.
type CategoryRepo struct {
	db DBTX
}

func NewCategoryRepo(db DBTX) *CategoryRepo {
	return &CategoryRepo{db: db}
}

func (r *CategoryRepo) UpsertGroup(ctx context.Context, g CategoryGroup) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO category_groups(id, name, is_income, sort_order)
	VALUES (?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
	 name=excluded.name,
	 is_income=excluded.is_income,
	 sort_order=excluded.sort_order;
	`, g.ID, g.Name, g.IsIncome, g.SortOrder)
	return err
}

// NextGroupOrder returns a sort order placing a new expense group after the
// existing ones but before income groups.
func (r *CategoryRepo) NextGroupOrder(ctx context.Context) (int64, error) {
	var order int64
	err := r.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(sort_order), 0) + 1024 FROM category_groups WHERE is_income = 0`).Scan(&order)
	return order, err
}

func (r *CategoryRepo) ListGroups(ctx context.Context) ([]CategoryGroup, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, is_income, sort_order FROM category_groups ORDER BY sort_order, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []CategoryGroup
	for rows.Next() {
		var g CategoryGroup
		if err := rows.Scan(&g.ID, &g.Name, &g.IsIncome, &g.SortOrder); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (r *CategoryRepo) GroupExists(ctx context.Context, id string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM category_groups WHERE id = ?`, id).Scan(&n)
	return n > 0, err
}

func (r *CategoryRepo) Upsert(ctx context.Context, c Category) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO categories(id, group_id, name, is_income, sort_order)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
	 group_id=excluded.group_id,
	 name=excluded.name,
	 is_income=excluded.is_income,
	 sort_order=excluded.sort_order;
	`, c.ID, c.GroupID, c.Name, c.IsIncome, c.SortOrder)
	return err
}

// TopOrder returns a sort order placing a new category above every category
// already in the group.
func (r *CategoryRepo) TopOrder(ctx context.Context, groupID string) (int64, error) {
	var order int64
	err := r.db.QueryRowContext(ctx, `SELECT COALESCE(MIN(sort_order) - 1024, 0) FROM categories WHERE group_id = ?`, groupID).Scan(&order)
	return order, err
}

// List returns categories in display order: by group, then within the group.
func (r *CategoryRepo) List(ctx context.Context) ([]Category, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT c.id, c.group_id, c.name, c.is_income, c.sort_order
	FROM categories c JOIN category_groups g ON g.id = c.group_id
	ORDER BY g.sort_order, g.name, c.sort_order, c.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.GroupID, &c.Name, &c.IsIncome, &c.SortOrder); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
