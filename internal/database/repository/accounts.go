package repository

import (
	"context"
	"database/sql"
)

// AccountRepo handles accounts.
type AccountRepo struct {
	db DBTX
}

func NewAccountRepo(db DBTX) *AccountRepo {
	return &AccountRepo{db: db}
}

// Insert appends a after the existing accounts.
func (r *AccountRepo) Insert(ctx context.Context, a Account) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO accounts(id, name, account_type, off_budget, closed, note, sort_order)
	VALUES (?, ?, ?, ?, ?, ?, (SELECT COALESCE(MAX(sort_order), 0) + 1024 FROM accounts));
	`, a.ID, a.Name, a.AccountType, a.OffBudget, a.Closed, a.Note)
	return err
}

func (r *AccountRepo) Get(ctx context.Context, id string) (*Account, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name, account_type, off_budget, closed, note, sort_order FROM accounts WHERE id = ?`, id)
	a, err := scanAccount(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *AccountRepo) List(ctx context.Context) ([]Account, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, account_type, off_budget, closed, note, sort_order FROM accounts ORDER BY sort_order, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanAccount(s scanner) (Account, error) {
	var a Account
	var note sql.NullString
	if err := s.Scan(&a.ID, &a.Name, &a.AccountType, &a.OffBudget, &a.Closed, &note, &a.SortOrder); err != nil {
		return Account{}, err
	}
	if note.Valid {
		a.Note = &note.String
	}
	return a, nil
}
