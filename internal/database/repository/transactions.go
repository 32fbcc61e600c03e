package repository

import (
	"context"
	"database/sql"
)

// TransactionRepo handles transactions.
type TransactionRepo struct {
	db DBTX
}

func NewTransactionRepo(db DBTX) *TransactionRepo { return &TransactionRepo{db: db} }

func (r *TransactionRepo) Insert(ctx context.Context, t Transaction) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO transactions(
	 id, account_id, parent_id, is_parent, is_child, date, amount,
	 category_id, payee_id, notes, transfer_id, cleared, sort_order)
	VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`,
		t.ID, t.AccountID, t.ParentID, t.IsParent, t.IsChild, t.Date, t.Amount,
		t.CategoryID, t.PayeeID, t.Notes, t.TransferID, t.Cleared, t.SortOrder)
	return err
}

const transactionColumns = `id, account_id, parent_id, is_parent, is_child, date, amount, category_id, payee_id, notes, transfer_id, cleared, sort_order`

// ListByAccount returns an account's top-level transactions, newest first.
func (r *TransactionRepo) ListByAccount(ctx context.Context, accountID string) ([]Transaction, error) {
	return r.list(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE account_id = ? AND is_child = 0 ORDER BY date DESC, sort_order`, accountID)
}

// Children returns the split lines of a parent transaction in entry order.
func (r *TransactionRepo) Children(ctx context.Context, parentID string) ([]Transaction, error) {
	return r.list(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE parent_id = ? ORDER BY sort_order`, parentID)
}

func (r *TransactionRepo) Get(ctx context.Context, id string) (*Transaction, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id = ?`, id)
	t, err := scanTransaction(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

// Count returns the number of top-level transactions.
func (r *TransactionRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions WHERE is_child = 0`).Scan(&n)
	return n, err
}

func (r *TransactionRepo) list(ctx context.Context, query string, args ...any) ([]Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func scanTransaction(s scanner) (Transaction, error) {
	var t Transaction
	var parent, cat, payee, notes, transfer sql.NullString
	if err := s.Scan(&t.ID, &t.AccountID, &parent, &t.IsParent, &t.IsChild, &t.Date, &t.Amount,
		&cat, &payee, &notes, &transfer, &t.Cleared, &t.SortOrder); err != nil {
		return Transaction{}, err
	}
	t.ParentID = nullable(parent)
	t.CategoryID = nullable(cat)
	t.PayeeID = nullable(payee)
	t.Notes = nullable(notes)
	t.TransferID = nullable(transfer)
	return t, nil
}

func nullable(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}
