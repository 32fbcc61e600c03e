package repository

import (
	"context"
	"database/sql"
)

// PayeeRepo handles payees.
type PayeeRepo struct {
	db DBTX
}

func NewPayeeRepo(db DBTX) *PayeeRepo { return &PayeeRepo{db: db} }

func (r *PayeeRepo) Insert(ctx context.Context, p Payee) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO payees(id, name, category_id, transfer_acct) VALUES (?, ?, ?, ?)`,
		p.ID, p.Name, p.CategoryID, p.TransferAccount)
	return err
}

// ForTransferAccount returns the transfer payee of accountID, or nil.
func (r *PayeeRepo) ForTransferAccount(ctx context.Context, accountID string) (*Payee, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name, category_id, transfer_acct FROM payees WHERE transfer_acct = ? ORDER BY created_at LIMIT 1`, accountID)
	p, err := scanPayee(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *PayeeRepo) List(ctx context.Context) ([]Payee, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, category_id, transfer_acct FROM payees ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Payee
	for rows.Next() {
		p, err := scanPayee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanPayee(s scanner) (Payee, error) {
	var p Payee
	var cat, acct sql.NullString
	if err := s.Scan(&p.ID, &p.Name, &cat, &acct); err != nil {
		return Payee{}, err
	}
	if cat.Valid {
		p.CategoryID = &cat.String
	}
	if acct.Valid {
		p.TransferAccount = &acct.String
	}
	return p, nil
}
