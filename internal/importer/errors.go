package importer

import "errors"

var (
	// ErrMissingAccountReference is returned when a transaction's account has
	// no ledger account; transactions are never written without one.
	ErrMissingAccountReference = errors.New("transaction references unknown account")
	// ErrUnresolvedTransferPayee is returned when a transfer leg has no payee
	// linked to the other leg's account.
	ErrUnresolvedTransferPayee = errors.New("no transfer payee for target account")
	// ErrIncomeCategory is returned when the ledger does not hold exactly one
	// category named "Income".
	ErrIncomeCategory = errors.New("ledger must have exactly one Income category")
)
