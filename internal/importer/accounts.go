package importer

import (
	"context"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/jask/ynab4import/internal/ledger"
	"github.com/jask/ynab4import/internal/logger"
	"github.com/jask/ynab4import/internal/ynab4"
)

var accountTypes = map[string]string{
	"Cash":              ledger.AccountChecking,
	"Checking":          ledger.AccountChecking,
	"CreditCard":        ledger.AccountCredit,
	"Savings":           ledger.AccountSavings,
	"InvestmentAccount": ledger.AccountInvestment,
	"Mortgage":          ledger.AccountMortgage,
}

func accountType(legacy string) string {
	if t, ok := accountTypes[legacy]; ok {
		return t
	}
	return ledger.AccountOther
}

// ImportAccounts creates a ledger account for every live legacy account.
func (im *Importer) ImportAccounts(ctx context.Context, accounts []ynab4.Account) (int, error) {
	var created atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	im.limit(g)
	for _, a := range accounts {
		if a.IsTombstone {
			continue
		}
		g.Go(func() error {
			id, err := im.Ledger.CreateAccount(gctx, ledger.NewAccount{
				Name:      a.AccountName,
				Type:      accountType(a.AccountType),
				OffBudget: !a.OnBudget,
				Closed:    a.Hidden,
				Note:      a.Note,
			})
			if err != nil {
				return fmt.Errorf("create account %q: %w", a.AccountName, err)
			}
			im.Registry.Set(a.EntityID, id)
			created.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return int(created.Load()), err
	}

	log := logger.FromContext(ctx)
	log.Info().Int64("created", created.Load()).Msg("accounts imported")
	return int(created.Load()), nil
}
