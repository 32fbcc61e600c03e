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

// ImportPayees creates ledger payees. Accounts and categories must already be
// registered: default categories and transfer accounts are resolved here.
// Rename conditions (payee rules) are not imported; they are reported.
func (im *Importer) ImportPayees(ctx context.Context, payees []ynab4.Payee) (int, error) {
	log := logger.FromContext(ctx)
	var created atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	im.limit(g)
	for _, p := range payees {
		if p.IsTombstone {
			continue
		}
		if n := p.ActiveRules(); n > 0 {
			log.Warn().Str("payee", p.Name).Int("rules", n).Msg("payee rules not imported")
		}
		g.Go(func() error {
			id, err := im.Ledger.CreatePayee(gctx, ledger.NewPayee{
				Name:            p.Name,
				CategoryID:      im.Registry.Lookup(p.AutoFillCategoryID),
				TransferAccount: im.Registry.Lookup(p.TargetAccountID),
			})
			if err != nil {
				return fmt.Errorf("create payee %q: %w", p.Name, err)
			}
			im.Registry.Set(p.EntityID, id)
			created.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return int(created.Load()), err
	}

	log.Info().Int64("created", created.Load()).Msg("payees imported")
	return int(created.Load()), nil
}
