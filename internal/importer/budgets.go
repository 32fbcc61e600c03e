package importer

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/jask/ynab4import/internal/logger"
	"github.com/jask/ynab4import/internal/ynab4"
)

// carryover tracks, per ledger category, whether overspending rolls into the
// next month. It lives for one replay and is only advanced month by month.
type carryover struct {
	mu sync.Mutex
	on map[string]bool
}

func newCarryover() *carryover {
	return &carryover{on: make(map[string]bool)}
}

// apply folds one month's overspending marker into the category's state and
// reports whether carryover must be pushed for that month. "Confined" stays
// in force for later months until "AffectsBuffer" turns it off.
func (c *carryover) apply(categoryID, handling string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch handling {
	case ynab4.OverspendingAffectsBuffer:
		c.on[categoryID] = false
	case ynab4.OverspendingConfined:
		c.on[categoryID] = true
	}
	return c.on[categoryID]
}

// activeSubCategories lists the live subcategory ids of the master tree.
func activeSubCategories(masters []ynab4.MasterCategory) []string {
	var ids []string
	for _, m := range masters {
		for _, sc := range m.SubCategories {
			if !sc.IsTombstone {
				ids = append(ids, sc.EntityID)
			}
		}
	}
	return ids
}

// fillInBudgets drops tombstoned entries and adds a zero entry for every
// category the month does not mention. YNAB4 only stores budgeted
// categories, but carryover has to be set on every month it applies to.
func fillInBudgets(entries []ynab4.MonthlySubCategoryBudget, categories []string) []ynab4.MonthlySubCategoryBudget {
	out := make([]ynab4.MonthlySubCategoryBudget, 0, len(entries)+len(categories))
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		if e.IsTombstone {
			continue
		}
		seen[e.CategoryID] = true
		out = append(out, e)
	}
	for _, id := range categories {
		if !seen[id] {
			out = append(out, ynab4.MonthlySubCategoryBudget{CategoryID: id})
		}
	}
	return out
}

// ReplayBudgets sets every month's budget amounts and carryover flags in
// calendar order. Months run strictly one after another because carryover
// depends on the previous month; categories within a month run concurrently.
func (im *Importer) ReplayBudgets(ctx context.Context, masters []ynab4.MasterCategory, months []ynab4.MonthlyBudget) (int, error) {
	sorted := slices.Clone(months)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].MonthKey() < sorted[j].MonthKey()
	})
	categories := activeSubCategories(masters)

	var written atomic.Int64
	err := im.Ledger.BatchBudgetUpdates(ctx, func(ctx context.Context) error {
		state := newCarryover()
		for _, mb := range sorted {
			n, err := im.replayMonth(ctx, mb, categories, state)
			written.Add(int64(n))
			if err != nil {
				return fmt.Errorf("budget month %s: %w", mb.MonthKey(), err)
			}
		}
		return nil
	})
	if err != nil {
		return int(written.Load()), err
	}

	log := logger.FromContext(ctx)
	log.Info().
		Int64("written", written.Load()).
		Int("months", len(sorted)).
		Msg("budgets replayed")
	return int(written.Load()), nil
}

func (im *Importer) replayMonth(ctx context.Context, mb ynab4.MonthlyBudget, categories []string, state *carryover) (int, error) {
	month := mb.MonthKey()
	log := logger.FromContext(ctx)

	var written atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	im.limit(g)
	for _, e := range fillInBudgets(mb.MonthlySubCategoryBudgets, categories) {
		categoryID, ok := im.Registry.Get(e.CategoryID)
		if !ok {
			log.Debug().Str("month", month).Str("category", e.CategoryID).Msg("skipping budget for unmapped category")
			continue
		}
		g.Go(func() error {
			if err := im.Ledger.SetBudgetAmount(gctx, month, categoryID, toMinorUnits(e.Budgeted)); err != nil {
				return fmt.Errorf("set budget amount: %w", err)
			}
			written.Add(1)
			if state.apply(categoryID, e.OverspendingHandling) {
				if err := im.Ledger.SetBudgetCarryover(gctx, month, categoryID, true); err != nil {
					return fmt.Errorf("set carryover: %w", err)
				}
			}
			return nil
		})
	}
	err := g.Wait()
	return int(written.Load()), err
}
